package errors

import (
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	err := NewError(ErrCodeValidation, "title cannot be empty")
	assert.Equal(t, ErrCodeValidation, err.Code())
	assert.Equal(t, "title cannot be empty", err.Message())
	assert.Nil(t, err.Cause())
	assert.Equal(t, "VALIDATION_ERROR: title cannot be empty", err.Error())
}

func TestWrapError(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := WrapError(cause, ErrCodeDatabase, "insert content failed")

	assert.Equal(t, ErrCodeDatabase, err.Code())
	assert.Equal(t, cause, err.Cause())
	assert.True(t, stdErrors.Is(err, cause))
}

func TestWrapError_PreservesAppErrorCode(t *testing.T) {
	inner := NewValidationError("slug cannot be empty")
	wrapped := WrapError(inner, ErrCodeInternal, "command rejected")

	// 包装应用错误时保留原始代码
	assert.Equal(t, ErrCodeValidation, wrapped.Code())
	assert.Contains(t, wrapped.Message(), "command rejected")
	assert.True(t, IsValidation(wrapped))
}

func TestWrapError_NilCause(t *testing.T) {
	err := WrapError(nil, ErrCodeCache, "invalidate failed")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeCache, err.Code())
	assert.Nil(t, err.Cause())
}

func TestIsCodeHelpers(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("x")))
	assert.True(t, IsNotFound(NewNotFoundError("x")))
	assert.True(t, IsConcurrency(NewError(ErrCodeConcurrency, "x")))
	assert.False(t, IsValidation(stdErrors.New("plain")))
	assert.False(t, IsValidation(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeProjection, GetCode(NewError(ErrCodeProjection, "x")))
	assert.Equal(t, ErrCodeInternal, GetCode(stdErrors.New("plain")))
}

func TestWithContext(t *testing.T) {
	err := NewError(ErrCodeConcurrency, "version mismatch").
		WithContext("aggregate_id", "abc").
		WithContext("expected", uint64(3))

	details := err.Details()
	assert.Equal(t, "abc", details["aggregate_id"])
	assert.Equal(t, uint64(3), details["expected"])
}

func TestWithDetails(t *testing.T) {
	err := NewError(ErrCodeDatabase, "x").WithDetails(map[string]any{"table": "content"})
	assert.Equal(t, "content", err.Details()["table"])
}
