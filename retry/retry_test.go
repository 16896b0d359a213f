package retry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presskit/errors"
)

func TestDo_SucceedsAfterRetries(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.NewError(errors.ErrCodeConcurrency, "version mismatch")
		}
		return nil
	}, Config{MaxAttempts: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.NewError(errors.ErrCodeConcurrency, "version mismatch")
	}, Config{MaxAttempts: 2})
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
	assert.True(t, errors.IsConcurrency(err))
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.NewValidationError("title cannot be empty")
	}, Config{
		MaxAttempts: 5,
		IsRetryable: errors.IsConcurrency,
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.True(t, errors.IsValidation(err))
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, func(ctx context.Context) error { return nil }, DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
}
