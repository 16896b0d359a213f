package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"presskit/errors"
)

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("hello", "title"))
	err := ValidateRequired("   ", "title")
	assert.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Contains(t, err.Error(), "title")
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		slug  string
		valid bool
	}{
		{"hello", true},
		{"hello-world", true},
		{"post-123", true},
		{"", false},
		{"Hello", false},
		{"hello world", false},
		{"-leading", false},
		{"trailing-", false},
	}
	for _, tt := range tests {
		err := ValidateSlug(tt.slug, "slug")
		if tt.valid {
			assert.NoError(t, err, tt.slug)
		} else {
			assert.Error(t, err, tt.slug)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("author@example.com", "email"))
	assert.Error(t, ValidateEmail("not-an-email", "email"))
	assert.Error(t, ValidateEmail("", "email"))
}

func TestValidateNonNegative(t *testing.T) {
	assert.NoError(t, ValidateNonNegative(0, "sidebar"))
	assert.NoError(t, ValidateNonNegative(1, "sidebar"))
	err := ValidateNonNegative(-1, "sidebar")
	assert.True(t, errors.IsValidation(err))
}

func TestValidateCurrencyCode(t *testing.T) {
	assert.NoError(t, ValidateCurrencyCode("USD"))
	assert.NoError(t, ValidateCurrencyCode("EUR"))
	assert.Error(t, ValidateCurrencyCode("usd"))
	assert.Error(t, ValidateCurrencyCode("DOLLAR"))
	assert.Error(t, ValidateCurrencyCode(""))
}

func TestValidateDecimalAmount(t *testing.T) {
	assert.NoError(t, ValidateDecimalAmount("0"))
	assert.NoError(t, ValidateDecimalAmount("19.99"))
	assert.NoError(t, ValidateDecimalAmount("1000.5"))
	assert.Error(t, ValidateDecimalAmount("-1"))
	assert.Error(t, ValidateDecimalAmount("1.23456"))
	assert.Error(t, ValidateDecimalAmount("abc"))
}

func TestValidateStringLength(t *testing.T) {
	assert.NoError(t, ValidateStringLength("hello", "title", 1, 10))
	assert.Error(t, ValidateStringLength("", "title", 1, 10))
	assert.Error(t, ValidateStringLength("too long value", "title", 1, 5))
	// max = 0 表示不限制上限
	assert.NoError(t, ValidateStringLength("anything goes here", "title", 1, 0))
}
