package values

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presskit/errors"
)

func TestContentID(t *testing.T) {
	id := NewContentID()
	assert.False(t, id.IsZero())
	assert.NotEmpty(t, id.String())

	parsed, err := ParseContentID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseContentID("")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestDateTime_SecondResolutionEquality(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	a := NewDateTime(base)
	b := NewDateTime(base.Add(500 * time.Millisecond))
	c := NewDateTime(base.Add(time.Second))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestDateTime_RoundTrip(t *testing.T) {
	d := NewDateTime(time.Date(2024, 3, 15, 10, 30, 45, 123456789, time.UTC))
	assert.Equal(t, "2024-03-15 10:30:45", d.String())

	parsed, err := ParseDateTime(d.String())
	require.NoError(t, err)
	assert.True(t, d.Equal(parsed))
}

func TestParseDateTime_InvalidPayload(t *testing.T) {
	_, err := ParseDateTime("not-a-date")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSerialization, errors.GetCode(err))
}

func TestDateTime_ZeroEquality(t *testing.T) {
	var zero DateTime
	assert.True(t, zero.IsZero())
	assert.True(t, zero.Equal(DateTime{}))
	assert.False(t, zero.Equal(Now()))
}

func TestMoney(t *testing.T) {
	m, err := NewMoney("19.99", "USD")
	require.NoError(t, err)
	assert.Equal(t, "19.99", m.Amount())
	assert.Equal(t, "USD", m.Currency())
	assert.Equal(t, "19.99 USD", m.String())

	same, err := NewMoney("19.99", "USD")
	require.NoError(t, err)
	assert.True(t, m.Equal(same))

	other, err := NewMoney("19.99", "EUR")
	require.NoError(t, err)
	assert.False(t, m.Equal(other))
}

func TestNewMoney_Validation(t *testing.T) {
	cases := []struct {
		name     string
		amount   string
		currency string
	}{
		{"negative amount", "-1.00", "USD"},
		{"non-decimal amount", "abc", "USD"},
		{"empty amount", "", "USD"},
		{"lowercase currency", "1.00", "usd"},
		{"short currency", "1.00", "US"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMoney(tc.amount, tc.currency)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestParseMoney_InvalidPayload(t *testing.T) {
	_, err := ParseMoney("broken", "USD")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSerialization, errors.GetCode(err))
}

func TestIntFlag(t *testing.T) {
	f, err := NewIntFlag(1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Int())

	_, err = NewIntFlag(-1)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	_, err = ParseIntFlag(-1)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSerialization, errors.GetCode(err))
}
