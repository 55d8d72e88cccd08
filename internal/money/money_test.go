package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "plain integer", raw: "100", want: "100"},
		{name: "comma decimal", raw: "100,00", want: "100"},
		{name: "thousands dot with comma decimal", raw: "1.234,56", want: "1234.56"},
		{name: "plain dot decimal", raw: "1234.56", want: "1234.56"},
		{name: "surrounding whitespace", raw: "  42,50 ", want: "42.5"},
		{name: "multiple thousands groups", raw: "1.234.567,89", want: "1234567.89"},
		{name: "empty", raw: "", wantErr: ErrInvalidAmount},
		{name: "not a number", raw: "abc", wantErr: ErrInvalidAmount},
		{name: "comma only", raw: ",", wantErr: ErrInvalidAmount},
		{name: "three decimal places", raw: "10.123", wantErr: ErrTooManyDecimals},
		{name: "three comma decimals", raw: "10,123", wantErr: ErrTooManyDecimals},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"ParseAmount(%q) = %s, want %s", tt.raw, got, tt.want)
		})
	}
}

func TestQuantizeRoundsHalfUp(t *testing.T) {
	assert.Equal(t, "10.13", Quantize(decimal.RequireFromString("10.125")).StringFixed(2))
	assert.Equal(t, "10.12", Quantize(decimal.RequireFromString("10.124")).StringFixed(2))
}

func TestFloorCents(t *testing.T) {
	assert.Equal(t, "33.33", FloorCents(decimal.RequireFromString("33.3399")).StringFixed(2))
	assert.Equal(t, "33.33", FloorCents(decimal.RequireFromString("33.33")).StringFixed(2))
}

func TestWithinTolerance(t *testing.T) {
	a := decimal.RequireFromString("50.00")
	assert.True(t, WithinTolerance(a, decimal.RequireFromString("50.01")))
	assert.True(t, WithinTolerance(a, decimal.RequireFromString("49.99")))
	assert.False(t, WithinTolerance(a, decimal.RequireFromString("50.02")))
}
