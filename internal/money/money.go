// Package money is the boundary between submitted amount strings and the
// exact decimal values the rest of the application operates on. Handlers
// parse here once; everything past this package is decimal.Decimal.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("amount is not a valid number")
	ErrTooManyDecimals = errors.New("amount has more than 2 decimal places")
)

// Tolerance is the cent-level slack shared by the settlement engine and
// payment matching: differences at or below it are treated as rounding
// noise, never as real debt.
var Tolerance = decimal.New(1, -2) // 0.01

// ParseAmount parses a locale-formatted amount string. Both Brazilian-style
// input ("100", "100,00", "1.234,56") and plain dot-decimal input
// ("1234.56") are accepted: a comma anywhere marks the decimal separator
// and demotes dots to thousands separators.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.Exponent() < -2 {
		return decimal.Zero, ErrTooManyDecimals
	}
	return Quantize(d), nil
}

// Quantize applies the single rounding rule used across the application:
// round half away from zero to 2 fractional digits. Amounts in this domain
// are never negative, so this is round-half-up.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FloorCents truncates toward zero to 2 fractional digits. Used by the
// equal-split division so the remainder is always non-negative.
func FloorCents(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(2)
}

// WithinTolerance reports whether a and b differ by at most Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// IsNegligible reports whether d is small enough to be rounding noise.
func IsNegligible(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(Tolerance)
}
