package commands

import (
	"fmt"

	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/shopspring/decimal"
)

// ScaleDecimal renders d as the fixed-point integer string a market with the
// given number of decimal places expects: 1.23456 at 5 places is "123456".
// Values that need more places than the market allows are rejected rather
// than rounded.
func ScaleDecimal(d decimal.Decimal, places int32) (string, error) {
	if places < 0 {
		return "", apperrors.NewInvalidRequest(fmt.Sprintf("decimal places must be >= 0, got %d", places))
	}
	scaled := d.Shift(places)
	if !scaled.Equal(scaled.Truncate(0)) {
		return "", apperrors.NewInvalidRequest(fmt.Sprintf("%s has more than %d decimal places", d.String(), places))
	}
	return scaled.Truncate(0).String(), nil
}

// ScaleString is ScaleDecimal for a human-readable decimal string.
func ScaleString(s string, places int32) (string, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", apperrors.New(apperrors.ErrInvalidRequest, fmt.Sprintf("invalid decimal %q", s), err)
	}
	return ScaleDecimal(d, places)
}

// UnscaleDecimal is the inverse of ScaleDecimal.
func UnscaleDecimal(s string, places int32) (decimal.Decimal, error) {
	if places < 0 {
		return decimal.Zero, apperrors.NewInvalidRequest(fmt.Sprintf("decimal places must be >= 0, got %d", places))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperrors.New(apperrors.ErrInvalidRequest, fmt.Sprintf("invalid fixed-point value %q", s), err)
	}
	if !d.Equal(d.Truncate(0)) {
		return decimal.Zero, apperrors.NewInvalidRequest(fmt.Sprintf("fixed-point value %q is not an integer", s))
	}
	return d.Shift(-places), nil
}
