// Package units converts between the decimal amounts people type on the
// command line and the integer base units contracts store.
package units

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal places used by the contracts.
const (
	EtherDecimals = 18
	PriceDecimals = 18
	RatioDecimals = 3
)

// EtherPlaces is the number of fractional digits shown for ether amounts.
const EtherPlaces = 10

// Set of errors returned by the boundary checks.
var (
	ErrNotPositive = errors.New("must be a positive number")
	ErrNegative    = errors.New("must not be negative")
)

// Parse converts the decimal string into base units with the specified
// number of decimals. Values with more fractional digits than the unit
// supports are rejected instead of silently truncated.
func Parse(s string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}

	shifted := d.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, fmt.Errorf("%q has more than %d decimal places", s, decimals)
	}

	return shifted.BigInt(), nil
}

// Format converts base units into a decimal string with trailing zeros
// removed.
func Format(v *big.Int, decimals int32) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -decimals).String()
}

// Round converts base units into a decimal string rounded to the specified
// number of fractional places.
func Round(v *big.Int, decimals int32, places int32) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -decimals).Round(places).String()
}

// ToWei converts an ether amount into wei.
func ToWei(ether string) (*big.Int, error) {
	return Parse(ether, EtherDecimals)
}

// FormatEther converts wei into ether rounded for display.
func FormatEther(wei *big.Int) string {
	return Round(wei, EtherDecimals, EtherPlaces)
}

// Scale returns the value 10^decimals as a big integer.
func Scale(decimals int32) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// Positive rejects zero and negative values.
func Positive(v *big.Int) error {
	if v == nil || v.Sign() <= 0 {
		return ErrNotPositive
	}
	return nil
}

// NonNegative rejects negative values.
func NonNegative(v *big.Int) error {
	if v == nil || v.Sign() < 0 {
		return ErrNegative
	}
	return nil
}

// ParseMinutes converts a duration in minutes into whole seconds.
func ParseMinutes(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}

	seconds := d.Mul(decimal.NewFromInt(60))
	if !seconds.Equal(seconds.Truncate(0)) {
		return nil, fmt.Errorf("%q minutes is not a whole number of seconds", s)
	}

	return seconds.BigInt(), nil
}

// FormatMinutes converts seconds into minutes with trailing zeros removed.
func FormatMinutes(seconds *big.Int) string {
	if seconds == nil {
		return "0"
	}
	return decimal.NewFromBigInt(seconds, 0).DivRound(decimal.NewFromInt(60), 2).String()
}
