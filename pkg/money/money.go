// Package money converts between wire amounts and int64 minor units (cents).
package money

import (
	"math"

	"donation-platform/pkg/apperror"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by an amount.
const Scale = 2

// MaxAmount is the largest single amount accepted, in minor units (1,000,000,000.00).
const MaxAmount int64 = 100_000_000_000

var maxMinor = decimal.NewFromInt(MaxAmount)

// Amount is a positive money value in minor units. It decodes from a JSON
// string ("12.50") or number (12.5) and always encodes as a fixed two-decimal string.
type Amount int64

// Parse converts a decimal string into minor units.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, apperror.ErrInvalidAmount()
	}
	return FromDecimal(d)
}

// FromDecimal converts d into minor units. Zero, negative, more than two
// fractional digits and values above MaxAmount are rejected.
func FromDecimal(d decimal.Decimal) (int64, error) {
	if !d.IsPositive() || !d.Equal(d.Round(Scale)) {
		return 0, apperror.ErrInvalidAmount()
	}
	minor := d.Shift(Scale)
	if minor.GreaterThan(maxMinor) {
		return 0, apperror.ErrInvalidAmount()
	}
	return minor.IntPart(), nil
}

// Valid reports whether minor is a positive amount no larger than MaxAmount.
func Valid(minor int64) bool {
	return minor > 0 && minor <= MaxAmount
}

// Add returns a+b and false if the sum does not fit in an int64.
func Add(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

// Format renders minor units as a fixed two-decimal string.
func Format(minor int64) string {
	return decimal.New(minor, -Scale).StringFixed(Scale)
}

// Percent returns part/whole*100 rounded to two decimals; 0 when whole is 0.
func Percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(whole), Scale).
		Float64()
	return f
}

func (a Amount) Int64() int64 { return int64(a) }

func (a Amount) String() string { return Format(int64(a)) }

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + Format(int64(a)) + `"`), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return apperror.ErrInvalidAmount()
	}
	minor, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*a = Amount(minor)
	return nil
}
