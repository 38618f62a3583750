// Package money provides the monetary value used by the ledger.
//
// Invariants:
//   - Amount is always stored in the smallest currency unit (cents).
//   - Arithmetic never silently overflows; Add and Sub report it.
//   - Conversions from decimal input reject more than Decimals fractional digits.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Decimals is the number of fractional digits of the ledger currency.
const Decimals = 2

const minorPerMajor = 100

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// Amount represents a monetary amount as an integer in the smallest
// currency unit (e.g., cents).
type Amount int64

// FromMajor converts whole currency units to an Amount.
func FromMajor(units int64) (Amount, error) {
	if units > math.MaxInt64/minorPerMajor || units < math.MinInt64/minorPerMajor {
		return 0, ErrAmountExceedsMaxSafeInt
	}
	return Amount(units * minorPerMajor), nil
}

// MustFromMajor is FromMajor for constants and tests. It panics on overflow.
func MustFromMajor(units int64) Amount {
	a, err := FromMajor(units)
	if err != nil {
		panic(err)
	}
	return a
}

// FromDecimal converts a decimal amount expressed in major units.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	minor := d.Shift(Decimals)
	if !minor.IsInteger() {
		return 0, ErrInvalidAmount
	}
	if minor.Abs().GreaterThan(maxAmount) {
		return 0, ErrAmountExceedsMaxSafeInt
	}
	return Amount(minor.IntPart()), nil
}

// Parse parses a decimal string such as "12.50" in major units.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return FromDecimal(d)
}

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Decimals)
}

// String renders the amount with exactly Decimals fractional digits.
func (a Amount) String() string {
	return a.Decimal().StringFixed(Decimals)
}

// Minor returns the raw amount in minor units.
func (a Amount) Minor() int64 { return int64(a) }

// IsPositive reports whether a > 0.
func (a Amount) IsPositive() bool { return a > 0 }

// Add returns a+b or ErrAmountExceedsMaxSafeInt on overflow.
func (a Amount) Add(b Amount) (Amount, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrAmountExceedsMaxSafeInt
	}
	return a + b, nil
}

// Sub returns a-b or ErrAmountExceedsMaxSafeInt on overflow.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b == math.MinInt64 {
		return 0, ErrAmountExceedsMaxSafeInt
	}
	return a.Add(-b)
}

// MarshalJSON renders the amount as a JSON number in major units.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or numeric string in major units.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return ErrInvalidAmount
	}
	v, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// UnmarshalText parses a decimal string in major units, so amounts can be
// read from the environment.
func (a *Amount) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
