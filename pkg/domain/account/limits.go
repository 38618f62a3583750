package account

import (
	"fmt"

	"github.com/amirasaad/minibank/pkg/money"
)

// Limits bounds the amount of a single deposit or transfer. Both ends are
// inclusive.
type Limits struct {
	Min money.Amount
	Max money.Amount
}

// DefaultLimits allows amounts between 1 and 100,000 units.
func DefaultLimits() Limits {
	return Limits{
		Min: money.MustFromMajor(1),
		Max: money.MustFromMajor(100_000),
	}
}

// Validate returns ErrInvalidAmount unless amount is positive and within
// [Min, Max].
func (l Limits) Validate(amount money.Amount) error {
	if !amount.IsPositive() || amount < l.Min || amount > l.Max {
		return fmt.Errorf("%w: must be between %s and %s", ErrInvalidAmount, l.Min, l.Max)
	}
	return nil
}
