package engine

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Money is a rupiah amount in whole units. Rupiah has no usable subdivision.
type Money int64

// MaxMoney is the largest amount Aggregate accepts for a line, an allocation
// or a total: one quadrillion rupiah. It leaves int64 headroom for the
// tier and markup formulas.
const MaxMoney Money = 1_000_000_000_000_000

var (
	maxMoneyDec = decimal.NewFromInt(int64(MaxMoney))
	maxInt64Dec = decimal.NewFromInt(math.MaxInt64)
)

// roundMoney rounds half-up to a whole unit, clamps at zero and saturates at
// math.MaxInt64 instead of wrapping.
func roundMoney(d decimal.Decimal) Money {
	if d.IsNegative() {
		return 0
	}
	r := d.Round(0)
	if r.GreaterThan(maxInt64Dec) {
		return Money(math.MaxInt64)
	}
	return Money(r.IntPart())
}

// checkedMoney is roundMoney for Aggregate: anything above MaxMoney is an
// ErrInvalidNumericInput.
func checkedMoney(field string, d decimal.Decimal) (Money, error) {
	r := d.Round(0)
	if r.GreaterThan(maxMoneyDec) {
		return 0, fmt.Errorf("%w: %s exceeds %d", ErrInvalidNumericInput, field, MaxMoney)
	}
	return roundMoney(r), nil
}

func (m Money) decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(m))
}

func nonNegative(m Money) Money {
	if m < 0 {
		return 0
	}
	return m
}

// finite converts a float input into a decimal, clamping negatives to zero.
// NaN and infinities are the only inputs that fail.
func finite(field string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, fmt.Errorf("%w: %s is not a finite number", ErrInvalidNumericInput, field)
	}
	if v <= 0 {
		return decimal.Zero, nil
	}
	return decimal.NewFromFloat(v), nil
}
