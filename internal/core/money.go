// Package core holds the domain model for budgets and expenses:
// money handling, record validation and the monthly/annual
// aggregation rules.
package core

import (
	"github.com/shopspring/decimal"
)

// Money is a currency amount stored as integer cents. All arithmetic
// happens on cents so totals never accumulate floating-point drift.
type Money struct {
	Cents int64
}

var hundred = decimal.NewFromInt(100)

// MoneyFromDecimal converts a decimal amount into cents, rounding
// half-up on the third decimal place.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Mul(hundred).Round(0).IntPart()}
}

// ParseMoney parses a decimal string such as "12.34" into Money.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return MoneyFromDecimal(d), nil
}

// Decimal returns the amount as a two-place decimal for presentation
// and JSON encoding.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.Cents == 0 }

// GreaterThan reports whether m is strictly larger than o.
func (m Money) GreaterThan(o Money) bool { return m.Cents > o.Cents }

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a bare JSON number, e.g. 12.34.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts a JSON number (or numeric string) and converts
// it to cents without going through float64.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return ErrInvalidAmount
	}
	*m = MoneyFromDecimal(d)
	return nil
}
