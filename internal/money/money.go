package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of decimal places kept on monetary values.
const CurrencyPlaces = 2

// Money is a currency amount with 2-decimal precision.
type Money struct {
	d decimal.Decimal
}

// Hours is a quantity of billable units (hours or flat units).
type Hours struct {
	d decimal.Decimal
}

var Zero = Money{decimal.Zero}

func NewMoney(d decimal.Decimal) Money {
	return Money{d}
}

func MoneyFromFloat(f float64) Money {
	return Money{decimal.NewFromFloat(f)}
}

func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid money value %q: %w", s, err)
	}
	return Money{d}, nil
}

func HoursFromFloat(f float64) Hours {
	return Hours{decimal.NewFromFloat(f)}
}

func HoursFromString(s string) (Hours, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Hours{}, fmt.Errorf("invalid hours value %q: %w", s, err)
	}
	return Hours{d}, nil
}

// Round returns the amount rounded to currency precision. decimal.Round is
// half-away-from-zero, which matches round-half-up on the non-negative
// amounts this system allows.
func (m Money) Round() Money {
	return Money{m.d.Round(CurrencyPlaces)}
}

func (m Money) Add(o Money) Money {
	return Money{m.d.Add(o.d)}
}

func (m Money) Sub(o Money) Money {
	return Money{m.d.Sub(o.d)}
}

// MulHours prices h units at rate m, rounded to currency precision.
func (m Money) MulHours(h Hours) Money {
	return Money{m.d.Mul(h.d)}.Round()
}

// ApplyPercent returns m × pct / 100, rounded to currency precision.
func (m Money) ApplyPercent(pct decimal.Decimal) Money {
	return Money{m.d.Mul(pct).Div(decimal.NewFromInt(100))}.Round()
}

func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

func (m Money) IsZero() bool {
	return m.d.IsZero()
}

func (m Money) Equal(o Money) bool {
	return m.d.Equal(o.d)
}

func (m Money) Cmp(o Money) int {
	return m.d.Cmp(o.d)
}

func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// Float64 is for handing values to code that wants a float (PDF layout,
// analytics ratios). Persistence and arithmetic stay decimal.
func (m Money) Float64() float64 {
	f, _ := m.d.Float64()
	return f
}

// String renders with exactly two decimal places, e.g. "750.00".
func (m Money) String() string {
	return m.d.StringFixed(CurrencyPlaces)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return m.d.Round(CurrencyPlaces).MarshalJSON()
}

func (m *Money) UnmarshalJSON(b []byte) error {
	return m.d.UnmarshalJSON(b)
}

func (h Hours) Add(o Hours) Hours {
	return Hours{h.d.Add(o.d)}
}

func (h Hours) IsNegative() bool {
	return h.d.IsNegative()
}

func (h Hours) IsZero() bool {
	return h.d.IsZero()
}

func (h Hours) Decimal() decimal.Decimal {
	return h.d
}

func (h Hours) Float64() float64 {
	f, _ := h.d.Float64()
	return f
}

func (h Hours) String() string {
	return h.d.String()
}

func (h Hours) MarshalJSON() ([]byte, error) {
	return h.d.MarshalJSON()
}

func (h *Hours) UnmarshalJSON(b []byte) error {
	return h.d.UnmarshalJSON(b)
}
