package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MonetaryScale is the number of fraction digits every amount is kept at.
const MonetaryScale = 2

// MaxIntegerDigits is the number of integer digits a stored amount can hold
// (NUMERIC(19,2)).
const MaxIntegerDigits = 17

// maxFractionDigits bounds the precision accepted before rounding.
const maxFractionDigits = 30

// maxAmountLength caps the length of an amount string.
const maxAmountLength = 64

// minorUnit is the smallest representable amount (one cent).
var minorUnit = decimal.New(1, -MonetaryScale)

// MonetaryValue is an exact currency amount rounded half-up to two fraction digits.
// The zero value is a valid zero amount.
type MonetaryValue struct {
	d decimal.Decimal
}

// ZeroMoney is the zero amount.
var ZeroMoney = MonetaryValue{}

// NewMonetaryValue rounds d to two fraction digits.
func NewMonetaryValue(d decimal.Decimal) MonetaryValue {
	return MonetaryValue{d: d.Round(MonetaryScale)}
}

// NewMonetaryValueFromFloat is a convenience for tests and fixtures.
func NewMonetaryValueFromFloat(f float64) MonetaryValue {
	return NewMonetaryValue(decimal.NewFromFloat(f))
}

// MinorUnit returns one cent.
func MinorUnit() MonetaryValue {
	return MonetaryValue{d: minorUnit}
}

// ParseMonetaryValue parses a free-form decimal string and rounds it half-up to two digits.
func ParseMonetaryValue(s string) (MonetaryValue, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ZeroMoney, ErrInvalidAmount
	}
	if len(s) > maxAmountLength {
		return ZeroMoney, fmt.Errorf("%w: %d characters", ErrInvalidAmount, len(s))
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroMoney, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	// Rounding rescales the coefficient to the exponent, so both must be
	// bounded before Round runs.
	if exp := d.Exponent(); exp < -maxFractionDigits || exp > MaxIntegerDigits {
		return ZeroMoney, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.NumDigits()+int(d.Exponent()) > MaxIntegerDigits {
		return ZeroMoney, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return NewMonetaryValue(d), nil
}

// MustParseMonetaryValue is ParseMonetaryValue that panics on error.
func MustParseMonetaryValue(s string) MonetaryValue {
	m, err := ParseMonetaryValue(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal returns the underlying decimal.
func (m MonetaryValue) Decimal() decimal.Decimal {
	return m.d
}

// Add returns m + o.
func (m MonetaryValue) Add(o MonetaryValue) MonetaryValue {
	return MonetaryValue{d: m.d.Add(o.d)}
}

// Subtract returns m - o.
func (m MonetaryValue) Subtract(o MonetaryValue) MonetaryValue {
	return MonetaryValue{d: m.d.Sub(o.d)}
}

// Multiply returns m * n.
func (m MonetaryValue) Multiply(n int64) MonetaryValue {
	return MonetaryValue{d: m.d.Mul(decimal.NewFromInt(n))}
}

// FloorDiv divides m into n equal parts, rounding each part down to the minor unit.
func (m MonetaryValue) FloorDiv(n int) MonetaryValue {
	if n <= 0 {
		return ZeroMoney
	}
	return MonetaryValue{d: m.d.Div(decimal.NewFromInt(int64(n))).RoundFloor(MonetaryScale)}
}

// IsPositive reports whether m > 0.
func (m MonetaryValue) IsPositive() bool {
	return m.d.IsPositive()
}

// IsZero reports whether m == 0.
func (m MonetaryValue) IsZero() bool {
	return m.d.IsZero()
}

// IsNegative reports whether m < 0.
func (m MonetaryValue) IsNegative() bool {
	return m.d.IsNegative()
}

// CompareTo returns -1, 0 or 1.
func (m MonetaryValue) CompareTo(o MonetaryValue) int {
	return m.d.Cmp(o.d)
}

// Equal reports whether both amounts are the same at two digits.
func (m MonetaryValue) Equal(o MonetaryValue) bool {
	return m.d.Equal(o.d)
}

// GreaterThan reports whether m > o.
func (m MonetaryValue) GreaterThan(o MonetaryValue) bool {
	return m.d.GreaterThan(o.d)
}

// LessThan reports whether m < o.
func (m MonetaryValue) LessThan(o MonetaryValue) bool {
	return m.d.LessThan(o.d)
}

// Min returns the smaller of m and o.
func (m MonetaryValue) Min(o MonetaryValue) MonetaryValue {
	if m.LessThan(o) {
		return m
	}
	return o
}

// String formats the amount with exactly two fraction digits.
func (m MonetaryValue) String() string {
	return m.d.StringFixed(MonetaryScale)
}

// MarshalJSON encodes the amount as a two-digit string.
func (m MonetaryValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both JSON strings and numbers.
func (m *MonetaryValue) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" {
		*m = ZeroMoney
		return nil
	}

	parsed, err := ParseMonetaryValue(raw)
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}

// SumMoney adds all values.
func SumMoney(values ...MonetaryValue) MonetaryValue {
	total := ZeroMoney
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
