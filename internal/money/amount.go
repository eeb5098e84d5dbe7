// Package money provides the fixed-point monetary value used throughout mb.
package money

import (
	"errors"
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultSymbol is appended by String.
const DefaultSymbol = "€"

// ErrInvalidAmount is returned when a string cannot be parsed as an amount.
var ErrInvalidAmount = errors.New("invalid amount")

// Amount is a signed monetary value counted in minor units (cents).
//
// Amounts are plain values: arithmetic returns a new Amount and never
// modifies the receiver. Scalar multiplication and division round the
// resulting minor units half away from zero.
type Amount int64

// Zero is the canonical zero amount.
const Zero Amount = 0

// FromCents returns the amount of the given number of minor units.
func FromCents(cents int64) Amount { return Amount(cents) }

// FromParts builds an amount from an integer part and a fraction in cents,
// e.g. FromParts(12, 34) is 12.34. The fraction carries the sign of whole.
func FromParts(whole, frac int64) Amount {
	if whole < 0 {
		return Amount(whole*100 - frac)
	}
	return Amount(whole*100 + frac)
}

// Cents returns the number of minor units.
func (a Amount) Cents() int64 { return int64(a) }

func (a Amount) Add(b Amount) Amount { return a + b }
func (a Amount) Sub(b Amount) Amount { return a - b }
func (a Amount) Neg() Amount         { return -a }

// Times multiplies by an integer factor. It is exact.
func (a Amount) Times(n int64) Amount { return Amount(int64(a) * n) }

// MulFloat multiplies by a real scalar and rounds to the nearest cent.
func (a Amount) MulFloat(f float64) Amount {
	d := decimal.NewFromInt(int64(a)).Mul(decimal.NewFromFloat(f))
	return Amount(d.Round(0).IntPart())
}

// DivFloat divides by a real scalar and rounds to the nearest cent.
// Dividing by zero panics.
func (a Amount) DivFloat(f float64) Amount {
	if f == 0 {
		panic("money: division of amount by zero")
	}
	d := decimal.NewFromInt(int64(a)).Div(decimal.NewFromFloat(f))
	return Amount(d.Round(0).IntPart())
}

// Ratio returns a / b as a real number.
func (a Amount) Ratio(b Amount) float64 {
	return float64(a) / float64(b)
}

// FloorDiv returns floor(a / b) computed on the minor units, without the
// precision loss of a float quotient. b must not be zero.
func (a Amount) FloorDiv(b Amount) int64 {
	q := int64(a) / int64(b)
	if (int64(a)%int64(b) != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Cmp returns -1, 0 or +1 depending on whether a is less than, equal to or
// greater than b.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (a Amount) IsZero() bool     { return a == 0 }
func (a Amount) IsNegative() bool { return a < 0 }
func (a Amount) IsPositive() bool { return a > 0 }

// Min returns the smaller of a and b.
func Min(a, b Amount) Amount {
	if b < a {
		return b
	}
	return a
}

// String renders the amount as "<int>.<frac>€", e.g. "-0.50€".
func (a Amount) String() string {
	return a.Format(DefaultSymbol)
}

// Format renders the amount followed by symbol.
func (a Amount) Format(symbol string) string {
	return a.plain() + symbol
}

// plain renders the amount without a currency symbol.
func (a Amount) plain() string {
	cents := int64(a)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Symbol returns the display grapheme for an ISO 4217 currency code, or the
// code itself when it is unknown.
func Symbol(code string) string {
	if code == "" {
		return DefaultSymbol
	}
	cur := gomoney.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		return code
	}
	return cur.Grapheme
}

// Parse reads a decimal amount such as "12.34", "-7", "+3.5" or "12,34".
// A third fractional digit is rounded half away from zero.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, DefaultSymbol)
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	s = strings.TrimPrefix(s, "+")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	cents := d.Shift(2).Round(0)
	if !cents.IsInteger() || cents.Abs().GreaterThan(decimal.NewFromInt(maxCents)) {
		return Zero, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	return Amount(cents.IntPart()), nil
}

const maxCents = 1<<62 - 1

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.plain()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// UnmarshalTOML accepts either a decimal string or an integer count of
// cents, which is how older ledger files store amounts.
func (a *Amount) UnmarshalTOML(value any) error {
	switch v := value.(type) {
	case string:
		return a.UnmarshalText([]byte(v))
	case int64:
		*a = Amount(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported TOML value %T", ErrInvalidAmount, value)
	}
}
