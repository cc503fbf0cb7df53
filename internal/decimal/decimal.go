// Package decimal implements a fixed-point decimal with six fractional
// digits, stored as scaled integer units in a uint64. The full value space
// [0, 1e9) x 10^-6 fits inside float64's exact-integer range, which is what
// makes the type safe to ship through JSON as a bare number.
package decimal

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

const (
	// Places is the fixed number of fractional digits.
	Places = 6

	// Scale is 10^Places, the number of units per whole integer.
	Scale = 1_000_000

	// MaxIntegral is the exclusive upper bound on the integral part.
	MaxIntegral = 1_000_000_000

	// maxUnits is the largest representable value in scaled units.
	maxUnits = uint64(MaxIntegral)*Scale - 1
)

var (
	// ErrOverflow is returned when a value exceeds the max safe decimal.
	ErrOverflow = errors.New("value exceeds max safe decimal")

	// ErrFormat is returned for input that is not a plain decimal literal.
	ErrFormat = errors.New("unexpected decimal format")

	// ErrDivideByZero is returned by Div when the divisor is zero.
	ErrDivideByZero = errors.New("decimal division by zero")
)

// Decimal is an immutable fixed-point value in [0, MaxIntegral).
// The zero value is 0.
type Decimal struct {
	units uint64
}

// New builds a Decimal from an integral part and a fractional part expressed
// in millionths. Both parts are range-checked.
func New(integral, fractional uint32) (Decimal, error) {
	if integral >= MaxIntegral || fractional >= Scale {
		return Decimal{}, ErrOverflow
	}
	return Decimal{units: uint64(integral)*Scale + uint64(fractional)}, nil
}

// FromUint64 converts a whole number. Values at or above MaxIntegral
// overflow.
func FromUint64(v uint64) (Decimal, error) {
	if v >= MaxIntegral {
		return Decimal{}, ErrOverflow
	}
	return New(uint32(v), 0)
}

// Integral returns the whole-number part.
func (d Decimal) Integral() uint32 {
	return uint32(d.units / Scale)
}

// Fractional returns the fractional part in millionths.
func (d Decimal) Fractional() uint32 {
	return uint32(d.units % Scale)
}

// Add returns d + rhs, or ErrOverflow when the sum leaves the value space.
func (d Decimal) Add(rhs Decimal) (Decimal, error) {
	sum := d.units + rhs.units
	if sum > maxUnits {
		return Decimal{}, ErrOverflow
	}
	return Decimal{units: sum}, nil
}

// Sub returns d - rhs. A negative result is an ErrOverflow, the value space
// is non-negative.
func (d Decimal) Sub(rhs Decimal) (Decimal, error) {
	if rhs.units > d.units {
		return Decimal{}, ErrOverflow
	}
	return Decimal{units: d.units - rhs.units}, nil
}

// Mul returns d * rhs, computed through a 128-bit intermediate so precision
// is never lost before the final range check.
func (d Decimal) Mul(rhs Decimal) (Decimal, error) {
	hi, lo := bits.Mul64(d.units, rhs.units)
	if hi >= Scale {
		// quotient would not even fit in 64 bits
		return Decimal{}, ErrOverflow
	}
	quo, _ := bits.Div64(hi, lo, Scale)
	if quo > maxUnits {
		return Decimal{}, ErrOverflow
	}
	return Decimal{units: quo}, nil
}

// Div returns d / rhs using the same 128-bit intermediate as Mul.
func (d Decimal) Div(rhs Decimal) (Decimal, error) {
	if rhs.units == 0 {
		return Decimal{}, ErrDivideByZero
	}
	hi, lo := bits.Mul64(d.units, Scale)
	if hi >= rhs.units {
		// quotient does not fit in 64 bits
		return Decimal{}, ErrOverflow
	}
	quo, _ := bits.Div64(hi, lo, rhs.units)
	if quo > maxUnits {
		return Decimal{}, ErrOverflow
	}
	return Decimal{units: quo}, nil
}

// Cmp returns -1, 0 or 1 comparing d against rhs.
func (d Decimal) Cmp(rhs Decimal) int {
	switch {
	case d.units < rhs.units:
		return -1
	case d.units > rhs.units:
		return 1
	default:
		return 0
	}
}

// String renders the canonical text form: no exponent, no trailing
// fractional zeros, no fraction at all when it is zero.
func (d Decimal) String() string {
	integral := d.Integral()
	fractional := d.Fractional()
	if fractional == 0 {
		return strconv.FormatUint(uint64(integral), 10)
	}
	frac := strings.TrimRight(fmt.Sprintf("%06d", fractional), "0")
	return strconv.FormatUint(uint64(integral), 10) + "." + frac
}

// Parse reads the canonical text form back. At most one dot is allowed and
// both sides must be plain unsigned digit runs. The fraction is padded to
// Places digits, so "1.5" and "1.500000" are the same value.
func Parse(s string) (Decimal, error) {
	intPart, fracPart, found := strings.Cut(s, ".")
	if found && strings.Contains(fracPart, ".") {
		return Decimal{}, ErrFormat
	}

	integral, err := strconv.ParseUint(intPart, 10, 32)
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: integral %q", ErrFormat, intPart)
	}

	var fractional uint64
	if found {
		trimmed := strings.TrimRight(fracPart, "0")
		if trimmed != "" {
			if len(trimmed) < Places {
				trimmed += strings.Repeat("0", Places-len(trimmed))
			}
			fractional, err = strconv.ParseUint(trimmed, 10, 32)
			if err != nil {
				return Decimal{}, fmt.Errorf("%w: fraction %q", ErrFormat, fracPart)
			}
		}
	}

	if integral >= MaxIntegral || fractional >= Scale {
		return Decimal{}, ErrOverflow
	}
	return New(uint32(integral), uint32(fractional))
}

// MarshalJSON emits the value as a bare JSON number in canonical form.
// The whole value space round-trips through float64 exactly; the verify
// engine exists to prove that claim exhaustively.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a string holding the
// canonical form.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
