// Package numeric provides the precision tiers the escape-time engines run on.
//
// Three tiers share one capability set so a single generic algorithm can be
// instantiated over any of them:
//
//   - Float: hardware float64, ~15-17 significant digits.
//   - Fixed: decimal rounded to 28 significant digits after every operation.
//   - BigDecimal: mantissa·10^exponent with an unbounded integer mantissa,
//     capped to a per-render number of significant digits.
//
// Values of every tier are immutable; operations return new values.
package numeric

import (
	"errors"
	"fmt"
	"regexp"
)

// Scalar is the real-number capability set of a tier.
// T is the implementing type itself.
type Scalar[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	// Quo panics or returns an infinity when the divisor is zero, depending
	// on the tier. Callers must not divide by zero.
	Quo(T) T
	Neg() T
	Abs() T
	Cmp(T) int
	Float64() float64
	String() string
}

// Tier constructs values of one precision tier.
type Tier[T Scalar[T]] interface {
	Name() string
	// Parse converts invariant decimal text into a tier value.
	Parse(s string) (T, error)
	Zero() T
	FromInt(i int64) T
	FromFloat64(f float64) T
}

// ErrSyntax is returned for text that is not an invariant decimal number.
var ErrSyntax = errors.New("invalid decimal number")

var decimalPattern = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)

// ValidateDecimal checks that s is plain decimal text: optional sign, digits
// with an optional '.', optional exponent. Locale separators, hex floats,
// "inf" and "nan" are rejected.
func ValidateDecimal(s string) error {
	if !decimalPattern.MatchString(s) {
		return fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return nil
}

// Convert moves a value between tiers through its decimal text form.
// Widening conversions (Float or Fixed into BigDecimal) are exact.
func Convert[S Scalar[S], T Scalar[T]](to Tier[T], v S) (T, error) {
	return to.Parse(v.String())
}
