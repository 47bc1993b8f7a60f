package numeric

import (
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	// MinBigDigits is the smallest significant-digit cap the arbitrary tier uses.
	MinBigDigits = 32
	// GuardDigits are kept beyond what a view needs to resolve one pixel.
	GuardDigits = 20
)

// BigDecimal is the arbitrary-precision tier: value = mantissa · 10^exponent.
//
// Parsing is lossless. Arithmetic results are rounded to the value's digit
// cap so that mantissas do not double in length on every squaring; the cap
// is chosen per render from the view (see DigitsForView). A zero cap means
// results are never rounded; division then falls back to MinBigDigits.
type BigDecimal struct {
	d      decimal.Decimal
	digits int32
}

// Mantissa returns a copy of the integer mantissa.
func (a BigDecimal) Mantissa() *big.Int { return a.d.Coefficient() }

// Exponent returns the power of ten the mantissa is scaled by.
func (a BigDecimal) Exponent() int32 { return a.d.Exponent() }

// Digits returns the significant-digit cap carried by a.
func (a BigDecimal) Digits() int32 { return a.digits }

func (a BigDecimal) capOf(b BigDecimal) int32 {
	return max(a.digits, b.digits)
}

func (a BigDecimal) Add(b BigDecimal) BigDecimal {
	c := a.capOf(b)
	return BigDecimal{d: roundSignificant(a.d.Add(b.d), c), digits: c}
}

func (a BigDecimal) Sub(b BigDecimal) BigDecimal {
	c := a.capOf(b)
	return BigDecimal{d: roundSignificant(a.d.Sub(b.d), c), digits: c}
}

func (a BigDecimal) Mul(b BigDecimal) BigDecimal {
	c := a.capOf(b)
	return BigDecimal{d: roundSignificant(a.d.Mul(b.d), c), digits: c}
}

// Quo panics when b is zero.
func (a BigDecimal) Quo(b BigDecimal) BigDecimal {
	c := a.capOf(b)
	digits := c
	if digits == 0 {
		digits = MinBigDigits
	}
	// places after the point needed for `digits` significant digits of a/b
	places := digits - (magnitude(a.d) - magnitude(b.d)) + 2
	return BigDecimal{d: roundSignificant(a.d.DivRound(b.d, places), digits), digits: c}
}

func (a BigDecimal) Neg() BigDecimal { return BigDecimal{d: a.d.Neg(), digits: a.digits} }
func (a BigDecimal) Abs() BigDecimal { return BigDecimal{d: a.d.Abs(), digits: a.digits} }
func (a BigDecimal) Cmp(b BigDecimal) int {
	return a.d.Cmp(b.d)
}

func (a BigDecimal) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

func (a BigDecimal) String() string { return a.d.String() }

// magnitude is the power of ten just above the most significant digit,
// i.e. 1 for 1..9, 0 for 0.1..0.9. Zero has magnitude 0.
func magnitude(d decimal.Decimal) int32 {
	if d.IsZero() {
		return 0
	}
	return int32(d.NumDigits()) + d.Exponent()
}

func roundSignificant(d decimal.Decimal, digits int32) decimal.Decimal {
	if digits <= 0 {
		return d
	}
	n := int32(d.NumDigits())
	if n <= digits {
		return d
	}
	return d.Round(-(d.Exponent() + n - digits))
}

// BigTier constructs BigDecimal values with a fixed significant-digit cap.
type BigTier struct {
	Digits int32
}

// NewBigTier returns a tier capping results at digits significant digits.
func NewBigTier(digits int32) BigTier {
	return BigTier{Digits: digits}
}

func (t BigTier) Name() string { return "arbitrary" }

// Parse is exact: the parsed mantissa keeps every digit of s.
func (t BigTier) Parse(s string) (BigDecimal, error) {
	if err := ValidateDecimal(s); err != nil {
		return BigDecimal{}, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return BigDecimal{}, err
	}
	return BigDecimal{d: d, digits: t.Digits}, nil
}

func (t BigTier) Zero() BigDecimal { return BigDecimal{d: decimal.Zero, digits: t.Digits} }

func (t BigTier) FromInt(i int64) BigDecimal {
	return BigDecimal{d: decimal.NewFromInt(i), digits: t.Digits}
}

// FromFloat64 has no infinities to map to: ±Inf clamp to ±MaxFloat64 and NaN
// becomes MaxFloat64, both beyond any escape threshold.
func (t BigTier) FromFloat64(f float64) BigDecimal {
	switch {
	case math.IsNaN(f):
		f = math.MaxFloat64
	case math.IsInf(f, 0):
		f = math.Copysign(math.MaxFloat64, f)
	}
	return BigDecimal{d: decimal.NewFromFloat(f), digits: t.Digits}
}

// DigitsForView picks the arbitrary tier's digit cap for a view: enough
// significant digits to tell adjacent pixels apart at the largest center
// coordinate, plus GuardDigits, never below MinBigDigits.
func DigitsForView(centerX, centerY, scale string, width int) (int32, error) {
	var mags [3]int32
	for i, s := range []string{centerX, centerY, scale} {
		if err := ValidateDecimal(s); err != nil {
			return 0, err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return 0, err
		}
		mags[i] = magnitude(d)
	}
	top := max(mags[0], mags[1], 1)
	pixel := mags[2] - int32(len(strconv.Itoa(max(width, 1))))
	return max(top-pixel+GuardDigits, MinBigDigits), nil
}
