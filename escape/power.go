package escape

import (
	"math"
	"math/cmplx"

	"github.com/marben/deepzoom_mandel/numeric"
)

// maxIntegralPower bounds the exponents evaluated by repeated multiplication.
const maxIntegralPower = 1 << 10

// power raises z to a configured real exponent.
//
// Integral exponents are computed exactly with repeated squaring in the
// tier's arithmetic. Other exponents go through polar form at float64
// precision, so deep zooms into non-integer powers are float-limited in
// every tier.
type power[T numeric.Scalar[T]] struct {
	tier     numeric.Tier[T]
	p        float64
	n        int
	integral bool
}

func newPower[T numeric.Scalar[T]](tier numeric.Tier[T], p float64) power[T] {
	integral := p == math.Trunc(p) && math.Abs(p) <= maxIntegralPower
	return power[T]{tier: tier, p: p, n: int(p), integral: integral}
}

func (pw power[T]) apply(z numeric.Complex[T]) numeric.Complex[T] {
	if pw.integral {
		return pw.integer(z)
	}
	return pw.polar(z)
}

func (pw power[T]) integer(z numeric.Complex[T]) numeric.Complex[T] {
	n := pw.n
	if n < 0 {
		inv, ok := inverse(z)
		if !ok {
			return pw.overflow()
		}
		z, n = inv, -n
	}

	result := numeric.NewComplex(pw.tier.FromInt(1), pw.tier.Zero())
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(z)
		}
		n >>= 1
		if n > 0 {
			z = z.Mul(z)
		}
	}
	return result
}

func (pw power[T]) polar(z numeric.Complex[T]) numeric.Complex[T] {
	x, y := z.Re.Float64(), z.Im.Float64()
	if x == 0 && y == 0 {
		if pw.p < 0 {
			return pw.overflow()
		}
		return numeric.ZeroComplex(pw.tier)
	}
	w := cmplx.Pow(complex(x, y), complex(pw.p, 0))
	if cmplx.IsInf(w) || cmplx.IsNaN(w) {
		return pw.overflow()
	}
	return numeric.NewComplex(pw.tier.FromFloat64(real(w)), pw.tier.FromFloat64(imag(w)))
}

// overflow stands in for 0 raised to a negative power and for results that
// leave float64 range; its magnitude exceeds any sensible escape threshold.
func (pw power[T]) overflow() numeric.Complex[T] {
	return numeric.NewComplex(pw.tier.FromFloat64(math.MaxFloat64), pw.tier.Zero())
}

// inverse returns 1/z, or false when |z|² is zero in the tier.
func inverse[T numeric.Scalar[T]](z numeric.Complex[T]) (numeric.Complex[T], bool) {
	d := z.MagSq()
	if d.Cmp(d.Sub(d)) == 0 {
		return z, false
	}
	return numeric.NewComplex(z.Re.Quo(d), z.Im.Neg().Quo(d)), true
}
