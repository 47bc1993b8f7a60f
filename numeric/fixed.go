package numeric

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"
)

// FixedDigits is the number of significant digits the fixed tier keeps.
const FixedDigits = 28

// fixedContext rounds every result to FixedDigits. Conditions are never
// trapped: overflow yields an infinity, which compares above any threshold.
var fixedContext = func() *apd.Context {
	c := apd.BaseContext.WithPrecision(FixedDigits)
	c.Traps = 0
	return c
}()

var fixedZero = apd.New(0, 0)

// Fixed is the fixed-width decimal tier. The zero value is 0.
type Fixed struct {
	d *apd.Decimal
}

func (a Fixed) dec() *apd.Decimal {
	if a.d == nil {
		return fixedZero
	}
	return a.d
}

type binaryOp func(d, x, y *apd.Decimal) (apd.Condition, error)

func (a Fixed) apply(op binaryOp, b Fixed) Fixed {
	r := new(apd.Decimal)
	// no traps are set, so op cannot fail
	_, _ = op(r, a.dec(), b.dec())
	return Fixed{d: r}
}

func (a Fixed) Add(b Fixed) Fixed { return a.apply(fixedContext.Add, b) }
func (a Fixed) Sub(b Fixed) Fixed { return a.apply(fixedContext.Sub, b) }
func (a Fixed) Mul(b Fixed) Fixed { return a.apply(fixedContext.Mul, b) }
func (a Fixed) Quo(b Fixed) Fixed { return a.apply(fixedContext.Quo, b) }

func (a Fixed) Neg() Fixed {
	r := new(apd.Decimal)
	_, _ = fixedContext.Neg(r, a.dec())
	return Fixed{d: r}
}

func (a Fixed) Abs() Fixed {
	r := new(apd.Decimal)
	_, _ = fixedContext.Abs(r, a.dec())
	return Fixed{d: r}
}

// Cmp orders NaN above every other value, like Float.Cmp.
func (a Fixed) Cmp(b Fixed) int {
	x, y := a.dec(), b.dec()
	switch xn, yn := isNaN(x), isNaN(y); {
	case xn && yn:
		return 0
	case xn:
		return 1
	case yn:
		return -1
	}
	return x.Cmp(y)
}

func isNaN(d *apd.Decimal) bool {
	return d.Form == apd.NaN || d.Form == apd.NaNSignaling
}

func (a Fixed) Float64() float64 {
	f, err := a.dec().Float64()
	if err != nil {
		return math.NaN()
	}
	return f
}

func (a Fixed) String() string { return a.dec().String() }

// FixedTier constructs Fixed values.
type FixedTier struct{}

func (FixedTier) Name() string { return "fixed" }

// Parse rounds s to FixedDigits significant digits.
func (FixedTier) Parse(s string) (Fixed, error) {
	if err := ValidateDecimal(s); err != nil {
		return Fixed{}, err
	}
	d, _, err := fixedContext.NewFromString(s)
	if err != nil {
		return Fixed{}, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
	}
	return Fixed{d: d}, nil
}

func (FixedTier) Zero() Fixed           { return Fixed{} }
func (FixedTier) FromInt(i int64) Fixed { return Fixed{d: apd.New(i, 0)} }

// FromFloat64 maps NaN to NaN and infinities to infinite decimals.
func (FixedTier) FromFloat64(f float64) Fixed {
	switch {
	case math.IsNaN(f):
		return Fixed{d: &apd.Decimal{Form: apd.NaN}}
	case math.IsInf(f, 0):
		return Fixed{d: &apd.Decimal{Form: apd.Infinite, Negative: f < 0}}
	}
	d, err := new(apd.Decimal).SetFloat64(f)
	if err != nil {
		return Fixed{}
	}
	_, _ = fixedContext.Round(d, d)
	return Fixed{d: d}
}
