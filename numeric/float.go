package numeric

import (
	"fmt"
	"math"
	"strconv"
)

// Float is the hardware float tier.
type Float float64

func (a Float) Add(b Float) Float { return a + b }
func (a Float) Sub(b Float) Float { return a - b }
func (a Float) Mul(b Float) Float { return a * b }
func (a Float) Quo(b Float) Float { return a / b }
func (a Float) Neg() Float        { return -a }

func (a Float) Abs() Float {
	if a < 0 {
		return -a
	}
	// clears the sign of -0 too
	return a + 0
}

// Cmp orders NaN above every other value, so a NaN orbit counts as escaped.
func (a Float) Cmp(b Float) int {
	switch {
	case math.IsNaN(float64(a)):
		if math.IsNaN(float64(b)) {
			return 0
		}
		return 1
	case math.IsNaN(float64(b)):
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (a Float) Float64() float64 { return float64(a) }

// String uses the shortest representation that parses back to the same value.
func (a Float) String() string {
	return strconv.FormatFloat(float64(a), 'g', -1, 64)
}

// FloatTier constructs Float values.
type FloatTier struct{}

func (FloatTier) Name() string { return "float" }

func (FloatTier) Parse(s string) (Float, error) {
	if err := ValidateDecimal(s); err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
	}
	return Float(f), nil
}

func (FloatTier) Zero() Float                 { return 0 }
func (FloatTier) FromInt(i int64) Float       { return Float(i) }
func (FloatTier) FromFloat64(f float64) Float { return Float(f) }
