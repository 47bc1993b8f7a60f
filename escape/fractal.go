package escape

import (
	"fmt"
	"strings"
)

// FractalType selects the iteration formula.
type FractalType int

const (
	Mandelbrot FractalType = iota
	Julia
	MandelbrotBurningShip
	JuliaBurningShip
	// MandelbrotPower and JuliaPower iterate z^p + c.
	MandelbrotPower
	JuliaPower
	// Simonobrot and JuliaSimonobrot iterate (|Re z| + i|Im z|)^p + c.
	Simonobrot
	JuliaSimonobrot
)

var fractalNames = map[FractalType]string{
	Mandelbrot:            "mandelbrot",
	Julia:                 "julia",
	MandelbrotBurningShip: "mandelbrot-burning-ship",
	JuliaBurningShip:      "julia-burning-ship",
	MandelbrotPower:       "mandelbrot-power",
	JuliaPower:            "julia-power",
	Simonobrot:            "simonobrot",
	JuliaSimonobrot:       "julia-simonobrot",
}

func (f FractalType) String() string {
	if name, ok := fractalNames[f]; ok {
		return name
	}
	return fmt.Sprintf("FractalType(%d)", int(f))
}

// IsJulia reports whether z starts at the pixel and c is the fixed constant.
func (f FractalType) IsJulia() bool {
	switch f {
	case Julia, JuliaBurningShip, JuliaPower, JuliaSimonobrot:
		return true
	}
	return false
}

// FractalTypes lists every known type in declaration order.
func FractalTypes() []FractalType {
	return []FractalType{
		Mandelbrot, Julia,
		MandelbrotBurningShip, JuliaBurningShip,
		MandelbrotPower, JuliaPower,
		Simonobrot, JuliaSimonobrot,
	}
}

// ParseFractalType accepts the names returned by String, case-insensitively,
// with '_' or ' ' allowed in place of '-'.
func ParseFractalType(s string) (FractalType, error) {
	name := strings.NewReplacer("_", "-", " ", "-").Replace(strings.ToLower(strings.TrimSpace(s)))
	for f, n := range fractalNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown fractal type %q", s)
}
