// Package escape implements the escape-time iteration engines.
//
// The loop is written once against the numeric capability set and
// instantiated per tier, so the float, fixed and arbitrary engines cannot
// drift apart in behaviour.
package escape

import (
	"fmt"

	"github.com/marben/deepzoom_mandel/numeric"
)

const (
	// DefaultThreshold is the squared escape radius (radius 2).
	DefaultThreshold = "4"
	// DefaultPower is the exponent used when Config.Power is zero.
	DefaultPower = 2.0
)

// Config describes one engine. It is copied into the engine at construction.
type Config struct {
	Fractal       FractalType
	MaxIterations int
	// Threshold is the squared escape radius as decimal text; empty means 4.
	Threshold string
	// Power is the exponent of the power and Simonobrot formulas; zero means 2.
	Power float64
	// Invert maps each plane coordinate q to 1/q before iterating.
	Invert bool
	// Julia is the constant c of the Julia family.
	Julia numeric.Complex[numeric.Fixed]
}

// Engine maps plane coordinates to iteration counts. It holds no mutable
// state and is safe for concurrent use.
type Engine[T numeric.Scalar[T]] struct {
	tier      numeric.Tier[T]
	fractal   FractalType
	maxIter   int
	threshold T
	zero      numeric.Complex[T]
	julia     numeric.Complex[T]
	invert    bool
	power     power[T]
}

// New builds an engine for tier. The Julia constant and threshold are
// converted into the tier up front.
func New[T numeric.Scalar[T]](tier numeric.Tier[T], cfg Config) (*Engine[T], error) {
	if cfg.MaxIterations < 0 {
		return nil, fmt.Errorf("max iterations must not be negative, got %d", cfg.MaxIterations)
	}
	thresholdText := cfg.Threshold
	if thresholdText == "" {
		thresholdText = DefaultThreshold
	}
	threshold, err := tier.Parse(thresholdText)
	if err != nil {
		return nil, fmt.Errorf("threshold: %w", err)
	}
	julia, err := numeric.ConvertComplex(tier, cfg.Julia)
	if err != nil {
		return nil, fmt.Errorf("julia constant: %w", err)
	}
	p := cfg.Power
	if p == 0 {
		p = DefaultPower
	}

	return &Engine[T]{
		tier:      tier,
		fractal:   cfg.Fractal,
		maxIter:   cfg.MaxIterations,
		threshold: threshold,
		zero:      numeric.ZeroComplex(tier),
		julia:     julia,
		invert:    cfg.Invert,
		power:     newPower(tier, p),
	}, nil
}

// MaxIterations is the count returned for points that never escape.
func (e *Engine[T]) MaxIterations() int { return e.maxIter }

// Tier returns the tier the engine computes in.
func (e *Engine[T]) Tier() numeric.Tier[T] { return e.tier }

// Iterations runs the selected formula for plane coordinate q.
// Unknown fractal types yield 0.
func (e *Engine[T]) Iterations(q numeric.Complex[T]) int {
	if e.invert {
		inv, ok := inverse(q)
		if !ok {
			// 1/0 lies outside every escape radius
			return 0
		}
		q = inv
	}

	switch e.fractal {
	case Mandelbrot:
		return e.Escape(e.zero, q, square[T])
	case Julia:
		return e.Escape(q, e.julia, square[T])
	case MandelbrotBurningShip:
		return e.Escape(e.zero, q, burningShipSquare[T])
	case JuliaBurningShip:
		return e.Escape(q, e.julia, burningShipSquare[T])
	case MandelbrotPower:
		return e.Escape(e.zero, q, e.power.apply)
	case JuliaPower:
		return e.Escape(q, e.julia, e.power.apply)
	case Simonobrot:
		return e.Escape(e.zero, q, e.simonobrot)
	case JuliaSimonobrot:
		return e.Escape(q, e.julia, e.simonobrot)
	}
	return 0
}

// Pixel maps (px, py) through plane and iterates.
func (e *Engine[T]) Pixel(plane Plane[T], px, py int) int {
	return e.Iterations(plane.At(px, py))
}

// Escape iterates z ← f(z) + c while the count is below MaxIterations and
// |z|² has not passed the threshold. The result is in [0, MaxIterations].
func (e *Engine[T]) Escape(z, c numeric.Complex[T], f func(numeric.Complex[T]) numeric.Complex[T]) int {
	n := 0
	for n < e.maxIter && z.MagSq().Cmp(e.threshold) <= 0 {
		z = f(z).Add(c)
		n++
	}
	return n
}

func (e *Engine[T]) simonobrot(z numeric.Complex[T]) numeric.Complex[T] {
	return e.power.apply(numeric.NewComplex(z.Re.Abs(), z.Im.Abs()))
}

func square[T numeric.Scalar[T]](z numeric.Complex[T]) numeric.Complex[T] {
	return z.Mul(z)
}

// BurningShip folds z to (|Re z|, −|Im z|). The imaginary part is forced
// negative, not merely made absolute.
func BurningShip[T numeric.Scalar[T]](z numeric.Complex[T]) numeric.Complex[T] {
	return numeric.NewComplex(z.Re.Abs(), z.Im.Abs().Neg())
}

func burningShipSquare[T numeric.Scalar[T]](z numeric.Complex[T]) numeric.Complex[T] {
	return square(BurningShip(z))
}
