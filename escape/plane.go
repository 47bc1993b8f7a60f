package escape

import (
	"errors"
	"fmt"

	"github.com/marben/deepzoom_mandel/numeric"
)

// Plane maps pixel coordinates of a width × height image onto the complex
// plane around a center, with scale plane units across the image width.
//
//	unitsPerPixel = scale / width
//	re = centerX + (px − width/2)  · unitsPerPixel
//	im = centerY − (py − height/2) · unitsPerPixel
//
// The offsets are evaluated as (2px − width) · (unitsPerPixel/2) so odd
// sizes stay exact in the decimal tiers.
type Plane[T numeric.Scalar[T]] struct {
	tier          numeric.Tier[T]
	centerX       T
	centerY       T
	halfPixel     T
	width, height int
}

// NewPlane parses the view text in the tier's own arithmetic.
func NewPlane[T numeric.Scalar[T]](tier numeric.Tier[T], centerX, centerY, scale string, width, height int) (Plane[T], error) {
	if width <= 0 || height <= 0 {
		return Plane[T]{}, fmt.Errorf("image size %dx%d must be positive", width, height)
	}
	cx, err := tier.Parse(centerX)
	if err != nil {
		return Plane[T]{}, fmt.Errorf("center x: %w", err)
	}
	cy, err := tier.Parse(centerY)
	if err != nil {
		return Plane[T]{}, fmt.Errorf("center y: %w", err)
	}
	s, err := tier.Parse(scale)
	if err != nil {
		return Plane[T]{}, fmt.Errorf("scale: %w", err)
	}
	if s.Cmp(tier.Zero()) <= 0 {
		return Plane[T]{}, errors.New("scale must be positive")
	}

	unitsPerPixel := s.Quo(tier.FromInt(int64(width)))
	return Plane[T]{
		tier:      tier,
		centerX:   cx,
		centerY:   cy,
		halfPixel: unitsPerPixel.Quo(tier.FromInt(2)),
		width:     width,
		height:    height,
	}, nil
}

// At returns the plane coordinate of pixel (px, py).
func (p Plane[T]) At(px, py int) numeric.Complex[T] {
	dx := p.tier.FromInt(int64(2*px - p.width))
	dy := p.tier.FromInt(int64(2*py - p.height))
	return numeric.NewComplex(
		p.centerX.Add(dx.Mul(p.halfPixel)),
		p.centerY.Sub(dy.Mul(p.halfPixel)),
	)
}

// UnitsPerPixel is the plane distance between adjacent pixels.
func (p Plane[T]) UnitsPerPixel() T {
	return p.halfPixel.Add(p.halfPixel)
}
