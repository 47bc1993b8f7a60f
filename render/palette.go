package render

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colorizer turns an iteration count into a pixel colour. Implementations
// must be safe for concurrent use.
type Colorizer interface {
	Color(iterations, maxIterations int) color.RGBA
}

// Palette cycles through a fixed colour table. Points that reach
// maxIterations get the interior colour.
type Palette struct {
	colors   []color.RGBA
	interior color.RGBA
	density  int
}

// NewHSVPalette spreads n fully saturated hues around the colour wheel.
// density multiplies the iteration count before the table lookup.
func NewHSVPalette(n, density int) Palette {
	n = max(n, 1)
	colors := make([]color.RGBA, n)
	for i := range colors {
		r, g, b := colorful.Hsv(360*float64(i)/float64(n), 1, 1).RGB255()
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return Palette{
		colors:   colors,
		interior: color.RGBA{A: 0xff},
		density:  max(density, 1),
	}
}

// NewGradientPalette blends from one colour to another in the Lab space
// over n steps and back, so the cycle has no seam.
func NewGradientPalette(from, to color.Color, n int) Palette {
	n = max(n, 2)
	a, _ := colorful.MakeColor(from)
	b, _ := colorful.MakeColor(to)
	colors := make([]color.RGBA, 0, 2*n)
	for i := range n {
		r, g, bl := a.BlendLab(b, float64(i)/float64(n-1)).Clamped().RGB255()
		colors = append(colors, color.RGBA{R: r, G: g, B: bl, A: 0xff})
	}
	for i := n - 1; i >= 0; i-- {
		colors = append(colors, colors[i])
	}
	return Palette{colors: colors, interior: color.RGBA{A: 0xff}, density: 1}
}

// DefaultPalette is the palette used when a render does not supply one.
var DefaultPalette Colorizer = NewHSVPalette(256, 4)

// Color looks up the colour for an iteration count. The zero Palette has no
// table and paints everything opaque black.
func (p Palette) Color(iterations, maxIterations int) color.RGBA {
	if len(p.colors) == 0 {
		return color.RGBA{A: 0xff}
	}
	if iterations >= maxIterations {
		return p.interior
	}
	return p.colors[(iterations*p.density)%len(p.colors)]
}

// Len is the number of colours in one cycle.
func (p Palette) Len() int { return len(p.colors) }
