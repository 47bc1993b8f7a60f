package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Layout gives the byte offset of each channel within a pixel.
// A negative A means the layout has no alpha channel.
type Layout struct {
	BytesPerPixel int
	R, G, B, A    int
}

var (
	// BGRA is the common 32-bit blue-green-red-alpha layout.
	BGRA = Layout{BytesPerPixel: 4, R: 2, G: 1, B: 0, A: 3}
	// RGBA matches image.RGBA.
	RGBA = Layout{BytesPerPixel: 4, R: 0, G: 1, B: 2, A: 3}
	// BGR is a packed 24-bit layout without alpha.
	BGR = Layout{BytesPerPixel: 3, R: 2, G: 1, B: 0, A: -1}
)

func (l Layout) validate() error {
	if l.BytesPerPixel <= 0 {
		return errors.New("bytes per pixel must be positive")
	}
	for _, off := range []int{l.R, l.G, l.B} {
		if off < 0 || off >= l.BytesPerPixel {
			return fmt.Errorf("channel offset %d outside pixel of %d bytes", off, l.BytesPerPixel)
		}
	}
	if l.A >= l.BytesPerPixel {
		return fmt.Errorf("alpha offset %d outside pixel of %d bytes", l.A, l.BytesPerPixel)
	}
	return nil
}

// PixelBuffer is a caller-owned destination. Pixel (x, y) starts at
// y·Stride + x·BytesPerPixel; Stride may exceed Width·BytesPerPixel.
//
// Workers write without locking: each tile owns the bytes inside its bounds.
type PixelBuffer struct {
	Pix           []byte
	Stride        int
	Width, Height int
	Layout        Layout
}

// NewPixelBuffer allocates a tightly packed buffer. The zero Layout means BGRA.
func NewPixelBuffer(width, height int, layout Layout) *PixelBuffer {
	if layout == (Layout{}) {
		layout = BGRA
	}
	stride := width * layout.BytesPerPixel
	return &PixelBuffer{
		Pix:    make([]byte, stride*height),
		Stride: stride,
		Width:  width,
		Height: height,
		Layout: layout,
	}
}

// FromRGBA wraps img's pixels; writes go straight into img.
func FromRGBA(img *image.RGBA) *PixelBuffer {
	r := img.Bounds()
	return &PixelBuffer{
		Pix:    img.Pix[img.PixOffset(r.Min.X, r.Min.Y):],
		Stride: img.Stride,
		Width:  r.Dx(),
		Height: r.Dy(),
		Layout: RGBA,
	}
}

// Bounds is the buffer rectangle anchored at the origin.
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// Validate checks that every pixel lies inside Pix. A zero Layout is set to
// BGRA first, as NewPixelBuffer does.
func (b *PixelBuffer) Validate() error {
	if b.Layout == (Layout{}) {
		b.Layout = BGRA
	}
	if err := b.Layout.validate(); err != nil {
		return err
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("buffer size %dx%d must be positive", b.Width, b.Height)
	}
	if b.Stride < b.Width*b.Layout.BytesPerPixel {
		return fmt.Errorf("stride %d shorter than a row of %d pixels", b.Stride, b.Width)
	}
	if need := (b.Height-1)*b.Stride + b.Width*b.Layout.BytesPerPixel; len(b.Pix) < need {
		return fmt.Errorf("buffer holds %d bytes, need %d", len(b.Pix), need)
	}
	return nil
}

func (b *PixelBuffer) offset(x, y int) int {
	return y*b.Stride + x*b.Layout.BytesPerPixel
}

// Set writes c at (x, y).
func (b *PixelBuffer) Set(x, y int, c color.RGBA) {
	i := b.offset(x, y)
	l := b.Layout
	b.Pix[i+l.R] = c.R
	b.Pix[i+l.G] = c.G
	b.Pix[i+l.B] = c.B
	if l.A >= 0 {
		b.Pix[i+l.A] = c.A
	}
}

// At reads the pixel at (x, y). Layouts without alpha read as opaque.
func (b *PixelBuffer) At(x, y int) color.RGBA {
	i := b.offset(x, y)
	l := b.Layout
	c := color.RGBA{R: b.Pix[i+l.R], G: b.Pix[i+l.G], B: b.Pix[i+l.B], A: 0xff}
	if l.A >= 0 {
		c.A = b.Pix[i+l.A]
	}
	return c
}

// SubImage copies the pixels inside r into a new image.RGBA with bounds r.
func (b *PixelBuffer) SubImage(r image.Rectangle) *image.RGBA {
	r = r.Intersect(b.Bounds())
	img := image.NewRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, b.At(x, y))
		}
	}
	return img
}
