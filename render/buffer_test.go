package render

import (
	"image"
	"image/color"
	"testing"
)

func TestPixelBuffer_LayoutOffsets(t *testing.T) {
	c := color.RGBA{R: 1, G: 2, B: 3, A: 4}
	for _, tc := range []struct {
		name   string
		layout Layout
		want   []byte
	}{
		{"bgra", BGRA, []byte{3, 2, 1, 4}},
		{"rgba", RGBA, []byte{1, 2, 3, 4}},
		{"bgr", BGR, []byte{3, 2, 1}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := NewPixelBuffer(3, 2, tc.layout)
			b.Set(2, 1, c)

			off := 1*b.Stride + 2*tc.layout.BytesPerPixel
			got := b.Pix[off : off+tc.layout.BytesPerPixel]
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("bytes %v, want %v", got, tc.want)
				}
			}

			back := b.At(2, 1)
			if tc.layout.A < 0 {
				c.A = 0xff
			}
			if back != c {
				t.Errorf("At = %v, want %v", back, c)
			}
		})
	}
}

func TestPixelBuffer_PaddedStride(t *testing.T) {
	b := &PixelBuffer{
		Pix:    make([]byte, 3*20),
		Stride: 20,
		Width:  4,
		Height: 3,
		Layout: BGRA,
	}
	if err := b.Validate(); err != nil {
		t.Fatal(err)
	}
	b.Set(0, 2, color.RGBA{R: 9, A: 0xff})
	if b.Pix[40+2] != 9 {
		t.Errorf("red byte not at row*stride + offset")
	}
	// padding untouched
	for _, v := range b.Pix[16:20] {
		if v != 0 {
			t.Fatal("wrote into row padding")
		}
	}
}

func TestPixelBuffer_Validate(t *testing.T) {
	for _, tc := range []struct {
		name string
		buf  PixelBuffer
	}{
		{"short", PixelBuffer{Pix: make([]byte, 10), Stride: 8, Width: 2, Height: 2, Layout: BGRA}},
		{"narrow stride", PixelBuffer{Pix: make([]byte, 64), Stride: 4, Width: 2, Height: 2, Layout: BGRA}},
		{"empty", PixelBuffer{Pix: nil, Stride: 0, Width: 0, Height: 0, Layout: BGRA}},
		{"bad layout", PixelBuffer{Pix: make([]byte, 64), Stride: 8, Width: 2, Height: 2, Layout: Layout{BytesPerPixel: 2, R: 0, G: 1, B: 2, A: -1}}},
	} {
		if err := tc.buf.Validate(); err == nil {
			t.Errorf("%s: no error", tc.name)
		}
	}
	// the last row does not need its padding
	ok := PixelBuffer{Pix: make([]byte, 8+4), Stride: 8, Width: 1, Height: 2, Layout: BGRA}
	if err := ok.Validate(); err != nil {
		t.Errorf("tight last row: %v", err)
	}
}

func TestFromRGBA_WritesThrough(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 4))
	b := FromRGBA(img)
	want := color.RGBA{R: 10, G: 20, B: 30, A: 0xff}
	b.Set(4, 3, want)
	if got := img.RGBAAt(4, 3); got != want {
		t.Errorf("img pixel %v, want %v", got, want)
	}
}

func TestPixelBuffer_SubImage(t *testing.T) {
	b := NewPixelBuffer(8, 8, BGRA)
	want := color.RGBA{R: 200, G: 100, B: 50, A: 0xff}
	b.Set(5, 6, want)

	sub := b.SubImage(image.Rect(4, 4, 8, 8))
	if sub.Bounds() != image.Rect(4, 4, 8, 8) {
		t.Fatalf("bounds %v", sub.Bounds())
	}
	if got := sub.RGBAAt(5, 6); got != want {
		t.Errorf("pixel %v, want %v", got, want)
	}
}

func TestNewPixelBuffer_DefaultLayout(t *testing.T) {
	b := NewPixelBuffer(2, 2, Layout{})
	if b.Layout != BGRA || b.Stride != 8 || len(b.Pix) != 16 {
		t.Errorf("layout %+v stride %d len %d", b.Layout, b.Stride, len(b.Pix))
	}
}

func TestPixelBuffer_ValidateDefaultsLayout(t *testing.T) {
	b := &PixelBuffer{Pix: make([]byte, 16), Stride: 8, Width: 2, Height: 2}
	if err := b.Validate(); err != nil {
		t.Fatal(err)
	}
	if b.Layout != BGRA {
		t.Fatalf("layout %+v, want BGRA", b.Layout)
	}
	b.Set(1, 1, color.RGBA{R: 7, G: 8, B: 9, A: 0xff})
	if got := b.Pix[8+4 : 16]; got[0] != 9 || got[2] != 7 {
		t.Errorf("bytes %v, want BGRA order", got)
	}
}
