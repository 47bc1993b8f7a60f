package render

import (
	"image"
	"testing"
)

func TestSplitTiles_CoverDisjoint(t *testing.T) {
	for _, tc := range []struct {
		r            image.Rectangle
		tileW, tileH int
		want         int
	}{
		{image.Rect(0, 0, 128, 128), 64, 64, 4},
		{image.Rect(0, 0, 130, 65), 64, 64, 6},
		{image.Rect(10, 20, 13, 21), 64, 64, 1},
		{image.Rect(0, 0, 1920, 1080), 64, 64, 30 * 17},
		{image.Rect(0, 0, 7, 5), 1, 1, 35},
		{image.Rect(0, 0, 0, 0), 8, 8, 0},
	} {
		tiles := SplitTiles(tc.r, tc.tileW, tc.tileH)
		if len(tiles) != tc.want {
			t.Errorf("%v / %dx%d: %d tiles, want %d", tc.r, tc.tileW, tc.tileH, len(tiles), tc.want)
		}

		area := 0
		for i, a := range tiles {
			if !a.Bounds.In(tc.r) || a.Bounds.Empty() {
				t.Errorf("%v: tile %v outside or empty", tc.r, a.Bounds)
			}
			if a.Bounds.Dx() > tc.tileW || a.Bounds.Dy() > tc.tileH {
				t.Errorf("%v: tile %v larger than %dx%d", tc.r, a.Bounds, tc.tileW, tc.tileH)
			}
			for _, b := range tiles[i+1:] {
				if a.Bounds.Overlaps(b.Bounds) {
					t.Errorf("%v: tiles %v and %v overlap", tc.r, a.Bounds, b.Bounds)
				}
			}
			area += a.Bounds.Dx() * a.Bounds.Dy()
		}
		if area != tc.r.Dx()*tc.r.Dy() {
			t.Errorf("%v: tiles cover %d pixels, want %d", tc.r, area, tc.r.Dx()*tc.r.Dy())
		}
		if len(tiles) > 0 && Bounds(tiles) != tc.r {
			t.Errorf("union %v, want %v", Bounds(tiles), tc.r)
		}
	}
}

func TestSplitTiles_RowMajor(t *testing.T) {
	tiles := SplitTiles(image.Rect(0, 0, 20, 20), 10, 10)
	want := []image.Rectangle{
		image.Rect(0, 0, 10, 10),
		image.Rect(10, 0, 20, 10),
		image.Rect(0, 10, 10, 20),
		image.Rect(10, 10, 20, 20),
	}
	for i, w := range want {
		if tiles[i].Bounds != w {
			t.Errorf("tile %d: %v, want %v", i, tiles[i].Bounds, w)
		}
	}
}

func TestSplitTiles_PanicsOnZeroSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic")
		}
	}()
	SplitTiles(image.Rect(0, 0, 10, 10), 0, 10)
}

func TestNewTile_Center(t *testing.T) {
	tile := NewTile(image.Rect(64, 128, 128, 150))
	if tile.Center != image.Pt(96, 139) {
		t.Errorf("center %v", tile.Center)
	}
}

func TestCenterOut(t *testing.T) {
	r := image.Rect(0, 0, 30, 30)
	tiles := SplitTiles(r, 10, 10)
	out := CenterOut(tiles, r)

	if len(out) != len(tiles) {
		t.Fatalf("%d tiles, want %d", len(out), len(tiles))
	}
	if out[0].Bounds != image.Rect(10, 10, 20, 20) {
		t.Errorf("first tile %v, want the middle one", out[0].Bounds)
	}
	// edge neighbours come before corners, each in row-major order
	want := []image.Rectangle{
		image.Rect(10, 0, 20, 10),
		image.Rect(0, 10, 10, 20),
		image.Rect(20, 10, 30, 20),
		image.Rect(10, 20, 20, 30),
		image.Rect(0, 0, 10, 10),
		image.Rect(20, 0, 30, 10),
		image.Rect(0, 20, 10, 30),
		image.Rect(20, 20, 30, 30),
	}
	for i, w := range want {
		if out[i+1].Bounds != w {
			t.Errorf("position %d: %v, want %v", i+1, out[i+1].Bounds, w)
		}
	}
	if tiles[0].Bounds != image.Rect(0, 0, 10, 10) {
		t.Error("input slice was reordered")
	}
}
