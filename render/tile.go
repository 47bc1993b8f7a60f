// Package render partitions an image into tiles and drives the escape-time
// engines over them with a bounded pool of workers.
package render

import (
	"image"
	"slices"
)

// DefaultTileSize is the edge of a full tile in pixels.
const DefaultTileSize = 64

// Tile is one unit of work. Tiles of one render are disjoint and cover the
// image exactly.
type Tile struct {
	Bounds image.Rectangle
	Center image.Point
}

// NewTile derives the center from the bounds.
func NewTile(r image.Rectangle) Tile {
	return Tile{
		Bounds: r,
		Center: image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2),
	}
}

// SplitTiles splits r into tiles of size tileW × tileH in row-major order.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func SplitTiles(r image.Rectangle, tileW, tileH int) []Tile {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	w := r.Dx()
	h := r.Dy()

	var tiles []Tile

	for oy := 0; oy < h; oy += tileH {
		th := min(tileH, h-oy)

		for ox := 0; ox < w; ox += tileW {
			tw := min(tileW, w-ox)

			tiles = append(tiles, NewTile(image.Rect(
				r.Min.X+ox,
				r.Min.Y+oy,
				r.Min.X+ox+tw,
				r.Min.Y+oy+th,
			)))
		}
	}

	return tiles
}

// CenterOut returns tiles reordered by distance of their centers from the
// center of r, nearest first. Ties keep their original order.
func CenterOut(tiles []Tile, r image.Rectangle) []Tile {
	c := image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
	dist := func(t Tile) int {
		d := t.Center.Sub(c)
		return d.X*d.X + d.Y*d.Y
	}

	out := slices.Clone(tiles)
	slices.SortStableFunc(out, func(a, b Tile) int {
		return dist(a) - dist(b)
	})
	return out
}
