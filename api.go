package mandel

import (
	"context"
	"image"
)

//go:generate go run github.com/marben/irpc/cmd/irpc

// Renderer renders single tiles of a request for a remote dispatcher. The
// result holds the tile's pixels as tightly packed RGBA rows, top to bottom.
// Workers connected to a serve instance implement it.
type Renderer interface {
	RenderTile(ctx context.Context, req RenderRequest, tile image.Rectangle) ([]byte, error)
}
