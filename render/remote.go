package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"slices"
	"sync"

	mandel "github.com/marben/deepzoom_mandel"
)

// TileService renders single tiles with the local engine on behalf of a
// remote dispatcher. It implements mandel.Renderer.
type TileService struct {
	// Colors defaults to DefaultPalette.
	Colors Colorizer
}

var _ mandel.Renderer = TileService{}

func (s TileService) RenderTile(ctx context.Context, req mandel.RenderRequest, tile image.Rectangle) ([]byte, error) {
	opts, err := req.Options()
	if err != nil {
		return nil, err
	}
	if tile.Empty() || !tile.In(image.Rect(0, 0, opts.Width, opts.Height)) {
		return nil, fmt.Errorf("tile %v outside the %dx%d image", tile, opts.Width, opts.Height)
	}
	colors := s.Colors
	if colors == nil {
		colors = DefaultPalette
	}

	img := image.NewRGBA(tile)
	action, err := newTileAction(opts, colors, img.SetRGBA)
	if err != nil {
		return nil, err
	}
	if err := action(ctx, NewTile(tile)); err != nil {
		return nil, err
	}
	Logger().Debug("rendered tile for remote", "tile", tile.String(), "precision", opts.Precision.String())
	return img.Pix, nil
}

// WorkerPool holds the remote renderers available to renders. A worker
// renders one tile at a time; a render hands a tile to an idle worker when
// there is one and renders it locally otherwise.
type WorkerPool struct {
	mu      sync.Mutex
	idle    []*remoteWorker
	members map[*remoteWorker]struct{}
}

type remoteWorker struct {
	name string
	r    mandel.Renderer
}

func NewWorkerPool() *WorkerPool {
	return &WorkerPool{members: make(map[*remoteWorker]struct{})}
}

// Add makes r available under name. The returned function removes it
// again; a tile it is rendering at that moment still completes.
func (p *WorkerPool) Add(name string, r mandel.Renderer) (remove func()) {
	w := &remoteWorker{name: name, r: r}
	p.mu.Lock()
	p.members[w] = struct{}{}
	p.idle = append(p.idle, w)
	n := len(p.members)
	p.mu.Unlock()

	Logger().Info("remote worker joined", "worker", name, "workers", n)
	return func() { p.remove(w) }
}

// Len is the number of workers in the pool, busy or idle.
func (p *WorkerPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.members)
}

func (p *WorkerPool) acquire() (*remoteWorker, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.idle)
	if n == 0 {
		return nil, false
	}
	w := p.idle[n-1]
	p.idle = p.idle[:n-1]
	return w, true
}

func (p *WorkerPool) release(w *remoteWorker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.members[w]; ok {
		p.idle = append(p.idle, w)
	}
}

func (p *WorkerPool) remove(w *remoteWorker) {
	p.mu.Lock()
	_, ok := p.members[w]
	delete(p.members, w)
	p.idle = slices.DeleteFunc(p.idle, func(x *remoteWorker) bool { return x == w })
	n := len(p.members)
	p.mu.Unlock()

	if ok {
		Logger().Info("remote worker left", "worker", w.name, "workers", n)
	}
}

// action offers each tile to an idle worker before falling back to local.
// A worker whose tile fails is dropped and the tile is rendered locally.
func (p *WorkerPool) action(req mandel.RenderRequest, buf *PixelBuffer, local TileAction) TileAction {
	return func(ctx context.Context, t Tile) error {
		w, ok := p.acquire()
		if !ok {
			return local(ctx, t)
		}
		err := drawRemote(ctx, w.r, req, buf, t.Bounds)
		switch {
		case err == nil:
			p.release(w)
			return nil
		case ctx.Err() != nil:
			p.release(w)
		default:
			Logger().Warn("remote tile failed", "worker", w.name, "tile", t.Bounds.String(), "err", err)
			p.remove(w)
		}
		return local(ctx, t)
	}
}

// drawRemote has r render tile and copies the pixels into buf.
func drawRemote(ctx context.Context, r mandel.Renderer, req mandel.RenderRequest, buf *PixelBuffer, tile image.Rectangle) error {
	pix, err := r.RenderTile(ctx, req, tile)
	if err != nil {
		return err
	}
	if want := 4 * tile.Dx() * tile.Dy(); len(pix) != want {
		return fmt.Errorf("tile %v: got %d bytes, want %d", tile, len(pix), want)
	}
	i := 0
	for y := tile.Min.Y; y < tile.Max.Y; y++ {
		for x := tile.Min.X; x < tile.Max.X; x++ {
			buf.Set(x, y, color.RGBA{R: pix[i], G: pix[i+1], B: pix[i+2], A: pix[i+3]})
			i += 4
		}
	}
	return nil
}
