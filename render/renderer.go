package render

import (
	"context"
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	mandel "github.com/marben/deepzoom_mandel"
	"github.com/marben/deepzoom_mandel/escape"
	"github.com/marben/deepzoom_mandel/numeric"
)

// Hooks are the optional callbacks of a render. Nil fields are skipped;
// a nil Colors uses DefaultPalette.
type Hooks struct {
	Observer mandel.TileObserver
	Progress mandel.ProgressFunc
	Colors   Colorizer
	// Remote, if set, is offered every tile before the local engine, and
	// each of its workers adds one to the render's concurrency.
	Remote *WorkerPool
}

// tileRenderer is everything one render needs, fixed before the first tile
// starts. Workers share it without locking.
type tileRenderer[T numeric.Scalar[T]] struct {
	engine *escape.Engine[T]
	plane  escape.Plane[T]
	colors Colorizer
	set    func(x, y int, c color.RGBA)
}

func newTileRenderer[T numeric.Scalar[T]](tier numeric.Tier[T], opts mandel.RenderOptions, colors Colorizer, set func(x, y int, c color.RGBA)) (*tileRenderer[T], error) {
	engine, err := escape.New(tier, opts.EngineConfig())
	if err != nil {
		return nil, err
	}
	plane, err := escape.NewPlane(tier, opts.CenterX, opts.CenterY, opts.Scale, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	return &tileRenderer[T]{
		engine: engine,
		plane:  plane,
		colors: colors,
		set:    set,
	}, nil
}

func (r *tileRenderer[T]) renderTile(_ context.Context, t Tile) error {
	maxIter := r.engine.MaxIterations()
	for py := t.Bounds.Min.Y; py < t.Bounds.Max.Y; py++ {
		for px := t.Bounds.Min.X; px < t.Bounds.Max.X; px++ {
			n := r.engine.Pixel(r.plane, px, py)
			r.set(px, py, r.colors.Color(n, maxIter))
		}
	}
	return nil
}

// newTileAction picks the numeric tier for opts.Precision. Pixels are
// written through set in image coordinates.
func newTileAction(opts mandel.RenderOptions, colors Colorizer, set func(x, y int, c color.RGBA)) (TileAction, error) {
	switch opts.Precision {
	case mandel.PrecisionFloat:
		r, err := newTileRenderer(numeric.FloatTier{}, opts, colors, set)
		if err != nil {
			return nil, err
		}
		return r.renderTile, nil
	case mandel.PrecisionFixed:
		r, err := newTileRenderer(numeric.FixedTier{}, opts, colors, set)
		if err != nil {
			return nil, err
		}
		return r.renderTile, nil
	case mandel.PrecisionArbitrary:
		digits := opts.ArbitraryDigits(opts.Width)
		Logger().Debug("arbitrary precision", "digits", digits)
		r, err := newTileRenderer(numeric.NewBigTier(digits), opts, colors, set)
		if err != nil {
			return nil, err
		}
		return r.renderTile, nil
	}
	return nil, fmt.Errorf("%w: precision: %v", mandel.ErrInvalidOption, opts.Precision)
}

// Render computes the opts.Width × opts.Height view into buf, which must
// have exactly that size. The supersample factor is not applied here; see
// Image.
//
// A cancelled context is not an error: Render returns the stats with
// Cancelled set and buf holds every tile that was started.
func Render(ctx context.Context, opts mandel.RenderOptions, buf *PixelBuffer, hooks Hooks) (Stats, error) {
	if err := buf.Validate(); err != nil {
		return Stats{}, fmt.Errorf("pixel buffer: %w", err)
	}
	if buf.Width != opts.Width || buf.Height != opts.Height {
		return Stats{}, fmt.Errorf("pixel buffer is %dx%d, render is %dx%d", buf.Width, buf.Height, opts.Width, opts.Height)
	}
	if opts.TileSize <= 0 {
		return Stats{}, fmt.Errorf("%w: tile size %d", mandel.ErrInvalidOption, opts.TileSize)
	}

	colors := hooks.Colors
	if colors == nil {
		colors = DefaultPalette
	}
	action, err := newTileAction(opts, colors, buf.Set)
	if err != nil {
		return Stats{}, err
	}
	workers := opts.Workers()
	if hooks.Remote != nil {
		workers += hooks.Remote.Len()
		action = hooks.Remote.action(opts.Request(), buf, action)
	}

	tiles := SplitTiles(buf.Bounds(), opts.TileSize, opts.TileSize)
	if opts.Order == mandel.OrderCenterOut {
		tiles = CenterOut(tiles, buf.Bounds())
	}

	d, err := NewDispatcher(tiles, workers,
		WithObserver(hooks.Observer),
		WithProgress(hooks.Progress),
	)
	if err != nil {
		return Stats{}, err
	}

	Logger().Debug("render",
		"size", buf.Bounds().Size().String(),
		"fractal", opts.Fractal.String(),
		"precision", opts.Precision.String(),
		"tiles", len(tiles),
		"workers", d.Workers(),
	)
	return d.Run(ctx, action)
}

// Image renders opts into a new image. With a supersample factor above one
// the view is rendered at factor times the size and scaled down; the hooks
// then see tile bounds in the larger image.
func Image(ctx context.Context, opts mandel.RenderOptions, hooks Hooks) (*image.RGBA, Stats, error) {
	full := opts.Supersampled()
	img := image.NewRGBA(image.Rect(0, 0, full.Width, full.Height))

	stats, err := Render(ctx, full, FromRGBA(img), hooks)
	if err != nil {
		return nil, stats, err
	}
	if opts.Supersample <= 1 {
		return img, stats, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst, stats, nil
}
