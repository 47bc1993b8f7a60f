package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	mandel "github.com/marben/deepzoom_mandel"
)

// ErrConcurrency is returned for a dispatcher with fewer than one worker.
var ErrConcurrency = errors.New("max concurrency must be at least 1")

// TileAction renders one tile. It must only write inside t.Bounds.
type TileAction func(ctx context.Context, t Tile) error

// Stats summarizes one Run.
type Stats struct {
	Total     int
	Started   int
	Completed int
	Failed    int
	// Cancelled is set when the context stopped the run before every tile
	// was started. The tiles that did run are complete.
	Cancelled bool
}

// Dispatcher runs a tile action over an ordered tile list with a fixed
// number of workers. Idle workers always take the earliest queued tile.
type Dispatcher struct {
	tiles    []Tile
	workers  int
	observer mandel.TileObserver
	progress mandel.ProgressFunc
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithObserver registers tile start/complete hooks.
func WithObserver(o mandel.TileObserver) Option {
	return func(d *Dispatcher) {
		if o != nil {
			d.observer = o
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn mandel.ProgressFunc) Option {
	return func(d *Dispatcher) { d.progress = fn }
}

// NewDispatcher copies tiles; later changes to the slice do not affect it.
func NewDispatcher(tiles []Tile, maxConcurrency int, opts ...Option) (*Dispatcher, error) {
	if maxConcurrency < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrConcurrency, maxConcurrency)
	}
	d := &Dispatcher{
		tiles:    append([]Tile(nil), tiles...),
		workers:  maxConcurrency,
		observer: mandel.ObserverFuncs{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Workers is the number of goroutines Run starts.
func (d *Dispatcher) Workers() int { return d.workers }

// Run processes every tile, or stops early when ctx is cancelled or an
// action fails. Workers check for cancellation before taking a tile and
// never abort one in progress; Run returns once every worker has exited.
//
// Cancellation is not an error: it is reported through Stats.Cancelled.
// The first action error is returned after the other workers drain.
func (d *Dispatcher) Run(ctx context.Context, action TileAction) (Stats, error) {
	r := &run{
		queue:    newTileQueue(d.tiles),
		action:   action,
		observer: d.observer,
		progress: d.progress,
		total:    len(d.tiles),
		printer:  message.NewPrinter(language.English),
	}

	g, gctx := errgroup.WithContext(ctx)
	for id := range d.workers {
		g.Go(func() error { return r.work(gctx, id) })
	}
	err := g.Wait()

	stats := Stats{
		Total:     r.total,
		Started:   int(r.started.Load()),
		Completed: int(r.completed.Load()),
		Failed:    int(r.failed.Load()),
	}
	if err != nil {
		return stats, err
	}
	stats.Cancelled = r.queue.remaining() > 0
	return stats, nil
}

// run is the shared state of one Run call.
type run struct {
	queue    *tileQueue
	action   TileAction
	observer mandel.TileObserver
	progress mandel.ProgressFunc
	total    int

	started   atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64

	progressMu sync.Mutex
	printer    *message.Printer
}

func (r *run) work(ctx context.Context, id int) error {
	log := Logger().With("worker", id)
	log.Debug("worker started")
	defer log.Debug("worker exited")

	for {
		if ctx.Err() != nil {
			return nil
		}
		t, ok := r.queue.pop()
		if !ok {
			return nil
		}

		r.started.Add(1)
		r.observer.OnTileStart(t.Bounds)
		err := r.renderTile(ctx, t)
		if err != nil {
			r.failed.Add(1)
		} else {
			r.completed.Add(1)
		}
		r.observer.OnTileComplete(t.Bounds)
		r.reportProgress()

		if err != nil {
			log.Warn("tile failed", "tile", t.Bounds.String(), "err", err)
			return fmt.Errorf("tile %v: %w", t.Bounds, err)
		}
	}
}

// renderTile converts a panicking action into an error so one bad tile
// cannot take down the other workers.
func (r *run) renderTile(ctx context.Context, t Tile) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return r.action(ctx, t)
}

func (r *run) reportProgress() {
	if r.progress == nil {
		return
	}
	r.progressMu.Lock()
	defer r.progressMu.Unlock()

	done := int(r.completed.Load() + r.failed.Load())
	pct := 100.0
	if r.total > 0 {
		pct = 100 * float64(done) / float64(r.total)
	}
	r.progress(mandel.Progress{
		Percentage: pct,
		Status:     r.printer.Sprintf("rendered %d of %d tiles", done, r.total),
	})
}

// tileQueue hands out tiles in submission order; each tile is popped once.
type tileQueue struct {
	mu    sync.Mutex
	tiles []Tile
	next  int
}

func newTileQueue(tiles []Tile) *tileQueue {
	return &tileQueue{tiles: tiles}
}

func (q *tileQueue) pop() (Tile, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.next >= len(q.tiles) {
		return Tile{}, false
	}
	t := q.tiles[q.next]
	q.next++
	return t, true
}

func (q *tileQueue) remaining() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tiles) - q.next
}

// Bounds returns the union of the tiles' bounds.
func Bounds(tiles []Tile) image.Rectangle {
	var r image.Rectangle
	for _, t := range tiles {
		r = r.Union(t.Bounds)
	}
	return r
}
