package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"net"
	"sync/atomic"
	"testing"

	"github.com/marben/irpc"

	mandel "github.com/marben/deepzoom_mandel"
)

// countingRenderer counts the tiles it forwards to r.
type countingRenderer struct {
	r     mandel.Renderer
	tiles atomic.Int64
}

func (c *countingRenderer) RenderTile(ctx context.Context, req mandel.RenderRequest, tile image.Rectangle) ([]byte, error) {
	c.tiles.Add(1)
	return c.r.RenderTile(ctx, req, tile)
}

type failingRenderer struct{}

func (failingRenderer) RenderTile(context.Context, mandel.RenderRequest, image.Rectangle) ([]byte, error) {
	return nil, errors.New("worker gone")
}

func TestTileService_MatchesLocalRender(t *testing.T) {
	for _, precision := range []string{"float", "fixed", "arbitrary"} {
		t.Run(precision, func(t *testing.T) {
			opts := testOptions(t, func(r *mandel.RenderRequest) {
				r.Fractal = "julia-power"
				r.Power = 3
				r.Precision = precision
			})
			buf, _ := renderBuffer(t, opts, Hooks{})

			tile := image.Rect(5, 5, 10, 10)
			pix, err := TileService{}.RenderTile(context.Background(), opts.Request(), tile)
			if err != nil {
				t.Fatal(err)
			}
			if want := buf.SubImage(tile).Pix; !bytes.Equal(pix, want) {
				t.Error("remote tile differs from the local render")
			}
		})
	}
}

func TestTileService_RejectsBadTiles(t *testing.T) {
	req := testOptions(t, nil).Request()
	for _, tile := range []image.Rectangle{
		image.Rect(10, 10, 20, 20),
		image.Rect(-1, 0, 4, 4),
		image.Rect(3, 3, 3, 3),
	} {
		if _, err := (TileService{}).RenderTile(context.Background(), req, tile); err == nil {
			t.Errorf("tile %v rendered", tile)
		}
	}

	req.Scale = "wide"
	if _, err := (TileService{}).RenderTile(context.Background(), req, image.Rect(0, 0, 4, 4)); !errors.Is(err, mandel.ErrInvalidOption) {
		t.Errorf("bad request err = %v", err)
	}
}

func TestRender_RemoteWorkers(t *testing.T) {
	opts := testOptions(t, func(r *mandel.RenderRequest) { r.Threads = 1 })
	want, _ := renderBuffer(t, opts, Hooks{})

	pool := NewWorkerPool()
	worker := &countingRenderer{r: TileService{}}
	remove := pool.Add("w1", worker)
	defer remove()

	got, stats := renderBuffer(t, opts, Hooks{Remote: pool})
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Error("render with a remote worker differs from a local render")
	}
	if stats.Completed != stats.Total {
		t.Errorf("stats = %+v", stats)
	}
	if worker.tiles.Load() == 0 {
		t.Error("remote worker rendered no tiles")
	}
}

func TestRender_FailingWorkerFallsBackToLocal(t *testing.T) {
	opts := testOptions(t, nil)
	want, _ := renderBuffer(t, opts, Hooks{})

	pool := NewWorkerPool()
	pool.Add("broken", failingRenderer{})

	got, stats := renderBuffer(t, opts, Hooks{Remote: pool})
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Error("fallback render differs from a local render")
	}
	if stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if n := pool.Len(); n != 0 {
		t.Errorf("failed worker still in pool, %d workers", n)
	}
}

func TestWorkerPool_Remove(t *testing.T) {
	pool := NewWorkerPool()
	removeA := pool.Add("a", TileService{})
	pool.Add("b", TileService{})
	if pool.Len() != 2 {
		t.Fatalf("Len = %d, want 2", pool.Len())
	}
	removeA()
	removeA()
	if pool.Len() != 1 {
		t.Fatalf("Len = %d, want 1", pool.Len())
	}

	w, ok := pool.acquire()
	if !ok || w.name != "b" {
		t.Fatalf("acquire = %v, %v", w, ok)
	}
	if _, ok := pool.acquire(); ok {
		t.Error("acquired a busy worker")
	}
	pool.release(w)
	if _, ok := pool.acquire(); !ok {
		t.Error("released worker not idle")
	}
}

func TestRender_RemoteWorkerOverIrpc(t *testing.T) {
	serverConn, workerConn := net.Pipe()
	workerEp := irpc.NewEndpoint(workerConn, irpc.WithEndpointServices(mandel.NewRendererIrpcService(TileService{})))
	defer workerEp.Close()
	serverEp := irpc.NewEndpoint(serverConn)
	defer serverEp.Close()

	client, err := mandel.NewRendererIrpcClient(serverEp)
	if err != nil {
		t.Fatal(err)
	}
	worker := &countingRenderer{r: client}
	pool := NewWorkerPool()
	pool.Add("pipe", worker)

	opts := testOptions(t, func(r *mandel.RenderRequest) {
		r.Threads = 1
		r.Precision = "fixed"
	})
	want, _ := renderBuffer(t, opts, Hooks{})
	got, _ := renderBuffer(t, opts, Hooks{Remote: pool})
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Error("render over irpc differs from a local render")
	}
	if worker.tiles.Load() == 0 {
		t.Error("no tiles went over irpc")
	}
	if pool.Len() != 1 {
		t.Error("irpc worker dropped from the pool")
	}
}
