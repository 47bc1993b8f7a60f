package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"net"
	"net/http"
	"runtime"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/marben/irpc"
	"github.com/spf13/cobra"

	mandel "github.com/marben/deepzoom_mandel"
	"github.com/marben/deepzoom_mandel/render"
)

func newServeCmd(g *globals) *cobra.Command {
	var (
		addr       string
		workerAddr string
		lim        = defaultLimits()
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream renders to websocket clients",
		Long: `serve accepts websocket connections on /ws. A client sends one JSON
render request; fields it leaves out take the values of the serve flags.
The server answers with a stream of JSON events carrying each tile as it
finishes, then closes the connection.

Workers started with "fractal worker" connect on /workers, or over TCP
when --worker-addr is set, and render tiles of every stream alongside the
server's own threads.`,
		Args: cobra.NoArgs,
	}
	rf := newRequestFlags(cmd)
	fs := cmd.Flags()
	fs.StringVar(&addr, "addr", ":8080", "listen address")
	fs.StringVar(&workerAddr, "worker-addr", "", "also accept workers over TCP on this address")
	fs.IntVar(&lim.MaxPixels, "limit-pixels", lim.MaxPixels, "largest width*height a client may request")
	fs.IntVar(&lim.MaxIterations, "limit-iterations", lim.MaxIterations, "largest max_iterations a client may request")
	fs.IntVar(&lim.MaxDigits, "limit-digits", lim.MaxDigits, "largest arbitrary-precision digit count and numeric text length")
	fs.IntVar(&lim.MaxTiles, "limit-tiles", lim.MaxTiles, "largest number of tiles in one render")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		base, err := rf.request(g.configFile)
		if err != nil {
			return err
		}
		if _, err := base.Options(); err != nil {
			return fmt.Errorf("default request: %w", err)
		}
		return serve(cmd.Context(), addr, workerAddr, newServer(cmd.Context(), base, lim))
	}
	return cmd
}

func serve(ctx context.Context, addr, workerAddr string, s *server) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 3)
	go func() {
		log.Printf("listening on ws://%s/ws, workers on ws://%s/workers", addr, addr)
		errc <- fmt.Errorf("http server: %w", srv.ListenAndServe())
	}()
	go func() {
		errc <- fmt.Errorf("worker server: %w", s.workerServer.Serve(s.workerListener))
	}()
	if workerAddr != "" {
		l, err := net.Listen("tcp", workerAddr)
		if err != nil {
			s.workerServer.Close()
			srv.Close()
			return fmt.Errorf("worker listener: %w", err)
		}
		log.Printf("workers on tcp://%s", l.Addr())
		go func() {
			errc <- fmt.Errorf("worker server: %w", s.workerServer.Serve(l))
		}()
	}

	var err error
	select {
	case err = <-errc:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cerr := s.workerServer.Close(); cerr != nil {
		log.Printf("close workers: %v", cerr)
	}
	if serr := srv.Shutdown(shutdownCtx); serr != nil && err == nil {
		err = fmt.Errorf("shutdown: %w", serr)
	}
	return err
}

// limits bound what a single client request may ask of the server.
type limits struct {
	MaxPixels     int
	MaxIterations int
	// MaxDigits caps the arbitrary tier's digits and the length of the
	// numeric text fields.
	MaxDigits int
	MaxTiles  int
}

func defaultLimits() limits {
	return limits{
		MaxPixels:     4096 * 4096,
		MaxIterations: 1_000_000,
		MaxDigits:     1000,
		MaxTiles:      1 << 16,
	}
}

var errLimit = errors.New("request exceeds server limit")

// apply checks opts against l. Threads are clamped to the machine rather
// than refused.
func (l limits) apply(opts mandel.RenderOptions) (mandel.RenderOptions, error) {
	if opts.Width > l.MaxPixels/opts.Height {
		return opts, fmt.Errorf("%w: %dx%d is more than %d pixels", errLimit, opts.Width, opts.Height, l.MaxPixels)
	}
	if opts.MaxIterations > l.MaxIterations {
		return opts, fmt.Errorf("%w: max_iterations %d is more than %d", errLimit, opts.MaxIterations, l.MaxIterations)
	}
	for _, f := range []struct{ name, text string }{
		{"center_x", opts.CenterX},
		{"center_y", opts.CenterY},
		{"scale", opts.Scale},
		{"threshold", opts.Threshold},
	} {
		if len(f.text) > l.MaxDigits {
			return opts, fmt.Errorf("%w: %s has %d characters, more than %d", errLimit, f.name, len(f.text), l.MaxDigits)
		}
	}
	if opts.Precision == mandel.PrecisionArbitrary {
		if d := int(opts.ArbitraryDigits(opts.Width)); d > l.MaxDigits {
			return opts, fmt.Errorf("%w: %d digits is more than %d", errLimit, d, l.MaxDigits)
		}
	}
	across := (opts.Width + opts.TileSize - 1) / opts.TileSize
	down := (opts.Height + opts.TileSize - 1) / opts.TileSize
	if across > l.MaxTiles/down {
		return opts, fmt.Errorf("%w: tile size %d makes more than %d tiles", errLimit, opts.TileSize, l.MaxTiles)
	}

	if procs := runtime.GOMAXPROCS(0); opts.Threads <= 0 || opts.Threads > procs {
		opts.Threads = procs
	}
	return opts, nil
}

// server renders one request per websocket connection. Tiles are shared
// between its own threads and any connected workers.
type server struct {
	// base fills in the fields a client request leaves out.
	base   mandel.RenderRequest
	colors render.Colorizer
	limits limits

	workers        *render.WorkerPool
	workerServer   *irpc.Server
	workerListener *websocketListener
}

func newServer(ctx context.Context, base mandel.RenderRequest, lim limits) *server {
	s := &server{
		base:           base,
		limits:         lim,
		workers:        render.NewWorkerPool(),
		workerListener: newWebsocketListener(ctx, "/workers"),
	}
	s.workerServer = irpc.NewServer(irpc.WithOnConnect(s.addWorker))
	return s
}

// addWorker hands tiles to the worker behind ep until it disconnects.
func (s *server) addWorker(ep *irpc.Endpoint) {
	name := fmt.Sprint(ep.RemoteAddr())
	client, err := mandel.NewRendererIrpcClient(ep)
	if err != nil {
		log.Printf("worker %s: %v", name, err)
		ep.Close()
		return
	}
	remove := s.workers.Add(name, client)
	log.Printf("worker %s connected, %d workers", name, s.workers.Len())

	go func() {
		<-ep.Context().Done()
		remove()
		log.Printf("worker %s disconnected: %v", name, context.Cause(ep.Context()))
	}()
}

func (s *server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleStream)
	mux.HandleFunc("/workers", s.workerListener.handle)
	return mux
}

func (s *server) handleStream(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Println(err)
		return
	}
	defer c.CloseNow()

	ctx := r.Context()
	req := s.base
	if err := wsjson.Read(ctx, c, &req); err != nil {
		log.Printf("read request from %s: %v", r.RemoteAddr, err)
		return
	}
	// the client sends nothing else; this also notices it going away
	ctx = c.CloseRead(ctx)

	sess := newSession(c, s.colors, s.limits, s.workers)
	log.Printf("session %s: render request from %s", sess.id, r.RemoteAddr)

	if err := sess.run(ctx, req); err != nil {
		log.Printf("session %s: %v", sess.id, err)
		_ = wsjson.Write(ctx, c, mandel.Event{Kind: mandel.EventError, Session: sess.id.String(), Error: err.Error()})
		c.Close(websocket.StatusUnsupportedData, "render failed")
		return
	}
	c.Close(websocket.StatusNormalClosure, "")
}

// session is one render streamed to one client. Render hooks run on worker
// goroutines; they hand events to a single writer through a channel.
type session struct {
	id      uuid.UUID
	conn    *websocket.Conn
	colors  render.Colorizer
	limits  limits
	workers *render.WorkerPool
	events  chan mandel.Event
	buf     *render.PixelBuffer
}

func newSession(c *websocket.Conn, colors render.Colorizer, lim limits, workers *render.WorkerPool) *session {
	return &session{
		id:      uuid.New(),
		conn:    c,
		colors:  colors,
		limits:  lim,
		workers: workers,
		events:  make(chan mandel.Event, 64),
	}
}

// run renders req and streams it. Supersampling is ignored: tiles are sent
// at the size the client sees.
func (s *session) run(ctx context.Context, req mandel.RenderRequest) error {
	opts, err := req.Options()
	if err != nil {
		return err
	}
	opts.Supersample = 1
	if opts, err = s.limits.apply(opts); err != nil {
		return err
	}

	s.buf = render.NewPixelBuffer(opts.Width, opts.Height, render.RGBA)
	tiles := len(render.SplitTiles(s.buf.Bounds(), opts.TileSize, opts.TileSize))

	writeErr := make(chan error, 1)
	go func() { writeErr <- s.writeEvents(ctx) }()

	s.send(ctx, mandel.Event{
		Kind:    mandel.EventStart,
		Session: s.id.String(),
		Width:   opts.Width,
		Height:  opts.Height,
		Tiles:   tiles,
	})

	hooks := render.Hooks{
		Observer: mandel.ObserverFuncs{
			Start: func(r image.Rectangle) {
				s.send(ctx, mandel.Event{Kind: mandel.EventTileStart, Tile: rectPtr(r)})
			},
			Complete: func(r image.Rectangle) { s.tileDone(ctx, r) },
		},
		Progress: func(p mandel.Progress) {
			s.send(ctx, mandel.Event{Kind: mandel.EventProgress, Progress: &p})
		},
		Colors: s.colors,
		Remote: s.workers,
	}

	stats, err := render.Render(ctx, opts, s.buf, hooks)
	if err == nil {
		s.send(ctx, mandel.Event{Kind: mandel.EventDone, Completed: stats.Completed, Cancelled: stats.Cancelled})
	}
	close(s.events)

	if werr := <-writeErr; werr != nil && err == nil && ctx.Err() == nil {
		return fmt.Errorf("write events: %w", werr)
	}
	if stats.Cancelled {
		log.Printf("session %s: cancelled after %d of %d tiles", s.id, stats.Completed, stats.Total)
	}
	return err
}

// send queues ev unless the client is gone.
func (s *session) send(ctx context.Context, ev mandel.Event) {
	select {
	case s.events <- ev:
	case <-ctx.Done():
	}
}

// tileDone sends the finished tile's pixels as a PNG.
func (s *session) tileDone(ctx context.Context, r image.Rectangle) {
	var b bytes.Buffer
	if err := png.Encode(&b, s.buf.SubImage(r)); err != nil {
		log.Printf("session %s: encode tile %v: %v", s.id, r, err)
		return
	}
	s.send(ctx, mandel.Event{Kind: mandel.EventTileDone, Tile: rectPtr(r), PNG: b.Bytes()})
}

// writeEvents writes queued events until the channel is closed. After a
// failed write it keeps draining so the render never blocks on it.
func (s *session) writeEvents(ctx context.Context) error {
	var werr error
	for ev := range s.events {
		if werr != nil {
			continue
		}
		if ev.Session == "" {
			ev.Session = s.id.String()
		}
		werr = wsjson.Write(ctx, s.conn, ev)
	}
	return werr
}

func rectPtr(r image.Rectangle) *mandel.Rect {
	rect := mandel.RectOf(r)
	return &rect
}
