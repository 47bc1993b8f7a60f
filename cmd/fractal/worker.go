package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"

	"github.com/coder/websocket"
	"github.com/marben/irpc"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/deepzoom_mandel"
	"github.com/marben/deepzoom_mandel/render"
)

func newWorkerCmd() *cobra.Command {
	var (
		url         string
		connections int
	)
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Render tiles for a serve instance",
		Long: `worker connects to a running "fractal serve" and renders the tiles it
hands out. Each connection renders one tile at a time; use --connections
to take more than one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if connections < 1 {
				return fmt.Errorf("--connections must be positive, got %d", connections)
			}
			g, ctx := errgroup.WithContext(cmd.Context())
			for range connections {
				g.Go(func() error { return work(ctx, url, render.TileService{}) })
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&url, "url", "ws://localhost:8080/workers", "worker endpoint of the server, ws:// or tcp://")
	cmd.Flags().IntVar(&connections, "connections", 1, "number of connections to the server")
	return cmd
}

// work serves r to the server at url until the connection drops or ctx
// is done.
func work(ctx context.Context, url string, r mandel.Renderer) error {
	conn, err := dialServer(ctx, url)
	if err != nil {
		return err
	}
	ep := irpc.NewEndpoint(conn, irpc.WithEndpointServices(mandel.NewRendererIrpcService(r)))
	log.Printf("worker connected to %s", url)

	select {
	case <-ctx.Done():
		ep.Close()
		return nil
	case <-ep.Context().Done():
		err := context.Cause(ep.Context())
		if errors.Is(err, irpc.ErrEndpointClosedByCounterpart) {
			log.Printf("server %s closed the connection", url)
			return nil
		}
		return fmt.Errorf("connection to %s: %w", url, err)
	}
}

func dialServer(ctx context.Context, url string) (net.Conn, error) {
	if addr, ok := strings.CutPrefix(url, "tcp://"); ok {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("dial: %w", err)
		}
		return conn, nil
	}
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return websocket.NetConn(ctx, c, websocket.MessageBinary), nil
}
