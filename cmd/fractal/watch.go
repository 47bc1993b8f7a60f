package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"os"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/cobra"

	mandel "github.com/marben/deepzoom_mandel"
)

// eventReadLimit bounds one event message; tile_done events carry a PNG.
const eventReadLimit = 32 << 20

func newWatchCmd(g *globals) *cobra.Command {
	var (
		url string
		out string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Ask a serve instance for a render and save the streamed tiles",
		Args:  cobra.NoArgs,
	}
	rf := newRequestFlags(cmd)
	cmd.Flags().StringVar(&url, "url", "ws://localhost:8080/ws", "websocket endpoint of a serve instance")
	cmd.Flags().StringVarP(&out, "out", "o", "fractal.png", "output PNG file")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		req, err := rf.request(g.configFile)
		if err != nil {
			return err
		}
		// fail here rather than on the server
		if _, err := req.Options(); err != nil {
			return err
		}
		res, err := watch(cmd.Context(), url, req, func(ev mandel.Event) {
			if ev.Kind == mandel.EventProgress && ev.Progress != nil {
				log.Printf("%5.1f%% %s", ev.Progress.Percentage, ev.Progress.Status)
			}
		})
		if err != nil {
			return err
		}
		if res.Cancelled {
			log.Printf("server cancelled the render, saving partial image")
		}
		return savePNG(out, res.Image)
	}
	return cmd
}

// watchResult is an image assembled from a render stream.
type watchResult struct {
	Session   string
	Image     *image.RGBA
	Tiles     int
	Cancelled bool
}

// watch sends req to the server at url and draws the streamed tiles into an
// image. onEvent, if set, sees every event before it is applied.
func watch(ctx context.Context, url string, req mandel.RenderRequest, onEvent func(mandel.Event)) (watchResult, error) {
	log.Printf("connecting to %s", url)
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return watchResult{}, fmt.Errorf("dial: %w", err)
	}
	defer c.CloseNow()
	c.SetReadLimit(eventReadLimit)

	if err := wsjson.Write(ctx, c, req); err != nil {
		return watchResult{}, fmt.Errorf("send request: %w", err)
	}

	var res watchResult
	for {
		var ev mandel.Event
		if err := wsjson.Read(ctx, c, &ev); err != nil {
			return res, fmt.Errorf("read event: %w", err)
		}
		if onEvent != nil {
			onEvent(ev)
		}

		switch ev.Kind {
		case mandel.EventStart:
			res.Session = ev.Session
			res.Image = image.NewRGBA(image.Rect(0, 0, ev.Width, ev.Height))
			log.Printf("session %s: %dx%d in %d tiles", ev.Session, ev.Width, ev.Height, ev.Tiles)

		case mandel.EventTileDone:
			if res.Image == nil || ev.Tile == nil {
				return res, errors.New("tile before start event")
			}
			if err := drawTile(res.Image, ev.Tile.Rectangle(), ev.PNG); err != nil {
				return res, err
			}
			res.Tiles++

		case mandel.EventError:
			return res, fmt.Errorf("server: %s", ev.Error)

		case mandel.EventDone:
			if res.Image == nil {
				return res, errors.New("done before start event")
			}
			res.Cancelled = ev.Cancelled
			c.Close(websocket.StatusNormalClosure, "")
			return res, nil
		}
	}
}

// drawTile decodes a tile PNG and copies it to r in dst.
func drawTile(dst *image.RGBA, r image.Rectangle, data []byte) error {
	tile, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode tile %v: %w", r, err)
	}
	if tile.Bounds().Size() != r.Size() {
		return fmt.Errorf("tile %v decoded as %v", r, tile.Bounds())
	}
	draw.Draw(dst, r, tile, tile.Bounds().Min, draw.Src)
	return nil
}

func savePNG(filename string, img image.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("saved %q", filename)
	return nil
}
