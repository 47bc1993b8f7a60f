package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	mandel "github.com/marben/deepzoom_mandel"
	"github.com/marben/deepzoom_mandel/render"
)

func newRenderCmd(g *globals) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a view to a PNG file",
		Args:  cobra.NoArgs,
	}
	rf := newRequestFlags(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "fractal.png", "output PNG file")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		req, err := rf.request(g.configFile)
		if err != nil {
			return err
		}
		opts, err := req.Options()
		if err != nil {
			return err
		}
		return renderToFile(cmd.Context(), opts, out)
	}
	return cmd
}

// renderToFile renders opts and saves the image as a PNG. An interrupted
// render still saves the tiles that finished.
func renderToFile(ctx context.Context, opts mandel.RenderOptions, filename string) error {
	start := time.Now()
	next := 0.0
	hooks := render.Hooks{
		Progress: func(p mandel.Progress) {
			// calls are serialized
			if p.Percentage >= next {
				log.Printf("%3.0f%% %s", p.Percentage, p.Status)
				next = p.Percentage + 10
			}
		},
	}

	img, stats, err := render.Image(ctx, opts, hooks)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if stats.Cancelled {
		log.Printf("render cancelled after %d of %d tiles, saving partial image", stats.Completed, stats.Total)
	}

	if err := savePNG(filename, img); err != nil {
		return err
	}
	log.Printf("rendered %dx%d at %s precision in %s",
		opts.Width, opts.Height, opts.Precision, time.Since(start).Round(time.Millisecond))
	return nil
}
