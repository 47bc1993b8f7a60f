// fractal renders escape-time fractals at float, fixed or arbitrary
// precision. It writes PNG files directly or streams tiles to websocket
// clients as they finish.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marben/deepzoom_mandel/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalf("fractal: %v", err)
	}
}

// globals are the flags shared by every subcommand.
type globals struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "fractal",
		Short:         "Deep-zoom escape-time fractal renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setupLogging(g.logLevel)
		},
	}
	root.PersistentFlags().StringVar(&g.configFile, "config", "", "read render settings from a yaml, json or toml file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "renderer log level: debug, info, warn or error (default off)")

	root.AddCommand(
		newRenderCmd(g),
		newServeCmd(g),
		newWatchCmd(g),
		newWorkerCmd(),
		newLandmarksCmd(),
	)
	return root
}

// setupLogging enables the renderer's structured log on stderr.
func setupLogging(level string) error {
	if level == "" || level == "off" {
		render.SetLogger(nil)
		return nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}
