package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	mandel "github.com/marben/deepzoom_mandel"
)

// EnvPrefix prefixes the environment variables read for render settings,
// e.g. FRACTAL_MAX_ITERATIONS.
const EnvPrefix = "FRACTAL"

// requestFlags collects a RenderRequest from flags, the environment and an
// optional config file. Explicit flags win over the environment, which
// wins over the file.
type requestFlags struct {
	v *viper.Viper
}

// newRequestFlags defines the render flags on cmd. It must run before the
// command adds flags of its own.
func newRequestFlags(cmd *cobra.Command) *requestFlags {
	d := mandel.DefaultRequest()
	fs := cmd.Flags()

	fs.Int("width", d.Width, "image width in pixels")
	fs.Int("height", d.Height, "image height in pixels")
	fs.String("center-x", d.CenterX, "real part of the view center")
	fs.String("center-y", d.CenterY, "imaginary part of the view center")
	fs.String("scale", d.Scale, "plane width shown across the image")
	fs.String("view", "", "start from a named landmark, replacing center and scale")
	fs.String("fractal", d.Fractal, "fractal type")
	fs.String("julia-re", d.JuliaRe, "real part of the Julia constant")
	fs.String("julia-im", d.JuliaIm, "imaginary part of the Julia constant")
	fs.Float64("power", d.Power, "exponent of the power and simonobrot formulas")
	fs.Bool("invert", d.Invert, "iterate 1/q instead of the plane coordinate q")
	fs.Int("max-iterations", d.MaxIterations, "iteration limit")
	fs.String("threshold", d.Threshold, "squared escape radius")
	fs.Int("supersample", d.Supersample, "render at this factor and scale down")
	fs.Int("threads", d.Threads, "worker count (0 uses every CPU)")
	fs.String("precision", d.Precision, "numeric tier: float, fixed or arbitrary")
	fs.Int("digits", d.Digits, "significant digits of the arbitrary tier (0 picks from the view)")
	fs.Int("tile-size", d.TileSize, "tile edge in pixels")
	fs.String("order", d.Order, "tile order: center or rows")

	v := viper.New()
	fs.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(configKey(f.Name), f); err != nil {
			panic(err)
		}
	})
	return &requestFlags{v: v}
}

// configKey maps a flag name to its config and environment key.
func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

// request resolves the settings. configFile may be empty.
func (rf *requestFlags) request(configFile string) (mandel.RenderRequest, error) {
	v := rf.v
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return mandel.RenderRequest{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var req mandel.RenderRequest
	if err := v.Unmarshal(&req); err != nil {
		return mandel.RenderRequest{}, fmt.Errorf("decode settings: %w", err)
	}

	if name := v.GetString("view"); name != "" {
		view, err := mandel.Landmark(name)
		if err != nil {
			return mandel.RenderRequest{}, err
		}
		view.Apply(&req)
	}
	return req, nil
}
