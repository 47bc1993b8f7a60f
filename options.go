package mandel

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/marben/deepzoom_mandel/escape"
	"github.com/marben/deepzoom_mandel/numeric"
)

var (
	// ErrInvalidOption is wrapped by every RenderRequest validation error.
	ErrInvalidOption = errors.New("invalid render option")
	// ErrInvalidNumber marks numeric fields whose text is malformed.
	ErrInvalidNumber = errors.New("invalid number")
)

// Precision selects the numeric tier a render computes in.
type Precision int

const (
	PrecisionFloat Precision = iota
	PrecisionFixed
	PrecisionArbitrary
)

func (p Precision) String() string {
	switch p {
	case PrecisionFloat:
		return "float"
	case PrecisionFixed:
		return "fixed"
	case PrecisionArbitrary:
		return "arbitrary"
	}
	return fmt.Sprintf("Precision(%d)", int(p))
}

// ParsePrecision accepts "float", "fixed", "arbitrary" and a few aliases.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "float", "double", "float64":
		return PrecisionFloat, nil
	case "fixed", "decimal":
		return PrecisionFixed, nil
	case "arbitrary", "big", "bigdecimal":
		return PrecisionArbitrary, nil
	}
	return 0, fmt.Errorf("unknown precision %q", s)
}

// TileOrder is the order tiles are submitted to the workers.
type TileOrder int

const (
	// OrderCenterOut starts near the image center and works outwards.
	OrderCenterOut TileOrder = iota
	// OrderRowMajor goes left to right, top to bottom.
	OrderRowMajor
)

func (o TileOrder) String() string {
	if o == OrderRowMajor {
		return "rows"
	}
	return "center"
}

func ParseTileOrder(s string) (TileOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "center", "center-out":
		return OrderCenterOut, nil
	case "rows", "row-major":
		return OrderRowMajor, nil
	}
	return 0, fmt.Errorf("unknown tile order %q", s)
}

const (
	DefaultMaxIterations = 1000
	DefaultTileSize      = 64
	MaxSupersample       = 8
)

// RenderRequest is the text form of a render, as it arrives from flags,
// config files or the websocket stream. Coordinates and scale stay decimal
// text until a tier parses them. Zero fields are left out of the JSON form,
// so a request decoded over another one only replaces what it sets.
type RenderRequest struct {
	Width         int     `json:"width,omitempty" mapstructure:"width"`
	Height        int     `json:"height,omitempty" mapstructure:"height"`
	CenterX       string  `json:"center_x,omitempty" mapstructure:"center_x"`
	CenterY       string  `json:"center_y,omitempty" mapstructure:"center_y"`
	Scale         string  `json:"scale,omitempty" mapstructure:"scale"`
	Fractal       string  `json:"fractal,omitempty" mapstructure:"fractal"`
	JuliaRe       string  `json:"julia_re,omitempty" mapstructure:"julia_re"`
	JuliaIm       string  `json:"julia_im,omitempty" mapstructure:"julia_im"`
	Power         float64 `json:"power,omitempty" mapstructure:"power"`
	Invert        bool    `json:"invert,omitempty" mapstructure:"invert"`
	MaxIterations int     `json:"max_iterations,omitempty" mapstructure:"max_iterations"`
	Threshold     string  `json:"threshold,omitempty" mapstructure:"threshold"`
	Supersample   int     `json:"supersample,omitempty" mapstructure:"supersample"`
	Threads       int     `json:"threads,omitempty" mapstructure:"threads"`
	Precision     string  `json:"precision,omitempty" mapstructure:"precision"`
	Digits        int     `json:"digits,omitempty" mapstructure:"digits"`
	TileSize      int     `json:"tile_size,omitempty" mapstructure:"tile_size"`
	Order         string  `json:"order,omitempty" mapstructure:"order"`
}

// DefaultRequest renders the whole Mandelbrot set at 1920x1080.
func DefaultRequest() RenderRequest {
	return RenderRequest{
		Width:         1920,
		Height:        1080,
		CenterX:       "-0.5",
		CenterY:       "0",
		Scale:         "4",
		Fractal:       escape.Mandelbrot.String(),
		JuliaRe:       "-0.8",
		JuliaIm:       "0.156",
		Power:         escape.DefaultPower,
		MaxIterations: DefaultMaxIterations,
		Threshold:     escape.DefaultThreshold,
		Supersample:   1,
		Precision:     PrecisionFloat.String(),
		TileSize:      DefaultTileSize,
		Order:         OrderCenterOut.String(),
	}
}

// RenderOptions is the validated, immutable snapshot a render consumes.
type RenderOptions struct {
	Width, Height int
	// CenterX, CenterY and Scale are validated decimal text.
	CenterX, CenterY, Scale string
	Fractal                 escape.FractalType
	Julia                   numeric.Complex[numeric.Fixed]
	Power                   float64
	Invert                  bool
	MaxIterations           int
	Threshold               string
	Supersample             int
	Threads                 int
	Precision               Precision
	// Digits caps the arbitrary tier's significant digits; 0 picks a cap
	// from the view.
	Digits   int32
	TileSize int
	Order    TileOrder
}

func invalid(field string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidOption, field, err)
}

func invalidNumber(field, text string, err error) error {
	return fmt.Errorf("%w: %s: %w %q: %w", ErrInvalidOption, field, ErrInvalidNumber, text, err)
}

// Options validates the request. Empty optional fields take defaults; any
// malformed numeric text is an error, never silently coerced.
func (r RenderRequest) Options() (RenderOptions, error) {
	def := DefaultRequest()
	o := RenderOptions{
		Width:         r.Width,
		Height:        r.Height,
		CenterX:       strings.TrimSpace(r.CenterX),
		CenterY:       strings.TrimSpace(r.CenterY),
		Scale:         strings.TrimSpace(r.Scale),
		Power:         r.Power,
		Invert:        r.Invert,
		MaxIterations: r.MaxIterations,
		Threshold:     strings.TrimSpace(r.Threshold),
		Supersample:   r.Supersample,
		Threads:       r.Threads,
		Digits:        int32(r.Digits),
		TileSize:      r.TileSize,
	}

	if o.Width <= 0 || o.Height <= 0 {
		return RenderOptions{}, invalid("size", fmt.Errorf("%dx%d must be positive", o.Width, o.Height))
	}

	for _, f := range []struct {
		name string
		text string
	}{
		{"center_x", o.CenterX},
		{"center_y", o.CenterY},
		{"scale", o.Scale},
	} {
		if err := numeric.ValidateDecimal(f.text); err != nil {
			return RenderOptions{}, invalidNumber(f.name, f.text, err)
		}
	}
	scale, err := numeric.NewBigTier(0).Parse(o.Scale)
	if err != nil {
		return RenderOptions{}, invalidNumber("scale", o.Scale, err)
	}
	if scale.Cmp(numeric.NewBigTier(0).Zero()) <= 0 {
		return RenderOptions{}, invalid("scale", fmt.Errorf("%s must be positive", o.Scale))
	}

	fractal, err := escape.ParseFractalType(orDefault(r.Fractal, def.Fractal))
	if err != nil {
		return RenderOptions{}, invalid("fractal", err)
	}
	o.Fractal = fractal

	juliaRe, juliaIm := orDefault(r.JuliaRe, def.JuliaRe), orDefault(r.JuliaIm, def.JuliaIm)
	re, err := numeric.FixedTier{}.Parse(juliaRe)
	if err != nil {
		return RenderOptions{}, invalidNumber("julia_re", juliaRe, err)
	}
	im, err := numeric.FixedTier{}.Parse(juliaIm)
	if err != nil {
		return RenderOptions{}, invalidNumber("julia_im", juliaIm, err)
	}
	o.Julia = numeric.NewComplex(re, im)

	if math.IsNaN(o.Power) || math.IsInf(o.Power, 0) {
		return RenderOptions{}, invalid("power", fmt.Errorf("%g must be finite", o.Power))
	}
	if o.Power == 0 {
		o.Power = def.Power
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = def.MaxIterations
	}
	if o.MaxIterations < 0 {
		return RenderOptions{}, invalid("max_iterations", fmt.Errorf("%d must not be negative", o.MaxIterations))
	}

	if o.Threshold == "" {
		o.Threshold = def.Threshold
	}
	if err := numeric.ValidateDecimal(o.Threshold); err != nil {
		return RenderOptions{}, invalidNumber("threshold", o.Threshold, err)
	}
	threshold, err := numeric.NewBigTier(0).Parse(o.Threshold)
	if err != nil {
		return RenderOptions{}, invalidNumber("threshold", o.Threshold, err)
	}
	if threshold.Cmp(numeric.NewBigTier(0).Zero()) <= 0 {
		return RenderOptions{}, invalid("threshold", fmt.Errorf("%s must be positive", o.Threshold))
	}

	if o.Supersample == 0 {
		o.Supersample = 1
	}
	if o.Supersample < 1 || o.Supersample > MaxSupersample {
		return RenderOptions{}, invalid("supersample", fmt.Errorf("%d outside [1,%d]", o.Supersample, MaxSupersample))
	}

	if o.Precision, err = ParsePrecision(r.Precision); err != nil {
		return RenderOptions{}, invalid("precision", err)
	}
	if o.Digits < 0 {
		return RenderOptions{}, invalid("digits", fmt.Errorf("%d must not be negative", o.Digits))
	}

	if o.TileSize == 0 {
		o.TileSize = def.TileSize
	}
	if o.TileSize < 0 {
		return RenderOptions{}, invalid("tile_size", fmt.Errorf("%d must be positive", o.TileSize))
	}
	if o.Order, err = ParseTileOrder(r.Order); err != nil {
		return RenderOptions{}, invalid("order", err)
	}

	return o, nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// Workers is the dispatcher concurrency: Threads, or GOMAXPROCS when unset.
func (o RenderOptions) Workers() int {
	if o.Threads > 0 {
		return o.Threads
	}
	return runtime.GOMAXPROCS(0)
}

// EngineConfig is the engine part of the options.
func (o RenderOptions) EngineConfig() escape.Config {
	return escape.Config{
		Fractal:       o.Fractal,
		MaxIterations: o.MaxIterations,
		Threshold:     o.Threshold,
		Power:         o.Power,
		Invert:        o.Invert,
		Julia:         o.Julia,
	}
}

// ArbitraryDigits is the digit cap for the arbitrary tier at the given
// render width.
func (o RenderOptions) ArbitraryDigits(width int) int32 {
	if o.Digits > 0 {
		return o.Digits
	}
	d, err := numeric.DigitsForView(o.CenterX, o.CenterY, o.Scale, width)
	if err != nil {
		// fields were validated by Options
		return numeric.MinBigDigits
	}
	return d
}

// Supersampled returns the options for rendering at Supersample times the
// size; the view itself is unchanged.
func (o RenderOptions) Supersampled() RenderOptions {
	o.Width *= o.Supersample
	o.Height *= o.Supersample
	o.Supersample = 1
	return o
}

// Request converts the options back to their text form. The arbitrary
// tier's digit cap is written out, so a request rendered elsewhere at the
// same size computes with the same digits.
func (o RenderOptions) Request() RenderRequest {
	r := RenderRequest{
		Width:         o.Width,
		Height:        o.Height,
		CenterX:       o.CenterX,
		CenterY:       o.CenterY,
		Scale:         o.Scale,
		Fractal:       o.Fractal.String(),
		JuliaRe:       o.Julia.Re.String(),
		JuliaIm:       o.Julia.Im.String(),
		Power:         o.Power,
		Invert:        o.Invert,
		MaxIterations: o.MaxIterations,
		Threshold:     o.Threshold,
		Supersample:   o.Supersample,
		Threads:       o.Threads,
		Precision:     o.Precision.String(),
		TileSize:      o.TileSize,
		Order:         o.Order.String(),
	}
	if o.Precision == PrecisionArbitrary {
		r.Digits = int(o.ArbitraryDigits(o.Width))
	}
	return r
}
