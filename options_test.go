package mandel

import (
	"errors"
	"math"
	"runtime"
	"strings"
	"testing"

	"github.com/marben/deepzoom_mandel/escape"
	"github.com/marben/deepzoom_mandel/numeric"
)

func TestRenderRequest_Defaults(t *testing.T) {
	opts, err := DefaultRequest().Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Width != 1920 || opts.Height != 1080 {
		t.Errorf("size %dx%d", opts.Width, opts.Height)
	}
	if opts.Fractal != escape.Mandelbrot || opts.Precision != PrecisionFloat || opts.Order != OrderCenterOut {
		t.Errorf("opts = %+v", opts)
	}
	if opts.MaxIterations != DefaultMaxIterations || opts.TileSize != DefaultTileSize || opts.Supersample != 1 {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Julia.String() != "(-0.8, 0.156)" {
		t.Errorf("julia %s", opts.Julia)
	}
}

func TestRenderRequest_EmptyFieldsTakeDefaults(t *testing.T) {
	req := RenderRequest{Width: 10, Height: 10, CenterX: "0", CenterY: "0", Scale: "1"}
	opts, err := req.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Threshold != escape.DefaultThreshold || opts.Power != escape.DefaultPower {
		t.Errorf("threshold %q power %v", opts.Threshold, opts.Power)
	}
	if opts.MaxIterations != DefaultMaxIterations {
		t.Errorf("max iterations %d", opts.MaxIterations)
	}
}

func TestRenderRequest_Invalid(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(r *RenderRequest)
		field  string
		number bool
	}{
		{"zero width", func(r *RenderRequest) { r.Width = 0 }, "size", false},
		{"negative height", func(r *RenderRequest) { r.Height = -4 }, "size", false},
		{"comma decimal", func(r *RenderRequest) { r.CenterX = "0,5" }, "center_x", true},
		{"empty center", func(r *RenderRequest) { r.CenterY = "" }, "center_y", true},
		{"nan scale", func(r *RenderRequest) { r.Scale = "NaN" }, "scale", true},
		{"zero scale", func(r *RenderRequest) { r.Scale = "0" }, "scale", false},
		{"negative scale", func(r *RenderRequest) { r.Scale = "-1e-3" }, "scale", false},
		{"scale exponent out of range", func(r *RenderRequest) { r.Scale = "1e99999999999" }, "scale", true},
		{"fractal", func(r *RenderRequest) { r.Fractal = "buddhabrot" }, "fractal", false},
		{"julia", func(r *RenderRequest) { r.JuliaIm = "0x10" }, "julia_im", true},
		{"nan power", func(r *RenderRequest) { r.Power = math.NaN() }, "power", false},
		{"infinite power", func(r *RenderRequest) { r.Power = math.Inf(-1) }, "power", false},
		{"iterations", func(r *RenderRequest) { r.MaxIterations = -1 }, "max_iterations", false},
		{"threshold text", func(r *RenderRequest) { r.Threshold = "four" }, "threshold", true},
		{"threshold sign", func(r *RenderRequest) { r.Threshold = "-4" }, "threshold", false},
		{"threshold exponent out of range", func(r *RenderRequest) { r.Threshold = "4e-99999999999" }, "threshold", true},
		{"supersample", func(r *RenderRequest) { r.Supersample = MaxSupersample + 1 }, "supersample", false},
		{"precision", func(r *RenderRequest) { r.Precision = "quad" }, "precision", false},
		{"digits", func(r *RenderRequest) { r.Digits = -3 }, "digits", false},
		{"tile size", func(r *RenderRequest) { r.TileSize = -64 }, "tile_size", false},
		{"order", func(r *RenderRequest) { r.Order = "spiral" }, "order", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := DefaultRequest()
			tc.mutate(&req)
			_, err := req.Options()
			if !errors.Is(err, ErrInvalidOption) {
				t.Fatalf("err = %v, want ErrInvalidOption", err)
			}
			if got := errors.Is(err, ErrInvalidNumber); got != tc.number {
				t.Errorf("ErrInvalidNumber = %v, want %v (%v)", got, tc.number, err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error %q does not name %s", err, tc.field)
			}
		})
	}
}

func TestRenderRequest_KeepsDeepCoordinates(t *testing.T) {
	req := DefaultRequest()
	DeepSeahorse.Apply(&req)
	req.Precision = "arbitrary"
	opts, err := req.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.CenterX != DeepSeahorse.CenterX || opts.Scale != "1e-25" {
		t.Errorf("view changed: %s %s", opts.CenterX, opts.Scale)
	}
	if d := opts.ArbitraryDigits(opts.Width); d <= numeric.MinBigDigits {
		t.Errorf("deep view got the minimum %d digits", d)
	}
	opts.Digits = 100
	if d := opts.ArbitraryDigits(opts.Width); d != 100 {
		t.Errorf("explicit digit cap ignored: %d", d)
	}
}

func TestParsePrecision(t *testing.T) {
	for text, want := range map[string]Precision{
		"":          PrecisionFloat,
		"float":     PrecisionFloat,
		"Fixed":     PrecisionFixed,
		"decimal":   PrecisionFixed,
		"arbitrary": PrecisionArbitrary,
		" big ":     PrecisionArbitrary,
	} {
		got, err := ParsePrecision(text)
		if err != nil || got != want {
			t.Errorf("ParsePrecision(%q) = %v, %v", text, got, err)
		}
		if err == nil && got.String() != want.String() {
			t.Errorf("String mismatch for %q", text)
		}
	}
}

func TestRenderOptions_Workers(t *testing.T) {
	if got := (RenderOptions{Threads: 3}).Workers(); got != 3 {
		t.Errorf("Workers = %d", got)
	}
	for _, n := range []int{0, -2} {
		if got := (RenderOptions{Threads: n}).Workers(); got != runtime.GOMAXPROCS(0) {
			t.Errorf("Threads=%d: Workers = %d, want GOMAXPROCS", n, got)
		}
	}
}

func TestRenderOptions_Supersampled(t *testing.T) {
	req := DefaultRequest()
	req.Width, req.Height, req.Supersample = 100, 50, 4
	opts, err := req.Options()
	if err != nil {
		t.Fatal(err)
	}
	full := opts.Supersampled()
	if full.Width != 400 || full.Height != 200 || full.Supersample != 1 {
		t.Errorf("supersampled %dx%d x%d", full.Width, full.Height, full.Supersample)
	}
	if full.Scale != opts.Scale || opts.Width != 100 {
		t.Error("supersampling changed the view or the original")
	}
}

func TestRenderOptions_EngineConfig(t *testing.T) {
	req := DefaultRequest()
	req.Fractal = "julia_power"
	req.Power = 3
	req.Invert = true
	req.MaxIterations = 77
	opts, err := req.Options()
	if err != nil {
		t.Fatal(err)
	}
	cfg := opts.EngineConfig()
	if cfg.Fractal != escape.JuliaPower || cfg.Power != 3 || !cfg.Invert || cfg.MaxIterations != 77 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestRenderOptions_Request(t *testing.T) {
	req := DefaultRequest()
	DeepSeahorse.Apply(&req)
	req.Width, req.Height = 320, 200
	req.Fractal = "julia-power"
	req.JuliaRe, req.JuliaIm = "-0.7269", "1e-30"
	req.Power = 3.5
	req.Invert = true
	req.Precision = "arbitrary"
	req.Order = "rows"
	opts, err := req.Options()
	if err != nil {
		t.Fatal(err)
	}

	back, err := opts.Request().Options()
	if err != nil {
		t.Fatalf("Options of converted request: %v", err)
	}
	if back.CenterX != opts.CenterX || back.CenterY != opts.CenterY || back.Scale != opts.Scale {
		t.Errorf("view %s %s %s, want %s %s %s", back.CenterX, back.CenterY, back.Scale, opts.CenterX, opts.CenterY, opts.Scale)
	}
	if back.Julia.Re.Cmp(opts.Julia.Re) != 0 || back.Julia.Im.Cmp(opts.Julia.Im) != 0 {
		t.Errorf("julia %s, want %s", back.Julia, opts.Julia)
	}
	if back.Fractal != opts.Fractal || back.Power != opts.Power || !back.Invert ||
		back.Precision != opts.Precision || back.Order != opts.Order || back.TileSize != opts.TileSize {
		t.Errorf("options %+v, want %+v", back, opts)
	}
	if got, want := back.ArbitraryDigits(back.Width), opts.ArbitraryDigits(opts.Width); got != want {
		t.Errorf("digits %d, want %d", got, want)
	}
}

func TestLandmarks(t *testing.T) {
	names := LandmarkNames()
	if len(names) != len(landmarks) {
		t.Fatalf("%d names", len(names))
	}
	for _, name := range names {
		v, err := Landmark(name)
		if err != nil {
			t.Fatal(err)
		}
		req := DefaultRequest()
		v.Apply(&req)
		if _, err := req.Options(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if v, err := Landmark(" Seahorse-Valley "); err != nil || v != SeahorseValley {
		t.Errorf("case-insensitive lookup: %v, %v", v, err)
	}
	if _, err := Landmark("atlantis"); err == nil {
		t.Error("unknown landmark accepted")
	}
}

func TestRect_RoundTrip(t *testing.T) {
	r := Rect{X0: 64, Y0: 0, X1: 128, Y1: 40}
	if got := RectOf(r.Rectangle()); got != r {
		t.Errorf("got %+v", got)
	}
}
