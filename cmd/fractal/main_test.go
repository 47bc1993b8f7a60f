package main

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	mandel "github.com/marben/deepzoom_mandel"
)

func parseRequest(t *testing.T, configFile string, args ...string) (mandel.RenderRequest, error) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	rf := newRequestFlags(cmd)
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return rf.request(configFile)
}

func TestRequestFlags_Defaults(t *testing.T) {
	req, err := parseRequest(t, "")
	if err != nil {
		t.Fatal(err)
	}
	if req != mandel.DefaultRequest() {
		t.Errorf("got %+v\nwant %+v", req, mandel.DefaultRequest())
	}
}

func TestRequestFlags_Precedence(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "view.yaml")
	err := os.WriteFile(cfg, []byte(`width: 320
height: 200
center_x: "-0.75"
max_iterations: 500
precision: fixed
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("FRACTAL_MAX_ITERATIONS", "700")

	req, err := parseRequest(t, cfg, "--height", "240")
	if err != nil {
		t.Fatal(err)
	}
	if req.Width != 320 || req.CenterX != "-0.75" || req.Precision != "fixed" {
		t.Errorf("config file ignored: %+v", req)
	}
	if req.Height != 240 {
		t.Errorf("height %d, want the flag's 240", req.Height)
	}
	if req.MaxIterations != 700 {
		t.Errorf("max iterations %d, want the environment's 700", req.MaxIterations)
	}
	if req.Scale != mandel.DefaultRequest().Scale {
		t.Errorf("scale %q, want the default", req.Scale)
	}
}

func TestRequestFlags_View(t *testing.T) {
	req, err := parseRequest(t, "", "--view", "seahorse-valley", "--center-x", "1")
	if err != nil {
		t.Fatal(err)
	}
	if req.CenterX != mandel.SeahorseValley.CenterX || req.Scale != mandel.SeahorseValley.Scale {
		t.Errorf("view not applied: %+v", req)
	}

	if _, err := parseRequest(t, "", "--view", "atlantis"); err == nil {
		t.Error("unknown view accepted")
	}
}

func TestRequestFlags_MissingConfig(t *testing.T) {
	if _, err := parseRequest(t, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing config file accepted")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out.png")
	_, err := execute(t, "render",
		"--width", "24", "--height", "16",
		"--max-iterations", "20",
		"--precision", "arbitrary",
		"--supersample", "2",
		"--out", file,
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := os.Open(file)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Size(); got.X != 24 || got.Y != 16 {
		t.Errorf("image size %v", got)
	}
}

func TestRenderCommand_InvalidOption(t *testing.T) {
	_, err := execute(t, "render", "--scale", "1,5", "--out", filepath.Join(t.TempDir(), "x.png"))
	if !errors.Is(err, mandel.ErrInvalidNumber) {
		t.Errorf("err = %v, want ErrInvalidNumber", err)
	}
}

func TestLandmarksCommand(t *testing.T) {
	out, err := execute(t, "landmarks")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range mandel.LandmarkNames() {
		if !strings.Contains(out, name) {
			t.Errorf("output lacks %s:\n%s", name, out)
		}
	}
}

func TestSetupLogging(t *testing.T) {
	for _, level := range []string{"", "off", "debug", "WARN"} {
		if err := setupLogging(level); err != nil {
			t.Errorf("%q: %v", level, err)
		}
	}
	if err := setupLogging("loud"); err == nil {
		t.Error("unknown level accepted")
	}
	_ = setupLogging("off")
}
