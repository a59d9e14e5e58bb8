package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/cpu3d/pkg/math3d"
	"github.com/taigrr/cpu3d/pkg/models"
	"github.com/taigrr/cpu3d/pkg/render"
)

func TestRenderToFile(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "tri.obj")
	obj := "v -1 0 0\nv 1 0 0\nv 0 2 0\nf 1 2 3\n"
	if err := os.WriteFile(objPath, []byte(obj), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"demo", nil},
		{"demo without extras", []string{"--no-shadows", "--no-gamma", "--wireframe", "--show-lights"}},
		{"model", []string{objPath, "--no-cull"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "frame.png")
			cmd := newRootCmd()
			cmd.SetArgs(append([]string{
				"--output", out,
				"--width", "48", "--height", "32",
				"--shadow-size", "64",
				"--tiles-x", "2", "--tiles-y", "2",
			}, tc.args...))
			if err := cmd.Execute(); err != nil {
				t.Fatalf("execute: %v", err)
			}

			tex, err := render.LoadTexture(out)
			if err != nil {
				t.Fatalf("read frame: %v", err)
			}
			if tex.Width != 48 || tex.Height != 32 {
				t.Errorf("frame size = %dx%d, want 48x32", tex.Width, tex.Height)
			}
		})
	}
}

func TestRenderToFileErrors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")
	tests := []struct {
		name string
		args []string
	}{
		{"unsupported format", []string{"model.stl"}},
		{"missing model", []string{"missing.obj"}},
		{"bad size", []string{"--width", "0"}},
		{"too many args", []string{"a.obj", "b.obj"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SilenceErrors = true
			cmd.SetArgs(append([]string{"--output", out, "--shadow-size", "16"}, tc.args...))
			if err := cmd.Execute(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"default", false, false},
		{"verbose", true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := newLogger(&buf, tc.verbose)
			log.Info("frame written", "path", "out.png")
			log.Debug("frame", "triangles", 12)

			out := buf.String()
			if !strings.Contains(out, "frame written") {
				t.Errorf("info record missing: %q", out)
			}
			if got := strings.Contains(out, "triangles=12"); got != tc.wantDebug {
				t.Errorf("debug record logged = %v, want %v", got, tc.wantDebug)
			}
		})
	}
}

func TestConfigFlags(t *testing.T) {
	cfg := &config{gamma: 1.8, noShadows: true, wireframe: true}
	f := cfg.flags()
	if f.Shadows || !f.Wireframe || !f.GammaCorrection || f.Gamma != 1.8 || !f.BackfaceCulling {
		t.Errorf("flags = %+v", f)
	}
}

func TestViewerOptions(t *testing.T) {
	cfg := &config{width: 1, height: 1, scale: 1, tilesX: 3, tilesY: 3, shadowSize: 32}
	tests := []struct {
		cols, rows     int
		w, h           int
		tilesX, tilesY int
	}{
		{80, 24, 80, 48, 3, 3},
		{2, 1, 2, 2, 2, 2},
		{0, 0, 1, 2, 1, 2},
	}
	for _, tc := range tests {
		opts := viewerOptions(cfg, tc.cols, tc.rows)
		if opts.Width != tc.w || opts.Height != tc.h || opts.TilesAcross != tc.tilesX || opts.TilesUp != tc.tilesY {
			t.Errorf("%dx%d: got %dx%d tiles %dx%d", tc.cols, tc.rows,
				opts.Width, opts.Height, opts.TilesAcross, opts.TilesUp)
		}
		sc, err := render.NewScene(opts)
		if err != nil {
			t.Errorf("%dx%d: %v", tc.cols, tc.rows, err)
			continue
		}
		sc.Close()
	}
}

func TestFitMesh(t *testing.T) {
	// A Y-up box 2 wide, 4 tall and 1 deep, off center.
	mesh := models.NewCube(1)
	mesh.Transform(math3d.Translate(math3d.V3(5, 5, 5)).Mul(math3d.Scale(math3d.V3(2, 4, 1))))
	fitMesh(mesh)

	size := mesh.Size()
	if math.Abs(size.Z-modelSize) > 1e-9 {
		t.Errorf("height = %v, want %v", size.Z, modelSize)
	}
	if math.Abs(mesh.BoundsMin.Z) > 1e-9 {
		t.Errorf("model floats at z = %v", mesh.BoundsMin.Z)
	}
	c := mesh.Center()
	if math.Abs(c.X) > 1e-9 || math.Abs(c.Y) > 1e-9 {
		t.Errorf("center = %v, want on the z axis", c)
	}
}
