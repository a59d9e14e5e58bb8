package render

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/cpu3d/pkg/math3d"
)

func TestNewSceneValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		ok     bool
	}{
		{"defaults", func(*Options) {}, true},
		{"zero width", func(o *Options) { o.Width = 0 }, false},
		{"negative height", func(o *Options) { o.Height = -1 }, false},
		{"zero scale", func(o *Options) { o.ScaleUp = 0 }, false},
		{"zero shadow map", func(o *Options) { o.ShadowWidth = 0 }, false},
		{"zero tiles", func(o *Options) { o.TilesAcross = 0 }, false},
		{"too many tiles", func(o *Options) { o.Width, o.Height, o.TilesUp = 8, 4, 5 }, false},
		{"uneven tiles", func(o *Options) { o.Width, o.Height, o.TilesAcross, o.TilesUp = 101, 37, 7, 5 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.ShadowWidth, opts.ShadowHeight = 16, 16
			tc.modify(&opts)

			sc, err := NewScene(opts)
			if tc.ok {
				if err != nil {
					t.Fatalf("NewScene: %v", err)
				}
				sc.Close()
				return
			}
			if !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("err = %v, want ErrInvalidOptions", err)
			}
		})
	}
}

func TestSceneClosed(t *testing.T) {
	sc, err := NewScene(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	sc.Close()
	sc.Close()

	if _, err := sc.Render(); !errors.Is(err, ErrSceneClosed) {
		t.Errorf("Render after Close: err = %v, want ErrSceneClosed", err)
	}
}

func TestSceneLights(t *testing.T) {
	sc := createTestScene(t, 16, 16)
	dir := NewDirectionalLight(math3d.V3(0, 0, 1), White())
	pt := NewPointLight(math3d.V3(0, 0, 1), White())
	sc.AddLight(dir)
	sc.AddLight(pt)

	if n := len(dir.ShadowMaps()); n != 1 {
		t.Errorf("directional maps = %d, want 1", n)
	}
	if n := len(pt.ShadowMaps()); n != 6 {
		t.Errorf("point maps = %d, want 6", n)
	}
	for _, m := range pt.ShadowMaps() {
		if m.Width != 256 || m.Height != 256 || len(m.Depth) != 256*256 {
			t.Fatalf("map size %dx%d", m.Width, m.Height)
		}
		if m.Camera() == nil || m.Camera().FOV != math.Pi/2 {
			t.Fatal("cube face needs a 90 degree camera")
		}
	}
	if len(sc.Lights()) != 2 {
		t.Errorf("lights = %d, want 2", len(sc.Lights()))
	}
}

func TestSceneLogsFrames(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	sc := createTestScene(t, 16, 16)
	render(t, sc)

	out := buf.String()
	for _, want := range []string{"scene created", "frame rendered"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestFramebuffer(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fb.Reset(ColorGray)

	if got := fb.GetPixel(3, 2); got != ColorGray {
		t.Errorf("pixel = %v, want gray", got)
	}
	if d := fb.DepthAt(1, 1); !math.IsInf(d, 1) {
		t.Errorf("depth = %v, want +Inf", d)
	}

	fb.SetPixel(-1, 0, ColorRed)
	fb.SetPixel(4, 0, ColorRed)
	if got := fb.GetPixel(-1, 0); got != (Color{}) {
		t.Errorf("out of range GetPixel = %v", got)
	}

	fb.DrawLine(0, 0, 3, 0, ColorRed)
	for x := range 4 {
		if fb.GetPixel(x, 0) != ColorRed {
			t.Errorf("line pixel %d not drawn", x)
		}
	}
	fb.DrawRect(1, 1, 2, 2, ColorGreen)
	if fb.GetPixel(2, 2) != ColorGreen || fb.GetPixel(0, 1) != ColorGray {
		t.Error("rect drawn incorrectly")
	}

	img := fb.ToImage()
	if img.RGBAAt(2, 2) != ColorGreen {
		t.Errorf("image pixel = %v, want green", img.RGBAAt(2, 2))
	}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	tex, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex.Width != 4 || tex.Height != 3 {
		t.Errorf("round trip size %dx%d", tex.Width, tex.Height)
	}
}

func TestDrawText(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	DrawText(img, 1, TextHeight(), "42", ColorWhite)

	lit := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 255 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("no text pixels drawn")
	}
}

func TestTerminalFrame(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 4))
	img.SetRGBA(0, 0, ColorRed)
	img.SetRGBA(0, 1, ColorGreen)
	img.SetRGBA(1, 2, ColorWhite)
	img.SetRGBA(1, 3, ColorBlack)

	scr := uv.NewScreenBuffer(2, 2)
	TerminalFrame{Image: img}.Draw(scr, scr.Bounds())

	tests := []struct {
		x, y   int
		fg, bg Color
	}{
		{0, 0, ColorRed, ColorGreen},
		{1, 1, ColorWhite, ColorBlack},
	}
	for _, tc := range tests {
		c := scr.CellAt(tc.x, tc.y)
		if c == nil || c.Content != "▀" {
			t.Fatalf("cell (%d, %d) = %+v, want half block", tc.x, tc.y, c)
		}
		if c.Style.Fg != tc.fg || c.Style.Bg != tc.bg {
			t.Errorf("cell (%d, %d) colors = %v/%v, want %v/%v", tc.x, tc.y, c.Style.Fg, c.Style.Bg, tc.fg, tc.bg)
		}
	}
	// Transparent pixels leave the terminal default.
	if c := scr.CellAt(1, 0); c.Style.Fg != nil {
		t.Errorf("transparent pixel has foreground %v", c.Style.Fg)
	}
}
