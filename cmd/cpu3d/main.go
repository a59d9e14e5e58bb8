// cpu3d renders 3D scenes on the CPU, either to a PNG or interactively in
// the terminal.
//
// Controls:
//
//	W/S         - Look up/down
//	A/D         - Turn left/right
//	Arrows      - Move forward/back, strafe
//	Space       - Rise (shift+space sinks)
//	C           - Toggle backface culling
//	G           - Toggle gamma correction
//	H           - Toggle shadows
//	L           - Toggle lighting
//	X           - Toggle wireframe
//	I           - Toggle light markers
//	?           - Toggle the stats overlay
//	Q/Esc       - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/cpu3d/pkg/render"
)

var version = "dev"

// config collects every command line setting.
type config struct {
	width, height int
	scale         float64
	tilesX        int
	tilesY        int
	shadowSize    int

	gamma      float64
	noGamma    bool
	noShadows  bool
	noLighting bool
	noCull     bool
	wireframe  bool
	showLights bool

	texture string
	output  string
	verbose bool
	fps     int
}

// options maps the configuration onto scene construction parameters. The
// viewer overrides the size with the terminal's.
func (c *config) options() render.Options {
	opts := render.DefaultOptions()
	opts.Width, opts.Height = c.width, c.height
	opts.ScaleAcross, opts.ScaleUp = c.scale, c.scale
	opts.TilesAcross, opts.TilesUp = c.tilesX, c.tilesY
	opts.ShadowWidth, opts.ShadowHeight = c.shadowSize, c.shadowSize
	return opts
}

func (c *config) flags() render.Flags {
	f := render.DefaultFlags()
	f.Gamma = c.gamma
	f.GammaCorrection = !c.noGamma
	f.Shadows = !c.noShadows
	f.Lighting = !c.noLighting
	f.BackfaceCulling = !c.noCull
	f.Wireframe = c.wireframe
	f.ShowLights = c.showLights
	return f
}

func newRootCmd() *cobra.Command {
	cfg := &config{}
	cmd := &cobra.Command{
		Use:   "cpu3d [model.obj|model.glb|model.gltf]",
		Short: "Software 3D renderer with shadows and Phong lighting",
		Long: "cpu3d rasterizes a scene on the CPU. Without a model it shows a demo scene.\n" +
			"With --output it writes one frame as PNG, otherwise it opens a terminal viewer.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cfg.verbose)
			model := ""
			if len(args) == 1 {
				model = args[0]
			}
			if cfg.output != "" {
				return renderToFile(cfg, model)
			}
			return runViewer(cmd.Context(), cfg, model)
		},
	}

	def := render.DefaultOptions()
	f := cmd.Flags()
	f.IntVar(&cfg.width, "width", def.Width, "output width in pixels (--output only)")
	f.IntVar(&cfg.height, "height", def.Height, "output height in pixels (--output only)")
	f.Float64Var(&cfg.scale, "scale", 1, "internal resolution multiplier")
	f.IntVar(&cfg.tilesX, "tiles-x", def.TilesAcross, "tile columns (one worker each)")
	f.IntVar(&cfg.tilesY, "tiles-y", def.TilesUp, "tile rows (one worker each)")
	f.IntVar(&cfg.shadowSize, "shadow-size", def.ShadowWidth, "shadow map resolution")
	f.Float64Var(&cfg.gamma, "gamma", render.DefaultFlags().Gamma, "gamma exponent")
	f.BoolVar(&cfg.noGamma, "no-gamma", false, "disable gamma correction")
	f.BoolVar(&cfg.noShadows, "no-shadows", false, "disable shadow mapping")
	f.BoolVar(&cfg.noLighting, "no-lighting", false, "disable lighting")
	f.BoolVar(&cfg.noCull, "no-cull", false, "disable backface culling")
	f.BoolVar(&cfg.wireframe, "wireframe", false, "draw triangle edges")
	f.BoolVar(&cfg.showLights, "show-lights", false, "mark point lights")
	f.StringVar(&cfg.texture, "texture", "", "texture image for the model (PNG/JPEG/BMP)")
	f.StringVarP(&cfg.output, "output", "o", "", "render one frame to this PNG file and exit")
	f.BoolVarP(&cfg.verbose, "verbose", "v", false, "log per-frame timings")
	f.IntVar(&cfg.fps, "fps", 30, "viewer frame rate")

	return cmd
}

// setupLogging sends renderer logs to stderr.
func setupLogging(verbose bool) {
	render.SetLogger(newLogger(os.Stderr, verbose))
}

// newLogger logs at Info, or at Debug with verbose set. The renderer only
// logs per-frame detail at Debug, so the viewer stays readable by default.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// renderToFile renders a single frame and saves it as PNG.
func renderToFile(cfg *config, model string) error {
	sc, err := newScene(cfg, cfg.options(), model)
	if err != nil {
		return err
	}
	defer sc.Close()

	img, err := sc.Render()
	if err != nil {
		return err
	}
	if err := render.SavePNG(cfg.output, img); err != nil {
		return fmt.Errorf("save frame: %w", err)
	}
	render.Logger().Info("frame written", "path", cfg.output, "triangles", sc.Stats().Triangles,
		"duration", sc.Stats().Duration)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version))
	stop()
	if err != nil {
		os.Exit(1)
	}
}
