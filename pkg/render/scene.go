package render

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/taigrr/cpu3d/pkg/math3d"
	xdraw "golang.org/x/image/draw"
)

// triRef addresses one triangle of one shape in a scene.
type triRef struct {
	shape, tri int
}

// FrameStats describes the most recent frame.
type FrameStats struct {
	Triangles int // triangles handed to the tile workers
	Lights    int
	Duration  time.Duration
}

// Scene owns the shapes, lights and camera of a world and renders it.
// A scene is not safe for concurrent use; Render parallelizes internally.
type Scene struct {
	// Flags may be changed between frames.
	Flags Flags

	opts   Options
	camera *Camera
	shapes []*Shape
	lights []*Light

	fb    *Framebuffer
	sched *tileScheduler
	batch []triRef
	stats FrameStats

	closed bool
}

// NewScene validates opts and starts one worker per tile. The camera starts
// ten units behind the origin on -Y, one unit up, looking along +Y with a
// 90 degree field of view.
func NewScene(opts Options) (*Scene, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	w, h := opts.RenderSize()

	sc := &Scene{
		Flags:  DefaultFlags(),
		opts:   opts,
		camera: NewCamera(math3d.V3(0, -10, 1), math.Pi/2, 0, math.Pi/2),
		fb:     NewFramebuffer(w, h),
	}
	tiles := partitionTiles(w, h, opts.TilesAcross, opts.TilesUp)
	sc.sched = newTileScheduler(tiles, sc.rasterizeTile)

	Logger().Debug("scene created",
		"width", opts.Width, "height", opts.Height,
		"renderWidth", w, "renderHeight", h,
		"tiles", len(tiles))
	return sc, nil
}

// AddShape adds s to the scene. Shapes are drawn in insertion order.
func (sc *Scene) AddShape(s *Shape) {
	sc.shapes = append(sc.shapes, s)
}

// AddLight adds l to the scene and allocates its shadow maps.
func (sc *Scene) AddLight(l *Light) {
	l.allocateMaps(sc.opts.ShadowWidth, sc.opts.ShadowHeight)
	sc.lights = append(sc.lights, l)
}

// Shapes returns the scene's shapes.
func (sc *Scene) Shapes() []*Shape { return sc.shapes }

// Lights returns the scene's lights.
func (sc *Scene) Lights() []*Light { return sc.lights }

// Camera returns the scene camera. Changes take effect on the next Render.
func (sc *Scene) Camera() *Camera { return sc.camera }

// Options returns the construction options.
func (sc *Scene) Options() Options { return sc.opts }

// Stats returns statistics for the last rendered frame.
func (sc *Scene) Stats() FrameStats { return sc.stats }

// Framebuffer returns the internal render-resolution buffer.
func (sc *Scene) Framebuffer() *Framebuffer { return sc.fb }

// Depth returns the render-resolution depth plane of the last frame.
func (sc *Scene) Depth() []float64 { return sc.fb.Depth }

// Render draws one frame and returns it at the output resolution.
func (sc *Scene) Render() (*image.RGBA, error) {
	if sc.closed {
		return nil, ErrSceneClosed
	}
	start := time.Now()

	sc.camera.Tick()
	if sc.Flags.Shadows {
		sc.updateShadows()
	}
	batch := sc.projectMain()
	sc.fb.Reset(sc.opts.Background)

	job := &frameJob{
		batch: batch,
		flags: sc.Flags,
		wire:  toneMap(sc.Flags.WireframeColor, math3d.One(), &sc.Flags),
	}
	if err := sc.sched.run(job); err != nil {
		Logger().Error("frame aborted", "err", err)
		return nil, fmt.Errorf("render frame: %w", err)
	}

	if sc.Flags.ShowLights {
		sc.drawLightMarkers()
	}
	img := sc.output()

	sc.stats = FrameStats{
		Triangles: len(batch),
		Lights:    len(sc.lights),
		Duration:  time.Since(start),
	}
	Logger().Debug("frame rendered",
		"triangles", sc.stats.Triangles,
		"duration", sc.stats.Duration)
	return img, nil
}

// updateShadows re-renders every light's shadow maps on the calling
// goroutine.
func (sc *Scene) updateShadows() {
	if len(sc.lights) == 0 {
		return
	}
	extent := sceneExtent(sc.shapes)
	for _, l := range sc.lights {
		l.updateShadows(sc.shapes, extent)
		Logger().Debug("shadow maps updated",
			"light", l.Kind.String(),
			"maps", len(l.maps),
			"extent", extent)
	}
}

// output converts the framebuffer to the output resolution.
func (sc *Scene) output() *image.RGBA {
	src := sc.fb.ToImage()
	if sc.fb.Width == sc.opts.Width && sc.fb.Height == sc.opts.Height {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, sc.opts.Width, sc.opts.Height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// Close stops the tile workers. The scene cannot render afterwards.
func (sc *Scene) Close() {
	if sc.closed {
		return
	}
	sc.closed = true
	sc.sched.close()
}
