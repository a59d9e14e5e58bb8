package render

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOptions is returned by NewScene for unusable construction
	// parameters.
	ErrInvalidOptions = errors.New("invalid scene options")
	// ErrSceneClosed is returned when rendering a scene after Close.
	ErrSceneClosed = errors.New("scene closed")
	// ErrEmptyMesh is returned when building a shape from a mesh with no
	// triangles.
	ErrEmptyMesh = errors.New("mesh has no triangles")
)

// Options are fixed when the scene is constructed.
type Options struct {
	Width  int // output image width
	Height int // output image height

	// Internal resolution multipliers. The frame is rasterized at
	// Width*ScaleAcross x Height*ScaleUp and resampled to the output size.
	ScaleAcross float64
	ScaleUp     float64

	ShadowWidth  int
	ShadowHeight int

	// Tile grid. One worker is started per tile.
	TilesAcross int
	TilesUp     int

	Background Color
}

// DefaultOptions returns a 640x480 frame, 2048x2048 shadow maps and a 3x3
// tile grid.
func DefaultOptions() Options {
	return Options{
		Width:        640,
		Height:       480,
		ScaleAcross:  1,
		ScaleUp:      1,
		ShadowWidth:  2048,
		ShadowHeight: 2048,
		TilesAcross:  3,
		TilesUp:      3,
		Background:   DefaultBackground,
	}
}

// RenderSize returns the internal rasterization resolution.
func (o Options) RenderSize() (w, h int) {
	w = int(float64(o.Width) * o.ScaleAcross)
	h = int(float64(o.Height) * o.ScaleUp)
	return max(w, 1), max(h, 1)
}

func (o Options) validate() error {
	switch {
	case o.Width <= 0 || o.Height <= 0:
		return fmt.Errorf("%w: output size %dx%d", ErrInvalidOptions, o.Width, o.Height)
	case o.ScaleAcross <= 0 || o.ScaleUp <= 0:
		return fmt.Errorf("%w: resolution multipliers %v, %v", ErrInvalidOptions, o.ScaleAcross, o.ScaleUp)
	case o.ShadowWidth <= 0 || o.ShadowHeight <= 0:
		return fmt.Errorf("%w: shadow map size %dx%d", ErrInvalidOptions, o.ShadowWidth, o.ShadowHeight)
	case o.TilesAcross <= 0 || o.TilesUp <= 0:
		return fmt.Errorf("%w: tile grid %dx%d", ErrInvalidOptions, o.TilesAcross, o.TilesUp)
	}
	w, h := o.RenderSize()
	if o.TilesAcross > w || o.TilesUp > h {
		return fmt.Errorf("%w: tile grid %dx%d exceeds render size %dx%d",
			ErrInvalidOptions, o.TilesAcross, o.TilesUp, w, h)
	}
	return nil
}

// CubeShadowMode selects how the six faces of a point light's cube map are
// combined into one shadow value.
type CubeShadowMode int

const (
	// CubeAnyOccluded reports a point as shadowed if any face that can see
	// it finds an occluder.
	CubeAnyOccluded CubeShadowMode = iota
	// CubeLastVisible keeps the value of the last face that reports the
	// point lit, starting from occluded.
	CubeLastVisible
)

func (m CubeShadowMode) String() string {
	switch m {
	case CubeAnyOccluded:
		return "any-occluded"
	case CubeLastVisible:
		return "last-visible"
	default:
		return fmt.Sprintf("CubeShadowMode(%d)", int(m))
	}
}

// Flags may be changed freely between frames.
type Flags struct {
	BackfaceCulling bool
	GammaCorrection bool
	Gamma           float64
	Shadows         bool
	Lighting        bool
	Wireframe       bool
	WireframeColor  Color
	ShowLights      bool
	CubeShadows     CubeShadowMode
}

// DefaultFlags enables culling, gamma 2.2, shadows and lighting.
func DefaultFlags() Flags {
	return Flags{
		BackfaceCulling: true,
		GammaCorrection: true,
		Gamma:           2.2,
		Shadows:         true,
		Lighting:        true,
		WireframeColor:  ColorGreen,
		CubeShadows:     CubeAnyOccluded,
	}
}

// ShapeFlags control how a single shape takes part in a frame.
type ShapeFlags struct {
	ReceiveLighting bool
	CastShadow      bool
	Visible         bool
}

// DefaultShapeFlags turns every capability on.
func DefaultShapeFlags() ShapeFlags {
	return ShapeFlags{ReceiveLighting: true, CastShadow: true, Visible: true}
}
