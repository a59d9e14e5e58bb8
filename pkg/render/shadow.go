package render

import (
	"math"

	"github.com/taigrr/cpu3d/pkg/math3d"
)

type shadowKind int

const (
	shadowOrtho shadowKind = iota
	shadowPerspective
)

// Depth comparison bias per projection kind, in that projection's depth
// units.
const (
	orthoBias       = 0.005
	perspectiveBias = 0.05
)

// ShadowMap is a depth image rendered from a light. Directional lights use
// an orthographic projection; each point light face is a 90 degree
// perspective camera.
type ShadowMap struct {
	Width, Height int
	// Depth holds the nearest occluder per texel, +Inf where nothing was
	// drawn.
	Depth []float32

	kind   shadowKind
	camera *Camera     // perspective faces
	matrix math3d.Mat4 // orthographic maps
	bias   float64
}

func newOrthoShadowMap(w, h int) *ShadowMap {
	return &ShadowMap{
		Width:  w,
		Height: h,
		Depth:  make([]float32, w*h),
		kind:   shadowOrtho,
		matrix: math3d.Identity(),
		bias:   orthoBias,
	}
}

func newCubeFace(w, h int, pos math3d.Vec3, phi, theta float64) *ShadowMap {
	cam := &Camera{Position: pos, Phi: phi, Theta: theta, FOV: math.Pi / 2, Aim: AimLineOfSight}
	cam.Tick()
	return &ShadowMap{
		Width:  w,
		Height: h,
		Depth:  make([]float32, w*h),
		kind:   shadowPerspective,
		camera: cam,
		bias:   perspectiveBias,
	}
}

// aimOrtho places the orthographic light camera on the light side of the
// origin at distance extent, looking back at the origin, with a cube of half
// size extent as its view volume.
func (m *ShadowMap) aimOrtho(dir math3d.Vec3, extent float64) {
	eye := dir.Normalize().Scale(extent)
	proj := math3d.Orthographic(-extent, extent, -extent, extent, -extent, extent)
	m.matrix = proj.Mul(lookAlong(eye, eye.Negate()))
}

// project maps p into map pixels. Z is the comparison depth.
func (m *ShadowMap) project(p math3d.Vec3) math3d.Vec4 {
	w, h := float64(m.Width), float64(m.Height)
	if m.kind == shadowOrtho {
		return projectOrtho(m.matrix, p, w, h)
	}
	return m.camera.project(p, w, h, h)
}

func (m *ShadowMap) clear() {
	fill(m.Depth, float32(math.Inf(1)))
}

// update clears the map and rasterizes the depth of every shadow casting
// shape.
func (m *ShadowMap) update(shapes []*Shape) {
	m.clear()
	bounds := rect{0, 0, float64(m.Width), float64(m.Height)}
	for _, s := range shapes {
		if !s.Flags.CastShadow {
			continue
		}
		for vi := range s.Vertices {
			v := &s.Vertices[vi]
			v.Screen = m.project(v.Position)
		}
		for ti := range s.Triangles {
			t := &s.Triangles[ti]
			t.cacheScreen(s.Vertices)
			if t.Degenerate() {
				continue
			}
			if m.kind == shadowPerspective && !t.allPositive() {
				continue
			}
			if !t.OverlapsRect(bounds) {
				continue
			}
			m.rasterize(t)
		}
	}
}

// rasterize writes the nearest positive depth of t into every covered texel.
func (m *ShadowMap) rasterize(t *Triangle) {
	minX, minY, maxX, maxY := t.pixelBounds(0, 0, m.Width-1, m.Height-1)
	for y := minY; y <= maxY; y++ {
		row := y * m.Width
		for x := minX; x <= maxX; x++ {
			w1, w2, w3 := t.Barycentric(float64(x)+0.5, float64(y)+0.5)
			if w1 < 0 || w2 < 0 || w3 < 0 {
				continue
			}
			d := t.DepthAt(w1, w2, w3)
			if d > 0 && d < float64(m.Depth[row+x]) {
				m.Depth[row+x] = float32(d)
			}
		}
	}
}

// Value reports whether p is lit according to this map: 1 lit, 0 occluded,
// -1 when p is behind the light or, for a cube face, outside the face.
func (m *ShadowMap) Value(p math3d.Vec3) float64 {
	s := m.project(p)
	if !(s.Z > 0) {
		return -1
	}
	fx, fy := math.Floor(s.X), math.Floor(s.Y)
	if m.kind == shadowOrtho {
		// The directional map covers the whole scene; anything past its
		// edge reads the nearest edge texel.
		fx = math.Min(math.Max(fx, 0), float64(m.Width-1))
		fy = math.Min(math.Max(fy, 0), float64(m.Height-1))
	} else if fx < 0 || fy < 0 || fx >= float64(m.Width) || fy >= float64(m.Height) {
		return -1
	}
	stored := float64(m.Depth[int(fy)*m.Width+int(fx)])
	if s.Z-m.bias > stored {
		return 0
	}
	return 1
}

// Camera returns the face camera of a perspective map, nil for an
// orthographic one.
func (m *ShadowMap) Camera() *Camera {
	return m.camera
}

// sceneExtent returns four times the largest absolute coordinate over all
// shapes, or 1 for an empty or degenerate scene.
func sceneExtent(shapes []*Shape) float64 {
	if len(shapes) == 0 {
		return 1
	}
	b := shapes[0].Bounds()
	for _, s := range shapes[1:] {
		b = b.Union(s.Bounds())
	}
	e := math.Max(b.Min.MaxAbs(), b.Max.MaxAbs())
	if e == 0 {
		return 1
	}
	return 4 * e
}
