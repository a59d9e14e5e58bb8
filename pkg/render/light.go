package render

import (
	"math"

	"github.com/taigrr/cpu3d/pkg/math3d"
)

// LightKind distinguishes the two supported light types.
type LightKind int

const (
	// Directional lights shine along a fixed direction from infinitely far
	// away and cast shadows through one orthographic map.
	Directional LightKind = iota
	// Point lights shine from a position in every direction and cast
	// shadows through six perspective cube faces.
	Point
)

func (k LightKind) String() string {
	switch k {
	case Directional:
		return "directional"
	case Point:
		return "point"
	default:
		return "unknown"
	}
}

// DefaultDecay is the distance exponent of a point light.
const DefaultDecay = 3

// Light is a light source. For Directional lights, Direction points from
// the scene toward the light. Point lights fall off with distance raised to
// Decay.
type Light struct {
	Kind LightKind
	Phong
	Direction math3d.Vec3
	Position  math3d.Vec3
	Decay     float64

	maps []*ShadowMap
}

// NewDirectionalLight creates a directional light. A zero direction is
// replaced by a light shining straight down.
func NewDirectionalLight(dir math3d.Vec3, p Phong) *Light {
	d := dir.Normalize()
	if d == (math3d.Vec3{}) {
		d = math3d.Up()
	}
	return &Light{Kind: Directional, Phong: p, Direction: d}
}

// NewPointLight creates a point light with DefaultDecay.
func NewPointLight(pos math3d.Vec3, p Phong) *Light {
	return &Light{Kind: Point, Phong: p, Position: pos, Decay: DefaultDecay}
}

// Vector returns the unnormalized direction from p toward the light.
func (l *Light) Vector(p math3d.Vec3) math3d.Vec3 {
	if l.Kind == Directional {
		return l.Direction
	}
	return l.Position.Sub(p)
}

// Distance returns the length of the light vector v, or 1 for a
// directional light.
func (l *Light) Distance(v math3d.Vec3) float64 {
	if l.Kind == Directional {
		return 1
	}
	return v.Len()
}

// Attenuation returns the divisor applied to the diffuse and specular terms
// for light vector v. It never drops below 1, so surfaces close to a point
// light are not brightened.
func (l *Light) Attenuation(v math3d.Vec3) float64 {
	if l.Kind == Directional {
		return 1
	}
	return math.Max(1, math.Pow(l.Distance(v), l.Decay))
}

// Translate moves a point light. Directional lights have no position.
func (l *Light) Translate(d math3d.Vec3) {
	l.Position = l.Position.Add(d)
}

// RotateAbout turns a directional light's direction, or orbits a point
// light around pivot.
func (l *Light) RotateAbout(axis math3d.Vec3, angle float64, pivot math3d.Vec3) {
	if l.Kind == Directional {
		l.Direction = l.Direction.RotateAxis(axis, angle).Normalize()
		return
	}
	l.Position = l.Position.RotateAbout(axis, angle, pivot)
}

// ShadowMaps returns the light's maps: one for a directional light, six
// cube faces for a point light, nil before the light joins a scene.
func (l *Light) ShadowMaps() []*ShadowMap {
	return l.maps
}

// cubeFaces lists the (phi, theta) aim of each point light shadow face:
// down, up, +Y, -Y, +X, -X.
var cubeFaces = [6][2]float64{
	{math.Pi, 0},
	{0, 0},
	{math.Pi / 2, 0},
	{math.Pi / 2, math.Pi},
	{math.Pi / 2, math.Pi / 2},
	{math.Pi / 2, 3 * math.Pi / 2},
}

// allocateMaps creates the shadow maps for this light.
func (l *Light) allocateMaps(w, h int) {
	if l.Kind == Directional {
		l.maps = []*ShadowMap{newOrthoShadowMap(w, h)}
		return
	}
	l.maps = make([]*ShadowMap, len(cubeFaces))
	for i, f := range cubeFaces {
		l.maps[i] = newCubeFace(w, h, l.Position, f[0], f[1])
	}
}

// updateShadows re-renders every map of the light for the given shapes.
// extent is the half size of the directional light's view volume.
func (l *Light) updateShadows(shapes []*Shape, extent float64) {
	for _, m := range l.maps {
		switch m.kind {
		case shadowOrtho:
			m.aimOrtho(l.Direction, extent)
		case shadowPerspective:
			m.camera.Position = l.Position
			m.camera.Tick()
		}
		m.update(shapes)
	}
}

// ShadowValue reports how lit p is by this light: 1 lit, 0 occluded, -1
// when no map covers p.
func (l *Light) ShadowValue(p math3d.Vec3, mode CubeShadowMode) float64 {
	if l.Kind == Directional {
		if len(l.maps) == 0 {
			return -1
		}
		return l.maps[0].Value(p)
	}

	var faces [len(cubeFaces)]float64
	for i, m := range l.maps {
		faces[i] = m.Value(p)
	}
	return aggregateCube(faces[:len(l.maps)], mode)
}

// aggregateCube combines per-face shadow values into one.
func aggregateCube(faces []float64, mode CubeShadowMode) float64 {
	seen := false
	switch mode {
	case CubeLastVisible:
		v := 0.0
		for _, d := range faces {
			if d < 0 {
				continue
			}
			seen = true
			if d > 0 {
				v = d
			}
		}
		if !seen {
			return -1
		}
		return v
	default:
		for _, d := range faces {
			switch {
			case d == 0:
				return 0
			case d > 0:
				seen = true
			}
		}
		if !seen {
			return -1
		}
		return 1
	}
}
