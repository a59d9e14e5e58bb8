package render

import (
	"math"
	"testing"

	"github.com/taigrr/cpu3d/pkg/math3d"
)

// shadowScene returns a scene with a 4x4 ground quad at z = 0 and, when
// occluded, a small triangle hovering above the origin at height h.
func shadowScene(t *testing.T, occluded bool, h float64) *Scene {
	t.Helper()
	sc := createTestScene(t, 16, 16)
	ground := quadMesh(
		math3d.V3(-2, -2, 0), math3d.V3(2, -2, 0),
		math3d.V3(2, 2, 0), math3d.V3(-2, 2, 0),
	)
	sc.AddShape(mustShape(t, ground, nil, nil))
	if occluded {
		blocker := triangleMesh(
			math3d.V3(-0.5, -0.5, h),
			math3d.V3(0.5, -0.5, h),
			math3d.V3(0, 0.5, h),
		)
		sc.AddShape(mustShape(t, blocker, nil, nil))
	}
	return sc
}

func TestDirectionalShadowRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		occluded bool
		castOff  bool
		want     float64
	}{
		{"no occluder", false, false, 1},
		{"occluder", true, false, 0},
		{"occluder casts no shadow", true, true, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sc := shadowScene(t, tc.occluded, 1)
			if tc.castOff {
				sc.Shapes()[1].Flags.CastShadow = false
			}
			light := NewDirectionalLight(math3d.V3(0, 0, 1), White())
			sc.AddLight(light)
			render(t, sc)

			if got := light.ShadowValue(math3d.V3(0, 0, 0), sc.Flags.CubeShadows); got != tc.want {
				t.Errorf("shadow at origin = %v, want %v", got, tc.want)
			}
			// The ground corner is never covered by the blocker.
			if got := light.ShadowValue(math3d.V3(1.5, 1.5, 0), sc.Flags.CubeShadows); got != 1 {
				t.Errorf("shadow at open ground = %v, want 1", got)
			}
		})
	}
}

func TestDirectionalShadowOutOfRange(t *testing.T) {
	sc := shadowScene(t, false, 1)
	light := NewDirectionalLight(math3d.V3(0, 0, 1), White())
	sc.AddLight(light)
	render(t, sc)

	far := math3d.V3(100, 0, 0)
	if got := light.ShadowValue(far, CubeAnyOccluded); got != 1 {
		t.Errorf("far point over an empty edge = %v, want 1", got)
	}

	// Points past the edge read the clamped edge texel.
	m := light.ShadowMaps()[0]
	fill(m.Depth, 0)
	if got := light.ShadowValue(far, CubeAnyOccluded); got != 0 {
		t.Errorf("far point over an occluded edge = %v, want 0", got)
	}
}

func TestPointShadowRoundTrip(t *testing.T) {
	for _, mode := range []CubeShadowMode{CubeAnyOccluded, CubeLastVisible} {
		t.Run(mode.String(), func(t *testing.T) {
			for _, occluded := range []bool{false, true} {
				sc := shadowScene(t, occluded, 1.5)
				sc.Flags.CubeShadows = mode
				light := NewPointLight(math3d.V3(0, 0, 3), White())
				sc.AddLight(light)
				render(t, sc)

				want := 1.0
				if occluded {
					want = 0
				}
				if got := light.ShadowValue(math3d.V3(0, 0, 0), mode); got != want {
					t.Errorf("occluded=%v: shadow = %v, want %v", occluded, got, want)
				}
			}
		})
	}
}

func TestPointShadowUnseen(t *testing.T) {
	light := NewPointLight(math3d.V3(0, 0, 0), White())
	if got := light.ShadowValue(math3d.V3(1, 1, 1), CubeAnyOccluded); got != -1 {
		t.Errorf("light without maps = %v, want -1", got)
	}
}

func TestAggregateCube(t *testing.T) {
	tests := []struct {
		name       string
		faces      []float64
		anyOccl    float64
		lastVisibl float64
	}{
		{"unseen", []float64{-1, -1, -1, -1, -1, -1}, -1, -1},
		{"lit once", []float64{-1, 1, -1, -1, -1, -1}, 1, 1},
		{"occluded once", []float64{-1, -1, 0, -1, -1, -1}, 0, 0},
		{"occluded then lit", []float64{0, 1, -1, -1, -1, -1}, 0, 1},
		{"lit then occluded", []float64{1, 0, -1, -1, -1, -1}, 0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := aggregateCube(tc.faces, CubeAnyOccluded); got != tc.anyOccl {
				t.Errorf("any-occluded = %v, want %v", got, tc.anyOccl)
			}
			if got := aggregateCube(tc.faces, CubeLastVisible); got != tc.lastVisibl {
				t.Errorf("last-visible = %v, want %v", got, tc.lastVisibl)
			}
		})
	}
}

func TestShadowMapDepthRule(t *testing.T) {
	m := newOrthoShadowMap(8, 8)
	m.clear()
	for _, d := range m.Depth {
		if !math.IsInf(float64(d), 1) {
			t.Fatalf("cleared depth = %v, want +Inf", d)
		}
	}

	tri := screenTriangle(0, 0, 8, 0, 0, 8)
	tri.p[0].Z, tri.p[1].Z, tri.p[2].Z = 0.5, 0.5, 0.5
	m.rasterize(tri)
	if d := m.Depth[0]; d != 0.5 {
		t.Errorf("depth = %v, want 0.5", d)
	}

	// Farther and non-positive depths never overwrite.
	tri.p[0].Z, tri.p[1].Z, tri.p[2].Z = 0.9, 0.9, 0.9
	m.rasterize(tri)
	tri.p[0].Z, tri.p[1].Z, tri.p[2].Z = -1, -1, -1
	m.rasterize(tri)
	if d := m.Depth[0]; d != 0.5 {
		t.Errorf("depth after farther writes = %v, want 0.5", d)
	}
	if d := m.Depth[7*8+7]; !math.IsInf(float64(d), 1) {
		t.Errorf("uncovered texel = %v, want +Inf", d)
	}
}

func TestCubeFacesCoverSphere(t *testing.T) {
	sc := createTestScene(t, 8, 8)
	light := NewPointLight(math3d.V3(1, 2, 3), White())
	sc.AddLight(light)
	light.updateShadows(nil, 1)

	dirs := []math3d.Vec3{
		math3d.V3(0, 0, -1), math3d.V3(0, 0, 1),
		math3d.V3(0, 1, 0), math3d.V3(0, -1, 0),
		math3d.V3(1, 0, 0), math3d.V3(-1, 0, 0),
		math3d.V3(0.3, 0.2, -1), math3d.V3(-0.4, 0.9, 0.1),
	}
	for _, d := range dirs {
		p := light.Position.Add(d.Scale(5))
		// Nothing was drawn, so every covered point is lit.
		if got := light.ShadowValue(p, CubeAnyOccluded); got != 1 {
			t.Errorf("direction %v: shadow = %v, want 1", d, got)
		}
	}
}

func TestSceneExtent(t *testing.T) {
	if e := sceneExtent(nil); e != 1 {
		t.Errorf("empty extent = %v, want 1", e)
	}
	s := mustShape(t, facingTriangle(0), nil, nil)
	s.Translate(math3d.V3(0, 0, 2))
	if e := sceneExtent([]*Shape{s}); e != 12 {
		t.Errorf("extent = %v, want 12", e)
	}

	// The largest coordinate can come from different shapes on each side.
	far := mustShape(t, facingTriangle(-5), nil, nil)
	if e := sceneExtent([]*Shape{s, far}); e != 20 {
		t.Errorf("extent of two shapes = %v, want 20", e)
	}
}
