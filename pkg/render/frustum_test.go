package render

import (
	"math"
	"testing"

	"github.com/taigrr/cpu3d/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	// Plane at Z=0, normal pointing +Z
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"above", math3d.V3(0, 0, 5), 5},
		{"below", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if l := plane.Normal.Len(); math.Abs(l-1) > 1e-9 {
		t.Errorf("normalized normal length = %v, want 1", l)
	}
	if math.Abs(plane.Normal.Y-0.6) > 1e-9 || math.Abs(plane.Normal.Z-0.8) > 1e-9 {
		t.Errorf("normal = %v, want (0, 0.6, 0.8)", plane.Normal)
	}
	if math.Abs(plane.D-2) > 1e-9 {
		t.Errorf("D = %v, want 2", plane.D)
	}

	zero := Plane{D: 3}
	zero.Normalize()
	if zero.D != 3 {
		t.Errorf("zero plane D changed to %v", zero.D)
	}
}

func TestAABBUnion(t *testing.T) {
	box := AABB{Min: math3d.V3(-1, -2, -3), Max: math3d.V3(1, 2, 3)}

	u := box.Union(AABB{Min: math3d.V3(0, 0, 0), Max: math3d.V3(5, 1, 1)})
	if u.Min != box.Min || u.Max != math3d.V3(5, 2, 3) {
		t.Errorf("union = %v", u)
	}
}

func TestFrustumFromPerspective(t *testing.T) {
	proj := math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100)
	frustum := NewFrustumFromMatrix(proj)

	for i, plane := range frustum.Planes {
		if l := plane.Normal.Len(); math.Abs(l-1) > 1e-6 {
			t.Errorf("plane %d normal length = %v, want 1", i, l)
		}
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	proj := math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100)
	frustum := NewFrustumFromMatrix(proj)

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center near", math3d.V3(0, 0, -1), true},
		{"center mid", math3d.V3(0, 0, -50), true},
		{"center far", math3d.V3(0, 0, -99), true},
		{"behind camera", math3d.V3(0, 0, 1), false},
		{"too far", math3d.V3(0, 0, -200), false},
		{"too close", math3d.V3(0, 0, -0.01), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	proj := math3d.Perspective(math.Pi/3, 16.0/9.0, 1, 100)
	frustum := NewFrustumFromMatrix(proj)

	box := func(min, max math3d.Vec3) AABB { return AABB{Min: min, Max: max} }
	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{"fully inside", box(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)), true},
		{"crosses near plane", box(math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2)), true},
		{"behind camera", box(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10)), false},
		{"beyond far plane", box(math3d.V3(-1, -1, -150), math3d.V3(1, 1, -120)), false},
		{"far to the right", box(math3d.V3(100, -1, -10), math3d.V3(110, 1, -5)), false},
		{"contains frustum", box(math3d.V3(-200, -200, -200), math3d.V3(200, 200, 200)), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.IntersectAABB(tc.box); got != tc.expected {
				t.Errorf("IntersectAABB(%v) = %v, want %v", tc.box, got, tc.expected)
			}
		})
	}
}

func TestCameraFrustum(t *testing.T) {
	// Looking along +Y from the origin with a 90 degree horizontal FOV.
	cam := NewCamera(math3d.V3(0, 0, 0), math.Pi/2, 0, math.Pi/2)
	frustum := cam.Frustum(1)

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"ahead", math3d.V3(0, 5, 0), true},
		{"behind", math3d.V3(0, -5, 0), false},
		{"inside right edge", math3d.V3(4, 5, 0), true},
		{"past right edge", math3d.V3(6, 5, 0), false},
		{"inside top edge", math3d.V3(0, 5, 4), true},
		{"past top edge", math3d.V3(0, 5, 6), false},
		{"past bottom edge", math3d.V3(0, 5, -6), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestCameraFrustumMatchesProjection(t *testing.T) {
	const w, h = 64, 48
	cam := NewCamera(math3d.V3(1, -4, 2), math.Pi*0.55, 0.3, math.Pi/3)
	frustum := cam.Frustum(float64(w) / h)

	checked := 0
	for x := -10.0; x <= 10; x += 0.7 {
		for y := -10.0; y <= 10; y += 0.7 {
			for z := -5.0; z <= 5; z += 0.9 {
				p := math3d.V3(x, y, z)
				s := cam.Project(p, w, h)
				// Skip points too close to an edge for the comparison to be
				// meaningful.
				if math.Abs(s.X) < 1e-3 || math.Abs(s.X-w) < 1e-3 ||
					math.Abs(s.Y) < 1e-3 || math.Abs(s.Y-h) < 1e-3 || math.Abs(s.Z) < 1e-3 {
					continue
				}
				onScreen := s.Z > 0 && s.X > 0 && s.X < w && s.Y > 0 && s.Y < h
				if got := frustum.ContainsPoint(p); got != onScreen {
					t.Fatalf("point %v: frustum %v, projection %v (screen %v)", p, got, onScreen, s)
				}
				checked++
			}
		}
	}
	if checked == 0 {
		t.Fatal("no points checked")
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	frustum := NewFrustumFromMatrix(math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 1000))
	box := AABB{Min: math3d.V3(-1, -1, -10), Max: math3d.V3(1, 1, -5)}

	for b.Loop() {
		_ = frustum.IntersectAABB(box)
	}
}

func BenchmarkCameraFrustum(b *testing.B) {
	cam := NewCamera(math3d.V3(0, -10, 2), math.Pi/2, 0, math.Pi/2)

	for b.Loop() {
		_ = cam.Frustum(4.0 / 3.0)
	}
}
