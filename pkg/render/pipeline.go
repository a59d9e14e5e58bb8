package render

import (
	"math"

	"github.com/taigrr/cpu3d/pkg/math3d"
)

// depthEpsilon guards the perspective divide for points on the camera plane.
const depthEpsilon = 1e-9

// project runs p through the perspective path of c and maps it onto a
// w x h target. The field of view spans the full width; yScale is the pixel
// extent of one unit of projected y (the width for the main screen so that
// pixels stay square, the height for shadow faces).
//
// The result is (x, y, depth, divisor). Depth is the distance along the
// line of sight and is negative behind the camera.
func (c *Camera) project(p math3d.Vec3, w, h, yScale float64) math3d.Vec4 {
	rel := c.view.MulVec4(math3d.V4FromV3(p, 1)).SwapXY()

	depth := -rel.Z
	div := depth
	if math.Abs(div) < depthEpsilon {
		div = 1
	}
	x := rel.X / div * c.focal
	y := rel.Y / div * c.focal

	return math3d.V4(w/2+x*w/2, h/2-y*yScale/2, depth, div)
}

// Project maps a world point onto a w x h screen with square pixels.
func (c *Camera) Project(p math3d.Vec3, w, h int) math3d.Vec4 {
	return c.project(p, float64(w), float64(h), float64(w))
}

// projectOrtho maps p through an orthographic light matrix. NDC x and y
// in [-0.5, 0.5] span the target; depth is NDC z with no divide.
func projectOrtho(m math3d.Mat4, p math3d.Vec3, w, h float64) math3d.Vec4 {
	c := m.MulVec4(math3d.V4FromV3(p, 1))
	return math3d.V4((0.5+c.X)*w, (0.5-c.Y)*h, c.Z, 1)
}

// allPositive reports whether every cached corner lies in front of the
// camera.
func (t *Triangle) allPositive() bool {
	return t.p[0].Z > 0 && t.p[1].Z > 0 && t.p[2].Z > 0
}

// projectMain projects every visible shape through the scene camera and
// returns the triangles that should be rasterized this frame, in shape then
// triangle order.
func (sc *Scene) projectMain() []triRef {
	w, h := float64(sc.fb.Width), float64(sc.fb.Height)
	frustum := sc.camera.Frustum(w / h)
	screen := rect{0, 0, w, h}

	batch := sc.batch[:0]
	for si, s := range sc.shapes {
		if !s.Flags.Visible || !frustum.IntersectAABB(s.Bounds()) {
			continue
		}
		for vi := range s.Vertices {
			v := &s.Vertices[vi]
			v.Screen = sc.camera.project(v.Position, w, h, w)
		}
		for ti := range s.Triangles {
			t := &s.Triangles[ti]
			t.cacheScreen(s.Vertices)
			switch {
			case !t.allPositive(), t.Degenerate():
				continue
			case !t.OverlapsRect(screen):
				continue
			case sc.Flags.BackfaceCulling && !t.FacingViewer():
				continue
			}
			batch = append(batch, triRef{shape: si, tri: ti})
		}
	}
	sc.batch = batch
	return batch
}
