package render

import "math"

// wireframeWidth is the barycentric distance from an edge that still counts
// as part of the edge in wireframe mode.
const wireframeWidth = 0.025

// rasterizeTile draws every batched triangle that touches t, in batch order.
// Only pixels inside t are written, so tiles can run concurrently.
func (sc *Scene) rasterizeTile(t tile, job *frameJob) {
	area := t.bounds()
	for _, ref := range job.batch {
		s := sc.shapes[ref.shape]
		tri := &s.Triangles[ref.tri]
		if !tri.OverlapsRect(area) {
			continue
		}
		sc.rasterizeTriangle(s, tri, t, job)
	}
}

// rasterizeTriangle scan converts one triangle inside tile t. Pixel centers
// sit at (x+0.5, y+0.5). Attributes are interpolated linearly in screen
// space.
func (sc *Scene) rasterizeTriangle(s *Shape, tri *Triangle, t tile, job *frameJob) {
	fb := sc.fb
	flags := &job.flags
	eye := sc.camera.Position

	minX, minY, maxX, maxY := tri.pixelBounds(t.minX, t.minY, t.maxX, t.maxY)
	for y := minY; y <= maxY; y++ {
		row := y * fb.Width
		for x := minX; x <= maxX; x++ {
			w1, w2, w3 := tri.Barycentric(float64(x)+0.5, float64(y)+0.5)
			if w1 < 0 || w2 < 0 || w3 < 0 || math.IsNaN(w1+w2) {
				continue
			}
			i := row + x

			if flags.Wireframe {
				if w1 <= wireframeWidth || w2 <= wireframeWidth || w3 <= wireframeWidth {
					fb.Pixels[i] = job.wire
				}
				continue
			}

			z := tri.DepthAt(w1, w2, w3)
			if !(z > 0 && z < fb.Depth[i]) {
				continue
			}
			fb.Depth[i] = z

			uv := tri.UVFromBary(w1, w2, w3)
			texel := s.Texture.Sample(uv.X, uv.Y)
			p := s.PointFromBary(tri, w1, w2, w3)
			n := tri.NormalFromBary(w1, w2, w3)
			fb.Pixels[i] = toneMap(texel, shade(p, n, eye, s, sc.lights, flags), flags)
		}
	}
}

// pixelBounds returns the inclusive pixel range of the triangle's screen
// bounding box clipped to [x0, x1] x [y0, y1]. The range is empty
// (min > max) when they do not meet.
func (t *Triangle) pixelBounds(x0, y0, x1, y1 int) (minX, minY, maxX, maxY int) {
	lx := math.Max(math.Floor(min3(t.p[0].X, t.p[1].X, t.p[2].X)), float64(x0))
	ly := math.Max(math.Floor(min3(t.p[0].Y, t.p[1].Y, t.p[2].Y)), float64(y0))
	hx := math.Min(math.Floor(max3(t.p[0].X, t.p[1].X, t.p[2].X)), float64(x1))
	hy := math.Min(math.Floor(max3(t.p[0].Y, t.p[1].Y, t.p[2].Y)), float64(y1))
	if !(lx <= hx && ly <= hy) {
		return x0, y0, x0 - 1, y0 - 1
	}
	return int(lx), int(ly), int(hx), int(hy)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
