package render

import (
	"fmt"
	"math"

	"github.com/taigrr/cpu3d/pkg/math3d"
)

// MeshSource supplies indexed triangle geometry to NewShape.
type MeshSource interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// Vertex is a shared corner position. Screen caches the most recent
// projection as (x, y, depth, divisor) and is only meaningful after the
// pipeline has run for the camera being rasterized.
type Vertex struct {
	Position  math3d.Vec3
	Screen    math3d.Vec4
	Triangles []int // indices of the triangles using this vertex
}

// Triangle references three vertices of its shape by index. The winding
// V[0], V[1], V[2] is counter-clockwise when seen from the front.
type Triangle struct {
	V       [3]int
	Normals [3]math3d.Vec3
	UV      [3]math3d.Vec2
	Normal  math3d.Vec3 // face normal
	Center  math3d.Vec3

	// Screen-space cache, refreshed by cacheScreen.
	p          [3]math3d.Vec4
	a, b, c, d float64
	den        float64
	cx, cy     float64 // bounding circle
	radius     float64
}

// Shape is a textured, single-material mesh. Vertices and triangles live in
// flat arenas and refer to each other by index.
type Shape struct {
	Name      string
	Vertices  []Vertex
	Triangles []Triangle
	Texture   *Texture
	Material  *Material
	Flags     ShapeFlags
}

// NewShape builds a shape from src. Vertices sharing a position are merged
// so that adjacency can be used to average normals. Missing (zero) normals
// are replaced by the average of the adjacent face normals. A nil texture
// renders white and a nil material uses Plastic.
func NewShape(src MeshSource, tex *Texture, mat *Material) (*Shape, error) {
	if src.TriangleCount() == 0 {
		return nil, ErrEmptyMesh
	}
	if tex == nil {
		tex = SolidTexture(ColorWhite)
	}
	if mat == nil {
		m := Plastic
		mat = &m
	}

	s := &Shape{
		Texture:   tex,
		Material:  mat,
		Flags:     DefaultShapeFlags(),
		Triangles: make([]Triangle, 0, src.TriangleCount()),
	}

	index := make(map[math3d.Vec3]int, src.VertexCount())
	for i := range src.TriangleCount() {
		face := src.GetFace(i)
		var tri Triangle
		for k, vi := range face {
			if vi < 0 || vi >= src.VertexCount() {
				return nil, fmt.Errorf("triangle %d: vertex index %d out of range", i, vi)
			}
			pos, n, uv := src.GetVertex(vi)
			id, ok := index[pos]
			if !ok {
				id = len(s.Vertices)
				index[pos] = id
				s.Vertices = append(s.Vertices, Vertex{Position: pos})
			}
			tri.V[k] = id
			tri.Normals[k] = n.Normalize()
			tri.UV[k] = uv
		}
		s.Triangles = append(s.Triangles, tri)
	}

	s.link()
	s.refresh()
	s.fillNormals()
	return s, nil
}

// link rebuilds the vertex to triangle adjacency lists.
func (s *Shape) link() {
	for i := range s.Vertices {
		s.Vertices[i].Triangles = s.Vertices[i].Triangles[:0]
	}
	for ti, tri := range s.Triangles {
		for _, vi := range tri.V {
			s.Vertices[vi].Triangles = append(s.Vertices[vi].Triangles, ti)
		}
	}
}

// refresh recomputes face normals and centers from vertex positions.
func (s *Shape) refresh() {
	for i := range s.Triangles {
		t := &s.Triangles[i]
		p0, p1, p2 := s.pos(t, 0), s.pos(t, 1), s.pos(t, 2)
		t.Normal = p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
		t.Center = p0.Add(p1).Add(p2).Div(3)
	}
}

func (s *Shape) fillNormals() {
	for i := range s.Triangles {
		t := &s.Triangles[i]
		for k := range 3 {
			if t.Normals[k] != (math3d.Vec3{}) {
				continue
			}
			var sum math3d.Vec3
			for _, adj := range s.Vertices[t.V[k]].Triangles {
				sum = sum.Add(s.Triangles[adj].Normal)
			}
			t.Normals[k] = sum.Normalize()
			if t.Normals[k] == (math3d.Vec3{}) {
				t.Normals[k] = t.Normal
			}
		}
	}
}

func (s *Shape) pos(t *Triangle, k int) math3d.Vec3 {
	return s.Vertices[t.V[k]].Position
}

// Translate moves every vertex by d.
func (s *Shape) Translate(d math3d.Vec3) {
	for i := range s.Vertices {
		s.Vertices[i].Position = s.Vertices[i].Position.Add(d)
	}
	s.refresh()
}

// RotateAbout rotates the shape around an axis through pivot. Vertex and
// face normals turn with it.
func (s *Shape) RotateAbout(axis math3d.Vec3, angle float64, pivot math3d.Vec3) {
	for i := range s.Vertices {
		s.Vertices[i].Position = s.Vertices[i].Position.RotateAbout(axis, angle, pivot)
	}
	for i := range s.Triangles {
		t := &s.Triangles[i]
		for k := range t.Normals {
			t.Normals[k] = t.Normals[k].RotateAxis(axis, angle)
		}
	}
	s.refresh()
}

// ScaleAbout scales the shape uniformly relative to pivot.
func (s *Shape) ScaleAbout(f float64, pivot math3d.Vec3) {
	for i := range s.Vertices {
		s.Vertices[i].Position = s.Vertices[i].Position.ScaleAbout(f, pivot)
	}
	s.refresh()
}

// FlipNormals turns every triangle inside out: winding is reversed and all
// normals are negated. UVs stay attached to their corners.
func (s *Shape) FlipNormals() {
	for i := range s.Triangles {
		t := &s.Triangles[i]
		t.V[0], t.V[2] = t.V[2], t.V[0]
		t.Normals[0], t.Normals[2] = t.Normals[2], t.Normals[0]
		t.UV[0], t.UV[2] = t.UV[2], t.UV[0]
		for k := range t.Normals {
			t.Normals[k] = t.Normals[k].Negate()
		}
	}
	s.refresh()
}

// Clone returns a deep copy sharing the texture and material.
func (s *Shape) Clone() *Shape {
	c := *s
	c.Vertices = make([]Vertex, len(s.Vertices))
	for i, v := range s.Vertices {
		c.Vertices[i] = Vertex{Position: v.Position, Screen: v.Screen}
	}
	c.Triangles = append([]Triangle(nil), s.Triangles...)
	c.link()
	return &c
}

// Center returns the mean of the shape's vertex positions.
func (s *Shape) Center() math3d.Vec3 {
	var sum math3d.Vec3
	for _, v := range s.Vertices {
		sum = sum.Add(v.Position)
	}
	return sum.Div(float64(len(s.Vertices)))
}

// Bounds returns the world-space box around the shape.
func (s *Shape) Bounds() AABB {
	b := AABB{Min: s.Vertices[0].Position, Max: s.Vertices[0].Position}
	for _, v := range s.Vertices[1:] {
		b.Min = b.Min.Min(v.Position)
		b.Max = b.Max.Max(v.Position)
	}
	return b
}

// cacheScreen copies the projected corners into the triangle and
// recomputes the barycentric coefficients and bounding circle.
func (t *Triangle) cacheScreen(verts []Vertex) {
	for k := range 3 {
		t.p[k] = verts[t.V[k]].Screen
	}
	p1, p2, p3 := t.p[0], t.p[1], t.p[2]
	t.a = p2.Y - p3.Y
	t.b = p3.X - p2.X
	t.c = p3.Y - p1.Y
	t.d = p1.X - p3.X
	t.den = t.a*t.d + t.b*(p1.Y-p3.Y)

	t.cx = (p1.X + p2.X + p3.X) / 3
	t.cy = (p1.Y + p2.Y + p3.Y) / 3
	t.radius = 0
	for _, p := range t.p {
		t.radius = math.Max(t.radius, math.Hypot(p.X-t.cx, p.Y-t.cy))
	}
}

// Screen returns the cached projection of corner k.
func (t *Triangle) Screen(k int) math3d.Vec4 {
	return t.p[k]
}

// Barycentric returns the weights of (px, py) against the cached screen
// corners. The weights sum to one. A zero-area triangle yields NaN or Inf
// weights, which fail every coverage test.
func (t *Triangle) Barycentric(px, py float64) (w1, w2, w3 float64) {
	dx := px - t.p[2].X
	dy := py - t.p[2].Y
	w1 = (t.a*dx + t.b*dy) / t.den
	w2 = (t.c*dx + t.d*dy) / t.den
	return w1, w2, 1 - w1 - w2
}

// Degenerate reports whether the projected triangle has no area.
func (t *Triangle) Degenerate() bool {
	return t.den == 0 || math.IsNaN(t.den)
}

// FacingViewer reports whether the projected corners wind counter-clockwise
// as seen on screen (y grows downward).
func (t *Triangle) FacingViewer() bool {
	p1, p2, p3 := t.p[0], t.p[1], t.p[2]
	return (p2.X-p1.X)*(p3.Y-p1.Y) < (p3.X-p1.X)*(p2.Y-p1.Y)
}

// DepthAt interpolates the cached corner depths.
func (t *Triangle) DepthAt(w1, w2, w3 float64) float64 {
	return w1*t.p[0].Z + w2*t.p[1].Z + w3*t.p[2].Z
}

// PointFromBary interpolates the world-space surface point.
func (s *Shape) PointFromBary(t *Triangle, w1, w2, w3 float64) math3d.Vec3 {
	return s.pos(t, 0).Scale(w1).Add(s.pos(t, 1).Scale(w2)).Add(s.pos(t, 2).Scale(w3))
}

// NormalFromBary interpolates and normalizes the corner normals.
func (t *Triangle) NormalFromBary(w1, w2, w3 float64) math3d.Vec3 {
	return t.Normals[0].Scale(w1).Add(t.Normals[1].Scale(w2)).Add(t.Normals[2].Scale(w3)).Normalize()
}

// UVFromBary interpolates the texture coordinates.
func (t *Triangle) UVFromBary(w1, w2, w3 float64) math3d.Vec2 {
	return t.UV[0].Scale(w1).Add(t.UV[1].Scale(w2)).Add(t.UV[2].Scale(w3))
}

// rect is a closed screen-space rectangle.
type rect struct {
	minX, minY, maxX, maxY float64
}

func (r rect) contains(x, y float64) bool {
	return x >= r.minX && x <= r.maxX && y >= r.minY && y <= r.maxY
}

// OverlapsRect reports whether the projected triangle touches r. A cheap
// bounding circle test rejects most far away triangles before the exact
// vertex, corner and edge tests run.
func (t *Triangle) OverlapsRect(r rect) bool {
	nx := math.Max(r.minX, math.Min(t.cx, r.maxX))
	ny := math.Max(r.minY, math.Min(t.cy, r.maxY))
	if math.Hypot(t.cx-nx, t.cy-ny) > t.radius {
		return false
	}

	for _, p := range t.p {
		if r.contains(p.X, p.Y) {
			return true
		}
	}

	corners := [4][2]float64{
		{r.minX, r.minY}, {r.maxX, r.minY}, {r.maxX, r.maxY}, {r.minX, r.maxY},
	}
	for _, c := range corners {
		w1, w2, w3 := t.Barycentric(c[0], c[1])
		if w1 >= 0 && w2 >= 0 && w3 >= 0 {
			return true
		}
	}

	for i := range 3 {
		a, b := t.p[i], t.p[(i+1)%3]
		for j := range 4 {
			c, d := corners[j], corners[(j+1)%4]
			if segmentsIntersect(a.X, a.Y, b.X, b.Y, c[0], c[1], d[0], d[1]) {
				return true
			}
		}
	}
	return false
}

func orient(ax, ay, bx, by, cx, cy float64) float64 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

func segmentsIntersect(ax, ay, bx, by, cx, cy, dx, dy float64) bool {
	d1 := orient(cx, cy, dx, dy, ax, ay)
	d2 := orient(cx, cy, dx, dy, bx, by)
	d3 := orient(ax, ay, bx, by, cx, cy)
	d4 := orient(ax, ay, bx, by, dx, dy)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}
