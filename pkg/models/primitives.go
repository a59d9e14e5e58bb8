package models

import "github.com/taigrr/cpu3d/pkg/math3d"

// quadFace is one side of a box: its outward normal and the two in-plane
// axes, ordered so that u × v = normal.
type quadFace struct {
	normal, u, v math3d.Vec3
}

var cubeFaces = [6]quadFace{
	{math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), math3d.V3(0, 0, 1)},
	{math3d.V3(-1, 0, 0), math3d.V3(0, -1, 0), math3d.V3(0, 0, 1)},
	{math3d.V3(0, 1, 0), math3d.V3(-1, 0, 0), math3d.V3(0, 0, 1)},
	{math3d.V3(0, -1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, 1)},
	{math3d.V3(0, 0, 1), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
	{math3d.V3(0, 0, -1), math3d.V3(1, 0, 0), math3d.V3(0, -1, 0)},
}

// addQuad appends a square of half-size h centered at c, wound
// counter-clockwise around q.normal, with UVs spanning [0, 1].
func (m *Mesh) addQuad(c math3d.Vec3, q quadFace, h float64) {
	u, v := q.u.Scale(h), q.v.Scale(h)
	corners := [4]struct {
		pos math3d.Vec3
		uv  math3d.Vec2
	}{
		{c.Sub(u).Sub(v), math3d.V2(0, 0)},
		{c.Add(u).Sub(v), math3d.V2(1, 0)},
		{c.Add(u).Add(v), math3d.V2(1, 1)},
		{c.Sub(u).Add(v), math3d.V2(0, 1)},
	}
	var ids [4]int
	for i, k := range corners {
		ids[i] = m.addVertex(k.pos, q.normal, k.uv)
	}
	m.addFace(ids[0], ids[1], ids[2])
	m.addFace(ids[0], ids[2], ids[3])
}

// NewCube returns an axis-aligned cube with edge length size, centered on
// the origin. Each side carries its own normals and a full [0, 1] UV square.
func NewCube(size float64) *Mesh {
	m := NewMesh("cube")
	h := size / 2
	for _, q := range cubeFaces {
		m.addQuad(q.normal.Scale(h), q, h)
	}
	m.CalculateBounds()
	return m
}

// NewPlane returns a size × size square in the z = 0 plane facing +Z.
func NewPlane(size float64) *Mesh {
	m := NewMesh("plane")
	m.addQuad(math3d.Vec3{}, cubeFaces[4], size/2)
	m.CalculateBounds()
	return m
}
