package models

import (
	"math"
	"testing"

	"github.com/taigrr/cpu3d/pkg/math3d"
	"github.com/taigrr/cpu3d/pkg/render"
)

var _ render.MeshSource = (*Mesh)(nil)

func vecNear(a, b math3d.Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

func TestCalculateBounds(t *testing.T) {
	m := NewMesh("test")
	m.CalculateBounds()
	if m.BoundsMin != (math3d.Vec3{}) || m.BoundsMax != (math3d.Vec3{}) {
		t.Errorf("empty bounds = %v..%v", m.BoundsMin, m.BoundsMax)
	}

	m.addVertex(math3d.V3(1, -2, 3), math3d.Vec3{}, math3d.Vec2{})
	m.addVertex(math3d.V3(-1, 4, 0), math3d.Vec3{}, math3d.Vec2{})
	m.CalculateBounds()
	if m.BoundsMin != math3d.V3(-1, -2, 0) || m.BoundsMax != math3d.V3(1, 4, 3) {
		t.Errorf("bounds = %v..%v", m.BoundsMin, m.BoundsMax)
	}
	if m.Center() != math3d.V3(0, 1, 1.5) {
		t.Errorf("center = %v", m.Center())
	}
	if m.Size() != math3d.V3(2, 6, 3) {
		t.Errorf("size = %v", m.Size())
	}
}

func TestCalculateNormals(t *testing.T) {
	m := NewPlane(2)
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Vec3{}
	}
	if m.hasNormals() {
		t.Fatal("cleared normals still reported")
	}

	m.CalculateNormals()
	for i, v := range m.Vertices {
		if !vecNear(v.Normal, math3d.Up(), 1e-12) {
			t.Errorf("vertex %d normal = %v, want +Z", i, v.Normal)
		}
	}
}

func TestTransform(t *testing.T) {
	m := NewPlane(2)
	// Stretch along X then stand the plane up so it faces -Y.
	mat := math3d.RotateX(math.Pi / 2).Mul(math3d.Scale(math3d.V3(3, 1, 1)))
	m.Transform(mat)

	for i, v := range m.Vertices {
		if !vecNear(v.Normal, math3d.V3(0, -1, 0), 1e-9) {
			t.Errorf("vertex %d normal = %v, want -Y", i, v.Normal)
		}
	}
	if !vecNear(m.Size(), math3d.V3(6, 0, 2), 1e-9) {
		t.Errorf("size after transform = %v", m.Size())
	}
}

func TestTransformNonUniformNormals(t *testing.T) {
	m := NewMesh("slope")
	n := math3d.V3(1, 0, 1).Normalize()
	m.addVertex(math3d.Vec3{}, n, math3d.Vec2{})
	m.Transform(math3d.Scale(math3d.V3(2, 1, 1)))

	// The surface x + z = 0 becomes x/2 + z = 0, normal (1, 0, 2).
	want := math3d.V3(1, 0, 2).Normalize()
	if got := m.Vertices[0].Normal; !vecNear(got, want, 1e-9) {
		t.Errorf("normal = %v, want %v", got, want)
	}
}

func TestFaceMaterialIndex(t *testing.T) {
	mesh := NewMesh("test")
	mesh.Materials = []Material{
		{Name: "red", BaseColor: [4]float64{1, 0, 0, 1}},
		{Name: "green", BaseColor: [4]float64{0, 1, 0, 1}},
	}
	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}, Material: 0},
		{V: [3]int{3, 4, 5}, Material: 1},
		{V: [3]int{6, 7, 8}, Material: -1},
	}

	for i, want := range []int{0, 1, -1} {
		if got := mesh.GetFaceMaterial(i); got != want {
			t.Errorf("face %d material = %d, want %d", i, got, want)
		}
	}
	if mat := mesh.GetMaterial(0); mat == nil || mat.Name != "red" {
		t.Errorf("GetMaterial(0) = %v, want red", mat)
	}
	if mesh.GetMaterial(-1) != nil || mesh.GetMaterial(99) != nil {
		t.Error("out of range GetMaterial should return nil")
	}
	if mesh.BaseMap() != nil {
		t.Error("no material has a texture")
	}
}

func TestMeshClone(t *testing.T) {
	mesh := NewCube(1)
	mesh.Materials = []Material{{Name: "mat1"}}

	clone := mesh.Clone()
	if clone.VertexCount() != mesh.VertexCount() || clone.TriangleCount() != mesh.TriangleCount() {
		t.Fatalf("clone has %d/%d, want %d/%d", clone.VertexCount(), clone.TriangleCount(),
			mesh.VertexCount(), mesh.TriangleCount())
	}

	clone.Materials[0].Name = "modified"
	clone.Vertices[0].Position = math3d.V3(9, 9, 9)
	clone.Faces[0].V[0] = 5
	if mesh.Materials[0].Name == "modified" || mesh.Vertices[0].Position == math3d.V3(9, 9, 9) || mesh.Faces[0].V[0] == 5 {
		t.Error("clone shares storage with the original")
	}
}
