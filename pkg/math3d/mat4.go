package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order:
//
//	| 0  4  8  12 |
//	| 1  5  9  13 |
//	| 2  6  10 14 |
//	| 3  7  11 15 |
//
// The size is fixed, so operands can never disagree on dimensions.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = v.X, v.Y, v.Z
	return m
}

// RotateX rotates counter-clockwise around +X.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[5], m[6] = c, s
	m[9], m[10] = -s, c
	return m
}

// RotateY rotates counter-clockwise around +Y.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

// RotateZ rotates counter-clockwise around +Z.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// Rotate creates a rotation around an arbitrary axis.
func Rotate(axis Vec3, angle float64) Mat4 {
	k := axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	return Mat4{
		t*k.X*k.X + c, t*k.X*k.Y + s*k.Z, t*k.X*k.Z - s*k.Y, 0,
		t*k.X*k.Y - s*k.Z, t*k.Y*k.Y + c, t*k.Y*k.Z + s*k.X, 0,
		t*k.X*k.Z + s*k.Y, t*k.Y*k.Z - s*k.X, t*k.Z*k.Z + c, 0,
		0, 0, 0, 1,
	}
}

// SwapXY exchanges the first two axes. It is the axis convention applied
// after the camera rotations.
func SwapXY() Mat4 {
	return Mat4{
		0, 1, 0, 0,
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// LookAt builds a right-handed view matrix. The result maps eye to the
// origin with center on the -Z axis.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Perspective creates an OpenGL style projection matrix. fovy is in radians.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	nf := 1 / (near - far)

	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) * nf
	m[11] = -1
	m[14] = 2 * far * near * nf
	return m
}

// Orthographic creates a box projection onto [-1, 1] on every axis.
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	m := Identity()
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = -2 / (far - near)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = -(far + near) / (far - near)
	return m
}

// Mul returns a * b.
//
//nolint:st1016 // a*b reads like the math
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulVec3 transforms a point (w=1) and divides by the resulting w.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 1)).PerspectiveDivide()
}

// MulVec3Dir transforms a direction (w=0), ignoring translation.
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 0)).Vec3()
}

func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for row := range 4 {
		for col := range 4 {
			t[col+row*4] = m[row+col*4]
		}
	}
	return t
}

// Determinant expands along the first row.
func (m Mat4) Determinant() float64 {
	var det float64
	sign := 1.0
	for col := range 4 {
		det += sign * m.Get(0, col) * m.minor(0, col)
		sign = -sign
	}
	return det
}

// minor returns the determinant of the 3x3 matrix left after removing
// the given row and column.
func (m Mat4) minor(row, col int) float64 {
	var a [9]float64
	i := 0
	for r := range 4 {
		if r == row {
			continue
		}
		for c := range 4 {
			if c == col {
				continue
			}
			a[i] = m.Get(r, c)
			i++
		}
	}
	return a[0]*(a[4]*a[8]-a[5]*a[7]) -
		a[1]*(a[3]*a[8]-a[5]*a[6]) +
		a[2]*(a[3]*a[7]-a[4]*a[6])
}

// Inverse returns the inverse using Gauss-Jordan elimination with partial
// pivoting. A singular matrix yields the identity.
func (m Mat4) Inverse() Mat4 {
	a := m
	inv := Identity()

	for col := range 4 {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(a.Get(r, col)) > math.Abs(a.Get(pivot, col)) {
				pivot = r
			}
		}
		if math.Abs(a.Get(pivot, col)) < 1e-12 {
			return Identity()
		}
		a.swapRows(col, pivot)
		inv.swapRows(col, pivot)

		p := a.Get(col, col)
		for c := range 4 {
			a.Set(col, c, a.Get(col, c)/p)
			inv.Set(col, c, inv.Get(col, c)/p)
		}

		for r := range 4 {
			if r == col {
				continue
			}
			f := a.Get(r, col)
			if f == 0 {
				continue
			}
			for c := range 4 {
				a.Set(r, c, a.Get(r, c)-f*a.Get(col, c))
				inv.Set(r, c, inv.Get(r, c)-f*inv.Get(col, c))
			}
		}
	}
	return inv
}

func (m *Mat4) swapRows(i, j int) {
	if i == j {
		return
	}
	for c := range 4 {
		m[i+c*4], m[j+c*4] = m[j+c*4], m[i+c*4]
	}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}

// NormalMatrix returns the inverse transpose used to carry normals through
// a non-uniform transform.
func (m Mat4) NormalMatrix() Mat4 {
	return m.Inverse().Transpose()
}
