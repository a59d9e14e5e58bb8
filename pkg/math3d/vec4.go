package math3d

// Vec4 is a homogeneous point. The rasterizer also uses it as the cached
// screen projection of a vertex: (x, y, depth, divisor).
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// V4FromV3 extends v with the given w.
func V4FromV3(v Vec3, w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// Vec3 drops the W component.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// PerspectiveDivide divides x, y and z by w. A zero w is left undivided.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return v.Vec3()
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
}

// SwapXY exchanges the first two components.
func (v Vec4) SwapXY() Vec4 {
	return Vec4{v.Y, v.X, v.Z, v.W}
}
