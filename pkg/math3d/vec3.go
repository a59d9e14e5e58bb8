// Package math3d provides the vector and matrix types used by the cpu3d
// rasterizer. The world is right-handed with +Z up.
package math3d

import "math"

// Vec3 is a point or a direction in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Up returns the world up vector (0, 0, 1).
func Up() Vec3 {
	return Vec3{0, 0, 1}
}

// One returns (1, 1, 1), the neutral light intensity.
func One() Vec3 {
	return Vec3{1, 1, 1}
}

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Mul returns the component-wise product. Used for color triples.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

func (a Vec3) Div(s float64) Vec3 {
	return Vec3{a.X / s, a.Y / s, a.Z / s}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Len() float64 {
	return math.Sqrt(a.LenSq())
}

func (a Vec3) LenSq() float64 {
	return a.X*a.X + a.Y*a.Y + a.Z*a.Z
}

// Normalize returns the unit vector in the same direction.
// The zero vector normalizes to itself.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return Vec3{}
	}
	return a.Div(l)
}

func (a Vec3) Negate() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

// Lerp interpolates between a and b by t.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

func (a Vec3) Distance(b Vec3) float64 {
	return a.Sub(b).Len()
}

func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

func (a Vec3) Abs() Vec3 {
	return Vec3{math.Abs(a.X), math.Abs(a.Y), math.Abs(a.Z)}
}

// MaxAbs returns the largest absolute component.
func (a Vec3) MaxAbs() float64 {
	return math.Max(math.Abs(a.X), math.Max(math.Abs(a.Y), math.Abs(a.Z)))
}

// Clamp limits every component to [lo, hi].
func (a Vec3) Clamp(lo, hi float64) Vec3 {
	return Vec3{clamp(a.X, lo, hi), clamp(a.Y, lo, hi), clamp(a.Z, lo, hi)}
}

// RotateAxis rotates a around the unit axis by angle radians
// (Rodrigues' formula, counter-clockwise looking down the axis).
func (a Vec3) RotateAxis(axis Vec3, angle float64) Vec3 {
	k := axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	return a.Scale(c).
		Add(k.Cross(a).Scale(s)).
		Add(k.Scale(k.Dot(a) * (1 - c)))
}

// RotateAbout rotates the point a around an axis passing through pivot.
func (a Vec3) RotateAbout(axis Vec3, angle float64, pivot Vec3) Vec3 {
	return a.Sub(pivot).RotateAxis(axis, angle).Add(pivot)
}

// ScaleAbout scales the point a by s relative to pivot.
func (a Vec3) ScaleAbout(s float64, pivot Vec3) Vec3 {
	return a.Sub(pivot).Scale(s).Add(pivot)
}

// SphereToCartesian converts spherical angles to a unit direction.
// phi is measured from +Z (0 looks straight up, Pi straight down) and theta
// sweeps horizontally starting at +Y.
func SphereToCartesian(theta, phi float64) Vec3 {
	sp := math.Sin(phi)
	return Vec3{sp * math.Sin(theta), sp * math.Cos(theta), math.Cos(phi)}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
