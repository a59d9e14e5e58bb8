package render

import (
	"math"

	"github.com/taigrr/cpu3d/pkg/math3d"
)

// Aim selects how a camera builds its view matrix.
type Aim int

const (
	// AimSpherical rotates by yaw (theta) then pitch (phi).
	AimSpherical Aim = iota
	// AimLineOfSight uses a look-at matrix along the line of sight. Shadow
	// cube faces use it.
	AimLineOfSight
)

// Camera is a pinhole camera oriented by two spherical angles. The world is
// +Z up; Phi is measured from +Z and Theta sweeps horizontally from +Y.
type Camera struct {
	Position math3d.Vec3
	Phi      float64 // 0 looks straight up, Pi straight down
	Theta    float64
	FOV      float64 // horizontal field of view in radians
	Aim      Aim

	view        math3d.Mat4
	lineOfSight math3d.Vec3
	focal       float64
}

// NewCamera creates a camera and computes its matrices.
func NewCamera(pos math3d.Vec3, phi, theta, fov float64) *Camera {
	c := &Camera{Position: pos, Phi: phi, Theta: theta, FOV: fov}
	c.Tick()
	return c
}

// Tick normalizes the angles and rebuilds the cached matrices. Call it
// after changing any exported field.
func (c *Camera) Tick() {
	c.Phi = math.Max(0, math.Min(math.Pi, c.Phi))
	c.Theta = math.Mod(c.Theta, 2*math.Pi)
	if c.Theta < 0 {
		c.Theta += 2 * math.Pi
	}

	c.lineOfSight = math3d.SphereToCartesian(c.Theta, c.Phi)
	c.focal = 1 / math.Tan(c.FOV/2)

	switch c.Aim {
	case AimLineOfSight:
		c.view = math3d.SwapXY().Mul(lookAlong(c.Position, c.lineOfSight))
	default:
		yaw := math3d.RotateZ(c.Theta)
		pitch := math3d.RotateX(c.Phi - math.Pi)
		c.view = math3d.SwapXY().
			Mul(pitch).
			Mul(yaw).
			Mul(math3d.Translate(c.Position.Negate()))
	}
}

// lookAlong builds a look-at matrix from eye along dir, falling back to +Y
// as the up hint when dir is parallel to the world up axis.
func lookAlong(eye, dir math3d.Vec3) math3d.Mat4 {
	up := math3d.Up()
	if dir.Cross(up).LenSq() < 1e-18 {
		up = math3d.V3(0, 1, 0)
	}
	return math3d.LookAt(eye, eye.Add(dir), up)
}

// Update applies one tick of controller input and then calls Tick.
func (c *Camera) Update(in InputState) {
	c.Phi += in.DPhi
	c.Theta += in.DTheta

	heading := c.Heading()
	right := math3d.V3(heading.Y, -heading.X, 0)
	c.Position = c.Position.
		Add(heading.Scale(in.Forward)).
		Add(right.Scale(in.Strafe)).
		Add(math3d.Up().Scale(in.Lift))
	c.Tick()
}

// Heading is the horizontal component of the line of sight.
func (c *Camera) Heading() math3d.Vec3 {
	return math3d.V3(math.Sin(c.Theta), math.Cos(c.Theta), 0)
}

// LineOfSight returns the unit view direction as of the last Tick.
func (c *Camera) LineOfSight() math3d.Vec3 {
	return c.lineOfSight
}

// ViewMatrix returns the world to camera transform as of the last Tick.
// It includes the axis swap.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return c.view
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.setLineOfSight(target.Sub(c.Position))
	c.Tick()
}

func (c *Camera) setLineOfSight(dir math3d.Vec3) {
	d := dir.Normalize()
	if d == (math3d.Vec3{}) {
		return
	}
	c.Phi = math.Acos(math.Max(-1, math.Min(1, d.Z)))
	if math.Abs(d.X) > 1e-12 || math.Abs(d.Y) > 1e-12 {
		c.Theta = math.Atan2(d.X, d.Y)
	}
}

// Translate moves the camera by d.
func (c *Camera) Translate(d math3d.Vec3) {
	c.Position = c.Position.Add(d)
	c.Tick()
}

// RotateAbout orbits the camera around pivot and turns its line of sight
// by the same rotation.
func (c *Camera) RotateAbout(axis math3d.Vec3, angle float64, pivot math3d.Vec3) {
	c.Position = c.Position.RotateAbout(axis, angle, pivot)
	c.setLineOfSight(c.lineOfSight.RotateAxis(axis, angle))
	c.Tick()
}

// ScaleAbout scales the camera's distance from pivot.
func (c *Camera) ScaleAbout(s float64, pivot math3d.Vec3) {
	c.Position = c.Position.ScaleAbout(s, pivot)
	c.Tick()
}
