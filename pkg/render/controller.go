package render

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// InputState is the camera motion consumed by one Camera.Update call.
type InputState struct {
	DPhi    float64 // added to Phi; positive tilts the view down
	DTheta  float64 // added to Theta
	Forward float64 // along the horizontal heading
	Strafe  float64 // to the right of the heading
	Lift    float64 // along world up
}

// Intent describes which directions are held this tick. Each field is
// expected in [-1, 1].
type Intent struct {
	LookUp    float64
	TurnRight float64
	Forward   float64
	Strafe    float64
	Lift      float64
}

const (
	// DefaultRotateStep is the per-tick rotation at full input.
	DefaultRotateStep = 0.007 * math.Pi
	// DefaultMoveStep is the per-tick translation at full input.
	DefaultMoveStep = 0.1
)

const (
	axisPitch = iota
	axisYaw
	axisForward
	axisStrafe
	axisLift
	axisCount
)

// Controller smooths key intents into camera deltas with one critically
// damped spring per axis, so motion eases in and out instead of snapping.
type Controller struct {
	RotateStep float64
	MoveStep   float64

	spring harmonica.Spring
	pos    [axisCount]float64
	vel    [axisCount]float64
}

// NewController creates a controller ticking at fps frames per second.
func NewController(fps int) *Controller {
	return &Controller{
		RotateStep: DefaultRotateStep,
		MoveStep:   DefaultMoveStep,
		spring:     harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Step advances every spring toward the targets given by in and returns
// the resulting deltas.
func (c *Controller) Step(in Intent) InputState {
	targets := [axisCount]float64{
		axisPitch:   -in.LookUp * c.RotateStep,
		axisYaw:     in.TurnRight * c.RotateStep,
		axisForward: in.Forward * c.MoveStep,
		axisStrafe:  in.Strafe * c.MoveStep,
		axisLift:    in.Lift * c.MoveStep,
	}
	for i := range c.pos {
		c.pos[i], c.vel[i] = c.spring.Update(c.pos[i], c.vel[i], targets[i])
	}
	return InputState{
		DPhi:    c.pos[axisPitch],
		DTheta:  c.pos[axisYaw],
		Forward: c.pos[axisForward],
		Strafe:  c.pos[axisStrafe],
		Lift:    c.pos[axisLift],
	}
}

// Settled reports whether every axis has come to rest.
func (c *Controller) Settled() bool {
	for i := range c.pos {
		if math.Abs(c.pos[i]) > 1e-6 || math.Abs(c.vel[i]) > 1e-6 {
			return false
		}
	}
	return true
}
