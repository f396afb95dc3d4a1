package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/truckrun/ecs"
	"github.com/milk9111/truckrun/ecs/component"
)

const (
	DefaultGroundTolerance = 5.0
	// DefaultJumpVelocity is -10 px per 60 Hz frame.
	DefaultJumpVelocity = -600.0
)

// VehicleTuning holds the control constants that may change at runtime.
type VehicleTuning struct {
	DriveForce      float64
	JumpVelocity    float64
	GroundTolerance float64
}

// VehicleSystem turns the held controls into a drive force and, when
// grounded, a jump.
type VehicleSystem struct {
	Tuning  VehicleTuning
	GroundY float64

	jumps int
}

func NewVehicleSystem(tuning VehicleTuning, groundY float64) *VehicleSystem {
	return &VehicleSystem{Tuning: tuning, GroundY: groundY}
}

func (s *VehicleSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach2(w, component.VehicleComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, v *component.Vehicle, in *component.Input) {
		ApplyControls(v, *in, s.Tuning.DriveForce)
		if TryJump(v, *in, s.GroundY, s.Tuning.GroundTolerance, s.Tuning.JumpVelocity) {
			s.jumps++
		}
	})
}

// Jumps counts successful jump overrides.
func (s *VehicleSystem) Jumps() int {
	if s == nil {
		return 0
	}
	return s.jumps
}

// ApplyControls pushes the chassis left, right, or not at all. The force is
// applied at the centre of gravity and lasts for the next physics step.
func ApplyControls(v *component.Vehicle, controls component.Input, force float64) cp.Vector {
	if v == nil || v.Chassis == nil {
		return cp.Vector{}
	}
	var net cp.Vector
	if controls.Left {
		net.X -= force
	}
	if controls.Right {
		net.X += force
	}
	if net.X != 0 {
		v.Chassis.ApplyForceAtWorldPoint(net, v.Chassis.Position())
	}
	return net
}

// IsGrounded reports whether the chassis sits within tolerance of its rest
// height above groundY. Only the position is checked.
func IsGrounded(v *component.Vehicle, groundY, tolerance float64) bool {
	if v == nil || v.Chassis == nil {
		return false
	}
	if tolerance <= 0 {
		tolerance = DefaultGroundTolerance
	}
	rest := groundY - v.RestHeight
	return math.Abs(v.Chassis.Position().Y-rest) < tolerance
}

// TryJump replaces the vertical velocity with jumpVelocity when Jump is held
// and the vehicle is grounded. Horizontal velocity is kept.
func TryJump(v *component.Vehicle, controls component.Input, groundY, tolerance, jumpVelocity float64) bool {
	if !controls.Jump || !IsGrounded(v, groundY, tolerance) {
		return false
	}
	if jumpVelocity == 0 {
		jumpVelocity = DefaultJumpVelocity
	}
	setVY(v.Chassis, jumpVelocity)
	for _, wheel := range v.Wheels {
		setVY(wheel, jumpVelocity)
	}
	return true
}

func setVY(b *cp.Body, vy float64) {
	if b == nil {
		return
	}
	vel := b.Velocity()
	b.SetVelocity(vel.X, vy)
}
