package component

import "github.com/jakecoffman/cp"

// VehicleVariant selects how the vehicle is assembled.
type VehicleVariant string

const (
	VehicleSimple    VehicleVariant = "simple"
	VehicleComposite VehicleVariant = "composite"
)

// Vehicle lives on the chassis entity and references, never owns, the
// bodies and axles of the assembly.
type Vehicle struct {
	Variant VehicleVariant
	Chassis *cp.Body
	Wheels  []*cp.Body
	Axles   []*cp.Constraint
	Width   float64
	Height  float64
	// RestHeight is the distance from the chassis centre to the ground
	// surface when the vehicle is at rest.
	RestHeight  float64
	WheelRadius float64
}

// X returns the chassis centre x, the reference point for camera and
// streaming decisions.
func (v *Vehicle) X() float64 {
	if v == nil || v.Chassis == nil {
		return 0
	}
	return v.Chassis.Position().X
}

var VehicleComponent = NewComponent[Vehicle]()
