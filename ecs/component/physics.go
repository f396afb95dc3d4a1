package component

import "github.com/jakecoffman/cp"

// GeometryKind tags the Geometry union.
type GeometryKind int

const (
	GeometryRect GeometryKind = iota
	GeometryCircle
)

func (k GeometryKind) String() string {
	switch k {
	case GeometryRect:
		return "rect"
	case GeometryCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Geometry is a collision shape: Width/Height for rects, Radius for circles.
type Geometry struct {
	Kind   GeometryKind
	Width  float64
	Height float64
	Radius float64
}

func Rect(width, height float64) Geometry {
	return Geometry{Kind: GeometryRect, Width: width, Height: height}
}

func Circle(radius float64) Geometry {
	return Geometry{Kind: GeometryCircle, Radius: radius}
}

// Extent returns the unrotated bounding size.
func (g Geometry) Extent() (float64, float64) {
	if g.Kind == GeometryCircle {
		return g.Radius * 2, g.Radius * 2
	}
	return g.Width, g.Height
}

// Material holds per-body physical properties.
type Material struct {
	Mass        float64
	Friction    float64
	Restitution float64
	// AirFriction is the fraction of velocity lost per 60 Hz step.
	AirFriction float64
	Static      bool
	// Group > 0 disables collisions between shapes sharing it.
	Group uint
}

// PhysicsBody stores Chipmunk2D runtime data for one rigid body.
type PhysicsBody struct {
	Body     *cp.Body
	Shape    *cp.Shape
	Geometry Geometry
	Static   bool
}

// Position returns the body centre, or the zero vector for a detached body.
func (pb *PhysicsBody) Position() cp.Vector {
	if pb == nil || pb.Body == nil {
		return cp.Vector{}
	}
	return pb.Body.Position()
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

// Axle joins two bodies. Rigid axles are pivot joints; sprung ones are
// damped springs.
type Axle struct {
	Constraint *cp.Constraint
	Stiffness  float64
}

var AxleComponent = NewComponent[Axle]()

// BodyRole decides which collision handlers a body's shape takes part in.
type BodyRole int

const (
	RoleVehicle BodyRole = iota
	RoleGround
	RoleObstacle
)
