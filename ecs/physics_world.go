package ecs

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/truckrun/ecs/component"
)

const (
	collisionTypeGround cp.CollisionType = iota + 1
	collisionTypeObstacle
	collisionTypeVehicle
)

// referenceHz is the step rate that AirFriction is expressed against.
const referenceHz = 60.0

const allCategories = ^uint(0)

// PhysicsConfig configures the Chipmunk space.
type PhysicsConfig struct {
	Gravity     float64
	Iterations  int
	FixedStepMs float64
	MaxStepMs   float64
	// SpringRate scales axle stiffness below 1 into a spring constant.
	SpringRate    float64
	SpringDamping float64
}

// DefaultPhysicsConfig matches the tuning in prefabs/level.yaml.
func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		Gravity:       1000,
		Iterations:    20,
		FixedStepMs:   1000.0 / 60.0,
		MaxStepMs:     100,
		SpringRate:    4000,
		SpringDamping: 60,
	}
}

// PhysicsWorld owns the Chipmunk space and every body and constraint in it.
// Entities hold handles; only this type adds them to or removes them from
// the space.
type PhysicsWorld struct {
	cfg           PhysicsConfig
	space         *cp.Space
	handlersReady bool

	bodies      map[*cp.Body]*cp.Shape
	constraints map[*cp.Constraint]struct{}

	steps        int
	obstacleHits int
}

// NewPhysicsWorld creates an empty space with gravity pointing down (+Y).
func NewPhysicsWorld(cfg PhysicsConfig) *PhysicsWorld {
	def := DefaultPhysicsConfig()
	if cfg.Iterations <= 0 {
		cfg.Iterations = def.Iterations
	}
	if cfg.FixedStepMs <= 0 {
		cfg.FixedStepMs = def.FixedStepMs
	}
	if cfg.MaxStepMs <= 0 {
		cfg.MaxStepMs = def.MaxStepMs
	}
	if cfg.SpringRate <= 0 {
		cfg.SpringRate = def.SpringRate
	}
	if cfg.SpringDamping < 0 {
		cfg.SpringDamping = def.SpringDamping
	}

	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity})

	pw := &PhysicsWorld{
		cfg:         cfg,
		space:       space,
		bodies:      make(map[*cp.Body]*cp.Shape),
		constraints: make(map[*cp.Constraint]struct{}),
	}
	pw.setupHandlers()
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// Config returns the active configuration.
func (pw *PhysicsWorld) Config() PhysicsConfig {
	if pw == nil {
		return DefaultPhysicsConfig()
	}
	return pw.cfg
}

// CreateBody builds a body and its single shape centred on pos. The result
// is not simulated until Add is called.
func (pw *PhysicsWorld) CreateBody(geom component.Geometry, pos cp.Vector, mat component.Material, role component.BodyRole) *component.PhysicsBody {
	if pw == nil {
		return nil
	}

	var body *cp.Body
	if mat.Static {
		body = cp.NewStaticBody()
	} else {
		mass := mat.Mass
		if mass <= 0 {
			mass = 1
		}
		var moment float64
		if geom.Kind == component.GeometryCircle {
			moment = cp.MomentForCircle(mass, 0, geom.Radius, cp.Vector{})
		} else {
			moment = cp.MomentForBox(mass, geom.Width, geom.Height)
		}
		body = cp.NewBody(mass, moment)
		if mat.AirFriction > 0 {
			retain := 1 - math.Min(mat.AirFriction, 1)
			body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
				cp.BodyUpdateVelocity(b, gravity, damping*math.Pow(retain, dt*referenceHz), dt)
			})
		}
	}
	body.SetAngle(0)
	body.SetPosition(pos)

	var shape *cp.Shape
	if geom.Kind == component.GeometryCircle {
		shape = cp.NewCircle(body, geom.Radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, geom.Width, geom.Height, 0)
	}
	shape.SetFriction(mat.Friction)
	shape.SetElasticity(mat.Restitution)
	shape.SetCollisionType(collisionTypeFor(role))
	if mat.Group > 0 {
		shape.SetFilter(cp.NewShapeFilter(mat.Group, allCategories, allCategories))
	}

	return &component.PhysicsBody{Body: body, Shape: shape, Geometry: geom, Static: mat.Static}
}

func collisionTypeFor(role component.BodyRole) cp.CollisionType {
	switch role {
	case component.RoleGround:
		return collisionTypeGround
	case component.RoleObstacle:
		return collisionTypeObstacle
	default:
		return collisionTypeVehicle
	}
}

// CreateConstraint joins a and b at body-local anchors. Stiffness >= 1 is a
// rigid pivot; anything softer becomes a damped spring whose rest length is
// the current anchor distance.
func (pw *PhysicsWorld) CreateConstraint(a *cp.Body, anchorA cp.Vector, b *cp.Body, anchorB cp.Vector, stiffness float64) *component.Axle {
	if pw == nil || a == nil || b == nil {
		return nil
	}
	var c *cp.Constraint
	if stiffness >= 1 {
		c = cp.NewPivotJoint2(a, b, anchorA, anchorB)
	} else {
		if stiffness <= 0 {
			stiffness = 0.01
		}
		rest := a.LocalToWorld(anchorA).Distance(b.LocalToWorld(anchorB))
		c = cp.NewDampedSpring(a, b, anchorA, anchorB, rest, stiffness*pw.cfg.SpringRate, pw.cfg.SpringDamping)
	}
	return &component.Axle{Constraint: c, Stiffness: stiffness}
}

// Add inserts the body and its shape into the space. Adding twice is a no-op.
func (pw *PhysicsWorld) Add(pb *component.PhysicsBody) {
	if pw == nil || pw.space == nil || pb == nil || pb.Body == nil {
		return
	}
	if _, ok := pw.bodies[pb.Body]; ok {
		return
	}
	pw.space.AddBody(pb.Body)
	if pb.Shape != nil {
		pw.space.AddShape(pb.Shape)
	}
	pw.bodies[pb.Body] = pb.Shape
}

// Remove takes the body and its shape out of the space. The handle must not
// be used afterwards.
func (pw *PhysicsWorld) Remove(pb *component.PhysicsBody) {
	if pw == nil || pw.space == nil || pb == nil || pb.Body == nil {
		return
	}
	shape, ok := pw.bodies[pb.Body]
	if !ok {
		return
	}
	if shape != nil {
		pw.space.RemoveShape(shape)
	}
	pw.space.RemoveBody(pb.Body)
	delete(pw.bodies, pb.Body)
}

// AddConstraint inserts an axle. Both bodies should already be added.
func (pw *PhysicsWorld) AddConstraint(axle *component.Axle) {
	if pw == nil || pw.space == nil || axle == nil || axle.Constraint == nil {
		return
	}
	if _, ok := pw.constraints[axle.Constraint]; ok {
		return
	}
	pw.space.AddConstraint(axle.Constraint)
	pw.constraints[axle.Constraint] = struct{}{}
}

// RemoveConstraint takes an axle out of the space.
func (pw *PhysicsWorld) RemoveConstraint(axle *component.Axle) {
	if pw == nil || pw.space == nil || axle == nil || axle.Constraint == nil {
		return
	}
	if _, ok := pw.constraints[axle.Constraint]; !ok {
		return
	}
	pw.space.RemoveConstraint(axle.Constraint)
	delete(pw.constraints, axle.Constraint)
}

// Contains reports whether the body is currently simulated.
func (pw *PhysicsWorld) Contains(pb *component.PhysicsBody) bool {
	if pw == nil || pb == nil || pb.Body == nil {
		return false
	}
	_, ok := pw.bodies[pb.Body]
	return ok
}

// Advance integrates the space by dtMs milliseconds. Non-positive dt is
// ignored, long frames are clamped to MaxStepMs, and the remainder is split
// into equal substeps no longer than FixedStepMs.
func (pw *PhysicsWorld) Advance(dtMs float64) {
	if pw == nil || pw.space == nil || !(dtMs > 0) {
		return
	}
	if dtMs > pw.cfg.MaxStepMs {
		dtMs = pw.cfg.MaxStepMs
	}
	steps := int(math.Ceil(dtMs/pw.cfg.FixedStepMs - 1e-9))
	if steps < 1 {
		steps = 1
	}
	h := dtMs / float64(steps) / 1000.0
	for i := 0; i < steps; i++ {
		pw.space.Step(h)
	}
	pw.steps += steps
}

// BodyCount returns the number of bodies in the space.
func (pw *PhysicsWorld) BodyCount() int {
	if pw == nil {
		return 0
	}
	return len(pw.bodies)
}

// ConstraintCount returns the number of constraints in the space.
func (pw *PhysicsWorld) ConstraintCount() int {
	if pw == nil {
		return 0
	}
	return len(pw.constraints)
}

// Steps returns how many fixed substeps have run.
func (pw *PhysicsWorld) Steps() int {
	if pw == nil {
		return 0
	}
	return pw.steps
}

// ObstacleHits counts vehicle/obstacle contacts begun since creation.
func (pw *PhysicsWorld) ObstacleHits() int {
	if pw == nil {
		return 0
	}
	return pw.obstacleHits
}

func (pw *PhysicsWorld) setupHandlers() {
	if pw == nil || pw.handlersReady || pw.space == nil {
		return
	}

	hitHandler := pw.space.NewCollisionHandler(collisionTypeVehicle, collisionTypeObstacle)
	hitHandler.UserData = pw
	hitHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return true
		}
		world.obstacleHits++
		return true
	}

	pw.handlersReady = true
}
