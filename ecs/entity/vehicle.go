package entity

import (
	"fmt"
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/truckrun/ecs"
	"github.com/milk9111/truckrun/ecs/component"
	"github.com/milk9111/truckrun/prefabs"
)

// vehicleGroup keeps the chassis and wheels of one assembly from colliding
// with each other.
const vehicleGroup uint = 1

var defaultVehicleColor = color.RGBA{A: 0xFF}

// vehicleBuilder is one way of assembling a vehicle from a spec.
type vehicleBuilder interface {
	restHeight(spec *prefabs.VehicleSpec) float64
	build(w *ecs.World, pw *ecs.PhysicsWorld, spec *prefabs.VehicleSpec, pos cp.Vector) (*component.Vehicle, ecs.Entity, error)
}

func builderFor(variant string) (vehicleBuilder, component.VehicleVariant, error) {
	switch component.VehicleVariant(variant) {
	case component.VehicleSimple, "":
		return simpleBuilder{}, component.VehicleSimple, nil
	case component.VehicleComposite:
		return compositeBuilder{}, component.VehicleComposite, nil
	default:
		return nil, "", fmt.Errorf("vehicle: unknown variant %q", variant)
	}
}

// SpawnVehicle builds the player's vehicle resting on groundY at spec.StartX
// and registers all of its bodies and axles with pw.
func SpawnVehicle(w *ecs.World, pw *ecs.PhysicsWorld, spec *prefabs.VehicleSpec, groundY float64) (*component.Vehicle, ecs.Entity, error) {
	if w == nil || pw == nil || spec == nil {
		return nil, 0, fmt.Errorf("vehicle: world, physics, and spec are required")
	}
	if spec.Chassis.Width <= 0 || spec.Chassis.Height <= 0 {
		return nil, 0, fmt.Errorf("vehicle: chassis size %gx%g is invalid", spec.Chassis.Width, spec.Chassis.Height)
	}
	b, variant, err := builderFor(spec.Variant)
	if err != nil {
		return nil, 0, err
	}

	rest := b.restHeight(spec)
	v, e, err := b.build(w, pw, spec, cp.Vector{X: spec.StartX, Y: groundY - rest})
	if err != nil {
		return nil, 0, err
	}
	v.Variant = variant
	v.RestHeight = rest

	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return nil, 0, fmt.Errorf("vehicle: add input: %w", err)
	}
	return v, e, nil
}

// addChassis creates the chassis entity with its body, transform, and fill.
func addChassis(w *ecs.World, pw *ecs.PhysicsWorld, spec *prefabs.VehicleSpec, pos cp.Vector, group uint) (ecs.Entity, *component.PhysicsBody, error) {
	c := spec.Chassis
	e := ecs.CreateEntity(w)

	body := pw.CreateBody(component.Rect(c.Width, c.Height), pos, component.Material{
		Mass:        c.Mass,
		Friction:    c.Friction,
		Restitution: c.Restitution,
		AirFriction: c.AirFriction,
		Group:       group,
	}, component.RoleVehicle)
	pw.Add(body)
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body); err != nil {
		pw.Remove(body)
		return 0, nil, fmt.Errorf("vehicle: add chassis body: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y}); err != nil {
		return 0, nil, fmt.Errorf("vehicle: add chassis transform: %w", err)
	}
	if err := ecs.Add(w, e, component.AppearanceComponent.Kind(), &component.Appearance{
		Color: colorOr(c.Color, defaultVehicleColor),
		Layer: LayerVehicle,
	}); err != nil {
		return 0, nil, fmt.Errorf("vehicle: add chassis appearance: %w", err)
	}
	return e, body, nil
}

type simpleBuilder struct{}

func (simpleBuilder) restHeight(spec *prefabs.VehicleSpec) float64 {
	return spec.Chassis.Height / 2
}

func (simpleBuilder) build(w *ecs.World, pw *ecs.PhysicsWorld, spec *prefabs.VehicleSpec, pos cp.Vector) (*component.Vehicle, ecs.Entity, error) {
	e, body, err := addChassis(w, pw, spec, pos, 0)
	if err != nil {
		return nil, 0, err
	}
	v := &component.Vehicle{
		Chassis: body.Body,
		Width:   spec.Chassis.Width,
		Height:  spec.Chassis.Height,
	}
	if err := ecs.Add(w, e, component.VehicleComponent.Kind(), v); err != nil {
		return nil, 0, fmt.Errorf("vehicle: add vehicle: %w", err)
	}
	return v, e, nil
}

// compositeBuilder makes a chassis riding on two wheels, one at each end.
type compositeBuilder struct{}

func (compositeBuilder) restHeight(spec *prefabs.VehicleSpec) float64 {
	return spec.Wheels.OffsetY + spec.Wheels.Radius
}

func (compositeBuilder) build(w *ecs.World, pw *ecs.PhysicsWorld, spec *prefabs.VehicleSpec, pos cp.Vector) (*component.Vehicle, ecs.Entity, error) {
	ws := spec.Wheels
	if ws.Radius <= 0 {
		return nil, 0, fmt.Errorf("vehicle: wheel radius must be positive, got %g", ws.Radius)
	}

	e, chassis, err := addChassis(w, pw, spec, pos, vehicleGroup)
	if err != nil {
		return nil, 0, err
	}
	v := &component.Vehicle{
		Chassis:     chassis.Body,
		Width:       spec.Chassis.Width,
		Height:      spec.Chassis.Height,
		WheelRadius: ws.Radius,
	}

	for i, side := range [...]float64{-1, 1} {
		anchor := cp.Vector{X: side * ws.OffsetX, Y: ws.OffsetY}
		wheelPos := pos.Add(anchor)

		we := ecs.CreateEntity(w)
		if err := ecs.Add(w, we, component.WheelTagComponent.Kind(), &component.WheelTag{Index: i}); err != nil {
			return nil, 0, fmt.Errorf("vehicle: add wheel tag: %w", err)
		}
		wheel := pw.CreateBody(component.Circle(ws.Radius), wheelPos, component.Material{
			Mass:        ws.Mass,
			Friction:    ws.Friction,
			Restitution: ws.Restitution,
			AirFriction: ws.AirFriction,
			Group:       vehicleGroup,
		}, component.RoleVehicle)
		pw.Add(wheel)
		if err := ecs.Add(w, we, component.PhysicsBodyComponent.Kind(), wheel); err != nil {
			pw.Remove(wheel)
			return nil, 0, fmt.Errorf("vehicle: add wheel body: %w", err)
		}
		if err := ecs.Add(w, we, component.TransformComponent.Kind(), &component.Transform{X: wheelPos.X, Y: wheelPos.Y}); err != nil {
			return nil, 0, fmt.Errorf("vehicle: add wheel transform: %w", err)
		}
		if err := ecs.Add(w, we, component.AppearanceComponent.Kind(), &component.Appearance{
			Color: colorOr(ws.Color, defaultVehicleColor),
			Layer: LayerWheel,
		}); err != nil {
			return nil, 0, fmt.Errorf("vehicle: add wheel appearance: %w", err)
		}

		axle := pw.CreateConstraint(chassis.Body, anchor, wheel.Body, cp.Vector{}, ws.AxleStiffness)
		pw.AddConstraint(axle)
		if err := ecs.Add(w, we, component.AxleComponent.Kind(), axle); err != nil {
			return nil, 0, fmt.Errorf("vehicle: add axle: %w", err)
		}

		v.Wheels = append(v.Wheels, wheel.Body)
		v.Axles = append(v.Axles, axle.Constraint)
	}

	if err := ecs.Add(w, e, component.VehicleComponent.Kind(), v); err != nil {
		return nil, 0, fmt.Errorf("vehicle: add vehicle: %w", err)
	}
	return v, e, nil
}

// WheelPose is the world pose of one wheel.
type WheelPose struct {
	X, Y   float64
	Angle  float64
	Radius float64
}

// Pose is a read-only snapshot of the vehicle for rendering and tests.
type Pose struct {
	X, Y          float64
	Angle         float64
	Width, Height float64
	Wheels        []WheelPose
}

func VehiclePose(v *component.Vehicle) Pose {
	if v == nil || v.Chassis == nil {
		return Pose{}
	}
	p := v.Chassis.Position()
	pose := Pose{
		X:      p.X,
		Y:      p.Y,
		Angle:  v.Chassis.Angle(),
		Width:  v.Width,
		Height: v.Height,
	}
	for _, wb := range v.Wheels {
		if wb == nil {
			continue
		}
		wp := wb.Position()
		pose.Wheels = append(pose.Wheels, WheelPose{X: wp.X, Y: wp.Y, Angle: wb.Angle(), Radius: v.WheelRadius})
	}
	return pose
}
