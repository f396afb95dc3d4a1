package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/truckrun/ecs"
	"github.com/milk9111/truckrun/ecs/component"
	"github.com/milk9111/truckrun/prefabs"
)

// NewObstacle creates a static square of the given size resting on the
// ground with its centre at x.
func NewObstacle(w *ecs.World, pw *ecs.PhysicsWorld, level *prefabs.LevelSpec, x, size float64) (ecs.Entity, error) {
	if w == nil || pw == nil || level == nil {
		return 0, fmt.Errorf("obstacle: world, physics, and level are required")
	}
	if size <= 0 {
		return 0, fmt.Errorf("obstacle: size must be positive, got %g", size)
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ObstacleTagComponent.Kind(), &component.ObstacleTag{Size: size}); err != nil {
		return 0, fmt.Errorf("obstacle: add tag: %w", err)
	}

	center := cp.Vector{X: x, Y: level.Ground.Y - size/2}
	body := pw.CreateBody(component.Rect(size, size), center, component.Material{
		Friction:    level.Obstacles.Friction,
		Restitution: level.Obstacles.Restitution,
		Static:      true,
	}, component.RoleObstacle)
	pw.Add(body)
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body); err != nil {
		pw.Remove(body)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("obstacle: add physics body: %w", err)
	}

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: center.X, Y: center.Y}); err != nil {
		return 0, fmt.Errorf("obstacle: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.AppearanceComponent.Kind(), &component.Appearance{
		Color: colorOr(level.Palette.Obstacle, defaultObstacleColor),
		Layer: LayerObstacle,
	}); err != nil {
		return 0, fmt.Errorf("obstacle: add appearance: %w", err)
	}
	return e, nil
}

// ObstacleX returns the obstacle's body x, falling back to its transform.
func ObstacleX(w *ecs.World, e ecs.Entity) (float64, bool) {
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		return pb.Body.Position().X, true
	}
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		return tr.X, true
	}
	return 0, false
}

// DestroyObstacle takes the obstacle out of the physics world, then out of
// the ECS world.
func DestroyObstacle(w *ecs.World, pw *ecs.PhysicsWorld, e ecs.Entity) bool {
	if w == nil {
		return false
	}
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		pw.Remove(pb)
	}
	return ecs.DestroyEntity(w, e)
}
