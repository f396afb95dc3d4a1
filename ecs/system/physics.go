package system

import (
	"github.com/milk9111/truckrun/ecs"
	"github.com/milk9111/truckrun/ecs/component"
)

// PhysicsSystem advances the attached physics world by the frame delta and
// copies body poses into transforms.
type PhysicsSystem struct{}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{}
}

func (p *PhysicsSystem) Update(w *ecs.World) {
	if p == nil || w == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	pw.Advance(w.FrameDeltaMs())

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, tr *component.Transform) {
		if pb.Static || pb.Body == nil {
			return
		}
		pos := pb.Body.Position()
		tr.X = pos.X
		tr.Y = pos.Y
		tr.Rotation = pb.Body.Angle()
	})
}
