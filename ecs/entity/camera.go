package entity

import (
	"fmt"

	"github.com/milk9111/truckrun/ecs"
	"github.com/milk9111/truckrun/ecs/component"
	"github.com/milk9111/truckrun/prefabs"
)

func NewCamera(w *ecs.World, level *prefabs.LevelSpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("camera: world is nil")
	}

	lead := 1.0 / 3.0
	if level != nil && level.Camera.LeadFraction > 0 && level.Camera.LeadFraction < 1 {
		lead = level.Camera.LeadFraction
	}

	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}
	if err := ecs.Add(w, camera, component.CameraComponent.Kind(), &component.Camera{LeadFraction: lead}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}
	return camera, nil
}
