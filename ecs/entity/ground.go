package entity

import (
	"fmt"
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/truckrun/ecs"
	"github.com/milk9111/truckrun/ecs/component"
	"github.com/milk9111/truckrun/prefabs"
)

const (
	LayerSky = iota
	LayerGround
	LayerObstacle
	LayerVehicle
	LayerWheel
)

var (
	defaultSkyColor      = color.RGBA{R: 0x87, G: 0xCE, B: 0xEB, A: 0xFF}
	defaultGroundColor   = color.RGBA{R: 0x65, G: 0x43, B: 0x21, A: 0xFF}
	defaultObstacleColor = color.RGBA{R: 0x8B, G: 0x00, B: 0x00, A: 0xFF}
)

// NewGround creates the static slab spanning [0, LevelWidth] whose top
// surface sits at Ground.Y.
func NewGround(w *ecs.World, pw *ecs.PhysicsWorld, level *prefabs.LevelSpec) (ecs.Entity, error) {
	if w == nil || pw == nil || level == nil {
		return 0, fmt.Errorf("ground: world, physics, and level are required")
	}
	g := level.Ground

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.GroundTagComponent.Kind(), &component.GroundTag{Width: g.LevelWidth, Height: g.Height}); err != nil {
		return 0, fmt.Errorf("ground: add tag: %w", err)
	}

	center := cp.Vector{X: g.LevelWidth / 2, Y: g.Y + g.Height/2}
	body := pw.CreateBody(component.Rect(g.LevelWidth, g.Height), center, component.Material{
		Friction:    g.Friction,
		Restitution: g.Restitution,
		Static:      true,
	}, component.RoleGround)
	pw.Add(body)
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body); err != nil {
		pw.Remove(body)
		return 0, fmt.Errorf("ground: add physics body: %w", err)
	}

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: center.X, Y: center.Y}); err != nil {
		return 0, fmt.Errorf("ground: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.AppearanceComponent.Kind(), &component.Appearance{
		Color: colorOr(level.Palette.Ground, defaultGroundColor),
		Layer: LayerGround,
	}); err != nil {
		return 0, fmt.Errorf("ground: add appearance: %w", err)
	}
	return e, nil
}

// SkyColor returns the level's background fill.
func SkyColor(level *prefabs.LevelSpec) color.RGBA {
	if level == nil {
		return defaultSkyColor
	}
	return colorOr(level.Palette.Sky, defaultSkyColor)
}

// colorOr treats a fully transparent prefab colour as unset.
func colorOr(c prefabs.HexColor, fallback color.RGBA) color.RGBA {
	if c.A == 0 {
		return fallback
	}
	return c.RGBA
}
