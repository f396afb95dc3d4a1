package system

import (
	"image/color"
	"sort"

	"github.com/milk9111/truckrun/ecs"
	"github.com/milk9111/truckrun/ecs/component"
)

// Surface is the 2D drawing target the scene is painted onto. Coordinates
// are transformed by the current translate/rotate stack.
type Surface interface {
	Size() (float64, float64)
	Clear(c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
	FillCircle(cx, cy, r float64, c color.Color)
	Translate(dx, dy float64)
	Rotate(theta float64)
	Save()
	Restore()
}

// RenderSystem paints the scene. It only reads poses.
type RenderSystem struct {
	Sky color.Color
}

func NewRenderSystem(sky color.Color) *RenderSystem {
	return &RenderSystem{Sky: sky}
}

func (r *RenderSystem) Draw(w *ecs.World, s Surface) {
	if r == nil || w == nil || s == nil {
		return
	}

	cam := camera(w)
	offset, baseline := 0.0, 0.0
	if cam != nil {
		offset, baseline = cam.OffsetX, cam.Baseline
	}
	sw, sh := s.Size()

	s.Clear(r.Sky)
	s.Save()
	defer s.Restore()
	s.Translate(-offset, baseline)
	s.FillRect(offset, -baseline, sw, sh, r.Sky)

	entities := w.Query(component.AppearanceComponent.Kind(), component.PhysicsBodyComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		ai, _ := ecs.Get(w, entities[i], component.AppearanceComponent.Kind())
		aj, _ := ecs.Get(w, entities[j], component.AppearanceComponent.Kind())
		return ai.Layer < aj.Layer
	})

	for _, e := range entities {
		app, _ := ecs.Get(w, e, component.AppearanceComponent.Kind())
		pb, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if pb.Body == nil {
			continue
		}
		pos := pb.Body.Position()

		s.Save()
		s.Translate(pos.X, pos.Y)
		s.Rotate(pb.Body.Angle())
		switch pb.Geometry.Kind {
		case component.GeometryCircle:
			s.FillCircle(0, 0, pb.Geometry.Radius, app.Color)
		default:
			width, height := pb.Geometry.Extent()
			s.FillRect(-width/2, -height/2, width, height, app.Color)
		}
		s.Restore()
	}
}
