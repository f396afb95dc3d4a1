package system

import (
	"math"

	"github.com/milk9111/truckrun/ecs"
	"github.com/milk9111/truckrun/ecs/component"
)

const defaultLeadFraction = 1.0 / 3.0

// ViewportSystem applies resize commands to the camera before anything that
// depends on the viewport runs.
type ViewportSystem struct{}

func NewViewportSystem() *ViewportSystem {
	return &ViewportSystem{}
}

func (s *ViewportSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	cam := camera(w)
	if cam == nil {
		return
	}
	for _, evt := range w.FrameEvents() {
		if evt.Type != ecs.EventResize {
			continue
		}
		r, ok := evt.Data.(ecs.ResizeEvent)
		if !ok || !(r.Width > 0) || !(r.Height > 0) {
			continue
		}
		cam.ViewportWidth = r.Width
		cam.ViewportHeight = r.Height
	}
}

// CameraSystem keeps the vehicle a fixed fraction in from the left edge and
// pins the ground to the bottom of the surface.
type CameraSystem struct {
	GroundY      float64
	GroundHeight float64
}

func NewCameraSystem(groundY, groundHeight float64) *CameraSystem {
	return &CameraSystem{GroundY: groundY, GroundHeight: groundHeight}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if cs == nil || w == nil {
		return
	}
	cam := camera(w)
	if cam == nil {
		return
	}
	if v := vehicle(w); v != nil {
		cam.OffsetX = ComputeOffset(v.X(), cam.ViewportWidth, cam.LeadFraction)
	}
	cam.Baseline = Baseline(cam.ViewportHeight, cs.GroundY, cs.GroundHeight)
}

// ComputeOffset is the horizontal scroll that puts vehicleX at lead*width
// from the left edge, never scrolling past the level start.
func ComputeOffset(vehicleX, viewportWidth, lead float64) float64 {
	if lead <= 0 || lead >= 1 {
		lead = defaultLeadFraction
	}
	return math.Max(vehicleX-viewportWidth*lead, 0)
}

// Baseline is the vertical translation that maps world groundY to
// surfaceHeight-groundHeight.
func Baseline(surfaceHeight, groundY, groundHeight float64) float64 {
	return surfaceHeight - groundHeight - groundY
}

func camera(w *ecs.World) *component.Camera {
	e, ok := w.First(component.CameraComponent.Kind())
	if !ok {
		return nil
	}
	cam, _ := ecs.Get(w, e, component.CameraComponent.Kind())
	return cam
}

// Viewport returns the current viewport size, or zeros before the first
// resize.
func Viewport(w *ecs.World) (float64, float64) {
	cam := camera(w)
	if cam == nil {
		return 0, 0
	}
	return cam.ViewportWidth, cam.ViewportHeight
}

func vehicle(w *ecs.World) *component.Vehicle {
	e, ok := w.First(component.VehicleComponent.Kind())
	if !ok {
		return nil
	}
	v, _ := ecs.Get(w, e, component.VehicleComponent.Kind())
	return v
}
