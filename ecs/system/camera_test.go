package system

import (
	"testing"

	"github.com/milk9111/truckrun/ecs"
	"github.com/stretchr/testify/assert"
)

func TestComputeOffset(t *testing.T) {
	tests := []struct {
		name     string
		vehicleX float64
		width    float64
		lead     float64
		want     float64
	}{
		{"start_clamped", 100, 800, 1.0 / 3.0, 0},
		{"exactly_at_lead", 400, 1200, 1.0 / 3.0, 0},
		{"scrolling", 1000, 900, 1.0 / 3.0, 700},
		{"default_lead", 1000, 900, 0, 700},
		{"custom_lead", 1000, 800, 0.5, 600},
		{"negative_x", -50, 800, 1.0 / 3.0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, ComputeOffset(tc.vehicleX, tc.width, tc.lead), 1e-9)
		})
	}
}

func TestBaselineMapsGroundToBottom(t *testing.T) {
	for _, h := range []float64{400, 600, 1080} {
		b := Baseline(h, testGroundY, 40)
		assert.Equal(t, h-40, testGroundY+b)
	}
}

func TestCameraFollowsVehicleAndResize(t *testing.T) {
	f := newFixture(t, truckSpec())
	vp := NewViewportSystem()
	cs := NewCameraSystem(testGroundY, 40)

	f.moveTo(2000)
	f.frame(vp, cs)
	cam := camera(f.w)
	assert.InDelta(t, 2000-testViewportW/3, cam.OffsetX, 1e-9)
	assert.Equal(t, testViewportH-40-testGroundY, cam.Baseline)

	before := f.vehicle.Chassis.Position()
	f.w.Events().Push(ecs.Event{Type: ecs.EventResize, Data: ecs.ResizeEvent{Width: 1200, Height: 900}})
	f.frame(vp, cs)

	assert.Equal(t, 1200.0, cam.ViewportWidth)
	assert.InDelta(t, 2000-1200.0/3, cam.OffsetX, 1e-9)
	assert.Equal(t, 900-40-testGroundY, cam.Baseline)
	assert.Equal(t, before, f.vehicle.Chassis.Position(), "resizing never moves physics")
}

func TestViewportIgnoresDegenerateResize(t *testing.T) {
	f := newFixture(t, truckSpec())
	vp := NewViewportSystem()

	f.w.Events().Push(ecs.Event{Type: ecs.EventResize, Data: ecs.ResizeEvent{Width: 0, Height: 500}})
	f.w.Events().Push(ecs.Event{Type: ecs.EventResize, Data: ecs.ResizeEvent{Width: -10, Height: -10}})
	f.frame(vp)

	w, h := Viewport(f.w)
	assert.Equal(t, testViewportW, w)
	assert.Equal(t, testViewportH, h)
}
