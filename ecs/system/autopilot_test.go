package system

import (
	"testing"

	"github.com/milk9111/truckrun/ecs"
	"github.com/milk9111/truckrun/ecs/component"
	"github.com/milk9111/truckrun/ecs/entity"
	"github.com/milk9111/truckrun/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainInputs(w *ecs.World) []ecs.InputEvent {
	var out []ecs.InputEvent
	for _, evt := range w.Events().Drain() {
		if in, ok := evt.Data.(ecs.InputEvent); ok {
			out = append(out, in)
		}
	}
	return out
}

func TestAutopilotDefaultScript(t *testing.T) {
	src, err := prefabs.LoadScript("autopilot.tengo")
	require.NoError(t, err)

	f := newFixture(t, truckSpec())
	ap, err := NewAutopilotSystem(src, testGroundY, 5, nil)
	require.NoError(t, err)

	ap.Update(f.w)
	assert.Equal(t, []ecs.InputEvent{
		{Control: component.ControlRight, Source: AutopilotSource, Pressed: true},
	}, drainInputs(f.w))

	ap.Update(f.w)
	assert.Empty(t, drainInputs(f.w), "unchanged decisions push nothing")

	_, err = entity.NewObstacle(f.w, f.pw, f.level, 300, 40)
	require.NoError(t, err)
	ap.Update(f.w)
	assert.Equal(t, []ecs.InputEvent{
		{Control: component.ControlJump, Source: AutopilotSource, Pressed: true},
	}, drainInputs(f.w))
}

func TestAutopilotReleasesOnScriptError(t *testing.T) {
	src := []byte(`
decide := func(engine) {
	if engine.vehicle_x > 1000 {
		return 1
	}
	return {left: true}
}
`)
	f := newFixture(t, truckSpec())
	ap, err := NewAutopilotSystem(src, testGroundY, 5, nil)
	require.NoError(t, err)

	ap.Update(f.w)
	require.Len(t, drainInputs(f.w), 1)

	f.moveTo(2000)
	ap.Update(f.w)
	assert.Equal(t, []ecs.InputEvent{
		{Control: component.ControlLeft, Source: AutopilotSource, Pressed: false},
	}, drainInputs(f.w))
	assert.Equal(t, 1, ap.Errors())
}

func TestAutopilotCompileError(t *testing.T) {
	_, err := NewAutopilotSystem([]byte(`decide := func(engine) {`), testGroundY, 5, nil)
	assert.Error(t, err)
}

func TestObserveNextObstacle(t *testing.T) {
	f := newFixture(t, truckSpec())
	_, err := entity.NewObstacle(f.w, f.pw, f.level, 900, 60)
	require.NoError(t, err)
	_, err = entity.NewObstacle(f.w, f.pw, f.level, 500, 40)
	require.NoError(t, err)
	_, err = entity.NewObstacle(f.w, f.pw, f.level, -400, 40)
	require.NoError(t, err)

	obs := Observe(f.w, f.vehicle, testGroundY, 5)
	assert.True(t, obs.Grounded)
	assert.Equal(t, 100.0, obs.VehicleX)
	assert.Equal(t, 280.0, obs.NextObstacleDX)
	assert.Equal(t, 40.0, obs.NextObstacleSize)
}
