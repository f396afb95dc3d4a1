package sim

import (
	"math"
	"testing"

	"github.com/milk9111/truckrun/common"
	"github.com/milk9111/truckrun/ecs"
	"github.com/milk9111/truckrun/ecs/component"
	"github.com/milk9111/truckrun/ecs/entity"
	"github.com/milk9111/truckrun/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, variant string, seed int64, autopilot bool) *Session {
	t.Helper()
	level, err := prefabs.LoadLevelSpec()
	require.NoError(t, err)
	vehicle, err := prefabs.LoadVehicleSpec(variant)
	require.NoError(t, err)

	opts := Options{
		Level:          level,
		Vehicle:        vehicle,
		Seed:           seed,
		ViewportWidth:  1280,
		ViewportHeight: 720,
	}
	if autopilot {
		opts.Autopilot, err = prefabs.LoadScript("autopilot.tengo")
		require.NoError(t, err)
	}
	s, err := New(opts)
	require.NoError(t, err)
	return s
}

func obstacleXs(s *Session) []float64 {
	var xs []float64
	for _, e := range s.Streamer().Live() {
		x, _ := entity.ObstacleX(s.World(), e)
		xs = append(xs, x)
	}
	return xs
}

func TestNewSession(t *testing.T) {
	tests := []struct {
		variant     string
		bodies      int
		constraints int
	}{
		{"simple", 1 + 1 + 5, 0},
		{"composite", 1 + 3 + 5, 2},
	}

	for _, tc := range tests {
		t.Run(tc.variant, func(t *testing.T) {
			s := newSession(t, tc.variant, 1, false)
			st := s.Stats()
			assert.Equal(t, tc.bodies, st.Bodies)
			assert.Equal(t, tc.constraints, st.Constraints)
			assert.Equal(t, 5, st.Live)
			assert.True(t, st.Grounded)
			assert.Equal(t, 0.0, st.Distance)

			offset, baseline := s.Camera()
			assert.Equal(t, 0.0, offset)
			assert.Equal(t, 720-40-680.0, baseline)
		})
	}
}

func TestNewSessionRequiresSpecs(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestSessionDrivesRight(t *testing.T) {
	s := newSession(t, "simple", 1, false)
	s.PushInput(component.ControlRight, "key:ArrowRight", true)
	for i := 0; i < 120; i++ {
		s.Tick(common.FrameMs)
	}
	assert.Greater(t, s.Stats().Distance, 100.0)
}

func TestSessionIsDeterministic(t *testing.T) {
	run := func() ([]float64, entity.Pose) {
		s := newSession(t, "composite", 99, true)
		for i := 0; i < 600; i++ {
			s.Tick(common.FrameMs)
		}
		return obstacleXs(s), s.Pose()
	}
	xsA, poseA := run()
	xsB, poseB := run()
	assert.Equal(t, xsA, xsB)
	assert.Equal(t, poseA, poseB)
}

func TestSessionSeedChangesCourse(t *testing.T) {
	a := obstacleXs(newSession(t, "simple", 1, false))
	b := obstacleXs(newSession(t, "simple", 2, false))
	assert.NotEqual(t, a, b)
}

func TestSessionIgnoresBadDelta(t *testing.T) {
	s := newSession(t, "simple", 1, false)
	before := s.Pose()
	for _, dt := range []float64{-16, 0, math.NaN(), math.Inf(1), math.Inf(-1)} {
		s.Tick(dt)
	}
	assert.Equal(t, before, s.Pose())
	assert.Equal(t, 0, s.Physics().Steps())
	assert.Equal(t, 0.0, s.Stats().ElapsedMs)
}

func TestSessionCameraLeadsByAThird(t *testing.T) {
	s := newSession(t, "simple", 1, false)
	e, ok := s.World().First(component.CameraComponent.Kind())
	require.True(t, ok)
	cam, ok := ecs.Get(s.World(), e, component.CameraComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 1.0/3.0, cam.LeadFraction)
}

func TestSessionClampsLongFrames(t *testing.T) {
	s := newSession(t, "simple", 1, false)
	s.Tick(1e12)
	assert.Equal(t, s.Physics().Config().MaxStepMs, s.Stats().ElapsedMs)
}

func TestSessionKeepsSpawningAfterBadDelta(t *testing.T) {
	s := newSession(t, "simple", 7, true)
	s.Tick(math.Inf(1))
	s.Tick(math.NaN())
	for i := 0; i < 60*60; i++ {
		s.Tick(common.FrameMs)
	}
	st := s.Stats()
	assert.Greater(t, st.Spawned, s.Level().Obstacles.InitialCount)
	assert.LessOrEqual(t, st.PeakLive, st.LiveBound)
}

func TestSessionResizeKeepsSimulation(t *testing.T) {
	s := newSession(t, "simple", 1, false)
	s.Tick(common.FrameMs)
	before := s.Pose()

	s.Resize(800, 1000)
	s.Tick(0)

	_, baseline := s.Camera()
	assert.Equal(t, 1000-40-680.0, baseline)
	assert.Equal(t, before, s.Pose())
}

func TestSessionAutopilotStaysBounded(t *testing.T) {
	s := newSession(t, "simple", 7, true)
	for i := 0; i < 60*60; i++ {
		s.Tick(common.FrameMs)
		st := s.Stats()
		require.LessOrEqual(t, st.Live, st.LiveBound, "tick %d", i)
	}
	st := s.Stats()
	assert.Greater(t, st.Distance, 0.0)
	assert.Equal(t, 0, st.ScriptErrors)
	assert.LessOrEqual(t, st.PeakLive, st.LiveBound)
}

func TestApplyTuning(t *testing.T) {
	s := newSession(t, "simple", 1, false)
	level, err := prefabs.LoadLevelSpec()
	require.NoError(t, err)
	vehicle, err := prefabs.LoadVehicleSpec("simple")
	require.NoError(t, err)

	level.Obstacles.SpawnIntervalMs = 500
	level.Obstacles.MinSpacing = 300
	vehicle.DriveForce = 12345
	s.ApplyTuning(level, vehicle)

	assert.Equal(t, 500.0, s.spawnTimer.Period())
	assert.Equal(t, 300.0, s.Streamer().Tuning.MinSpacing)
	assert.Equal(t, 12345.0, s.driver.Tuning.DriveForce)
	assert.Equal(t, 5, s.Stats().Live, "tuning never resets the world")
}

func TestParseSeed(t *testing.T) {
	assert.Equal(t, int64(42), ParseSeed("42"))
	assert.Equal(t, int64(-3), ParseSeed(" -3 "))
	assert.Equal(t, int64(0), ParseSeed(""))
	assert.Equal(t, ParseSeed("desert run"), ParseSeed("desert run"))
	assert.NotEqual(t, ParseSeed("desert run"), ParseSeed("desert rum"))
}
