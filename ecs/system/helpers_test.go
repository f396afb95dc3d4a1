package system

import (
	"testing"

	"github.com/milk9111/truckrun/ecs"
	"github.com/milk9111/truckrun/ecs/component"
	"github.com/milk9111/truckrun/ecs/entity"
	"github.com/milk9111/truckrun/prefabs"
	"github.com/stretchr/testify/require"
)

const (
	testGroundY   = 680.0
	testViewportW = 800.0
	testViewportH = 600.0
	frameMs       = 1000.0 / 60.0
)

func testLevel() *prefabs.LevelSpec {
	return &prefabs.LevelSpec{
		Ground: prefabs.GroundSpec{Y: testGroundY, Height: 40, LevelWidth: 200000, Friction: 0.8},
		Obstacles: prefabs.ObstacleSpec{
			InitialCount:    5,
			FirstX:          600,
			Spacing:         400,
			Jitter:          200,
			SizeMin:         40,
			SizeMax:         80,
			SpawnIntervalMs: 2000,
			SpawnAhead:      200,
			MinSpacing:      200,
			MaxSpawnBurst:   3,
			Friction:        0.8,
		},
		Camera: prefabs.CameraSpec{LeadFraction: 1.0 / 3.0},
	}
}

func truckSpec() *prefabs.VehicleSpec {
	return &prefabs.VehicleSpec{
		Variant:         "simple",
		StartX:          100,
		Chassis:         prefabs.BodySpec{Width: 200, Height: 100, Mass: 20, Friction: 0.2, AirFriction: 0.05},
		DriveForce:      30000,
		JumpVelocity:    -600,
		GroundTolerance: 5,
	}
}

type fixture struct {
	w       *ecs.World
	pw      *ecs.PhysicsWorld
	level   *prefabs.LevelSpec
	vehicle *component.Vehicle
	entity  ecs.Entity
}

func newFixture(t *testing.T, spec *prefabs.VehicleSpec) *fixture {
	t.Helper()
	level := testLevel()
	w := ecs.NewWorld()
	pw := ecs.NewPhysicsWorld(ecs.DefaultPhysicsConfig())
	w.SetPhysicsWorld(pw)

	_, err := entity.NewGround(w, pw, level)
	require.NoError(t, err)
	cam, err := entity.NewCamera(w, level)
	require.NoError(t, err)
	c, _ := ecs.Get(w, cam, component.CameraComponent.Kind())
	c.ViewportWidth, c.ViewportHeight = testViewportW, testViewportH

	v, e, err := entity.SpawnVehicle(w, pw, spec, level.Ground.Y)
	require.NoError(t, err)

	return &fixture{w: w, pw: pw, level: level, vehicle: v, entity: e}
}

// moveTo teleports the chassis so streaming can be driven without physics.
func (f *fixture) moveTo(x float64) {
	pos := f.vehicle.Chassis.Position()
	pos.X = x
	f.vehicle.Chassis.SetPosition(pos)
}

// frame drains pushed events and runs the given systems once.
func (f *fixture) frame(systems ...ecs.System) {
	f.w.BeginFrame(frameMs)
	for _, s := range systems {
		s.Update(f.w)
	}
}

func pushSpawns(w *ecs.World, n int) {
	for i := 0; i < n; i++ {
		w.Events().Push(ecs.Event{Type: ecs.EventSpawnObstacle})
	}
}
