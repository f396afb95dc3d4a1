package sim

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/milk9111/truckrun/common"
	"github.com/milk9111/truckrun/ecs"
	"github.com/milk9111/truckrun/ecs/component"
	"github.com/milk9111/truckrun/ecs/entity"
	"github.com/milk9111/truckrun/ecs/system"
	"github.com/milk9111/truckrun/prefabs"
)

// Options configures a new session. Level and Vehicle are required.
type Options struct {
	Level   *prefabs.LevelSpec
	Vehicle *prefabs.VehicleSpec
	Seed    int64
	// Autopilot is tengo source; nil leaves the vehicle to the player.
	Autopilot      []byte
	ViewportWidth  float64
	ViewportHeight float64
	Logger         *log.Logger
}

// Session owns one run: the ECS world, the physics world, the systems and
// the spawn timer. It is not safe for concurrent use.
type Session struct {
	ID     uuid.UUID
	logger *log.Logger

	level       *prefabs.LevelSpec
	vehicleSpec *prefabs.VehicleSpec

	world         *ecs.World
	physics       *ecs.PhysicsWorld
	vehicle       *component.Vehicle
	vehicleEntity ecs.Entity
	spawnTimer    *ecs.Timer

	autopilot *system.AutopilotSystem
	input     *system.InputSystem
	driver    *system.VehicleSystem
	streamer  *system.StreamerSystem
	renderer  *system.RenderSystem
	scheduler *ecs.Scheduler

	startX     float64
	ticks      int
	elapsedMs  float64
	peakBodies int
}

func New(opts Options) (*Session, error) {
	if opts.Level == nil || opts.Vehicle == nil {
		return nil, fmt.Errorf("sim: level and vehicle specs are required")
	}
	if err := opts.Level.Validate(); err != nil {
		return nil, fmt.Errorf("sim: level: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	id := uuid.New()
	s := &Session{
		ID:          id,
		logger:      logger.With("session", id.String()[:8]),
		level:       opts.Level,
		vehicleSpec: opts.Vehicle,
	}

	s.world = ecs.NewWorld()
	s.physics = ecs.NewPhysicsWorld(physicsConfig(opts.Level.Physics))
	s.world.SetPhysicsWorld(s.physics)

	if _, err := entity.NewGround(s.world, s.physics, opts.Level); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	cam, err := entity.NewCamera(s.world, opts.Level)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	vw, vh := opts.ViewportWidth, opts.ViewportHeight
	if !(vw > 0) || !(vh > 0) {
		vw, vh = common.DefaultScreenWidth, common.DefaultScreenHeight
	}
	if c, ok := ecs.Get(s.world, cam, component.CameraComponent.Kind()); ok {
		c.ViewportWidth, c.ViewportHeight = vw, vh
	}

	s.vehicle, s.vehicleEntity, err = entity.SpawnVehicle(s.world, s.physics, opts.Vehicle, opts.Level.Ground.Y)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	s.startX = s.vehicle.X()
	s.logger.Info("vehicle spawned", "variant", s.vehicle.Variant, "x", s.startX, "rest_height", s.vehicle.RestHeight)

	s.streamer = system.NewStreamerSystem(opts.Level, opts.Seed, s.logger)
	if err := s.streamer.SpawnInitial(s.world); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	s.spawnTimer = ecs.NewTimer(opts.Level.Obstacles.SpawnIntervalMs)

	if opts.Autopilot != nil {
		s.autopilot, err = system.NewAutopilotSystem(opts.Autopilot, opts.Level.Ground.Y, opts.Vehicle.GroundTolerance, s.logger)
		if err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
	}

	s.input = system.NewInputSystem()
	s.driver = system.NewVehicleSystem(vehicleTuning(opts.Vehicle), opts.Level.Ground.Y)
	s.renderer = system.NewRenderSystem(entity.SkyColor(opts.Level))
	s.scheduler = ecs.NewScheduler(
		system.NewViewportSystem(),
		s.input,
		s.driver,
		system.NewPhysicsSystem(),
		s.streamer,
		system.NewCameraSystem(opts.Level.Ground.Y, opts.Level.Ground.Height),
	)
	// Settle the camera before the first draw.
	s.world.BeginFrame(0)
	s.scheduler.Update(s.world)
	s.notePeaks()
	return s, nil
}

func physicsConfig(p prefabs.PhysicsSpec) ecs.PhysicsConfig {
	cfg := ecs.DefaultPhysicsConfig()
	if p.Gravity != 0 {
		cfg.Gravity = p.Gravity
	}
	if p.Iterations > 0 {
		cfg.Iterations = p.Iterations
	}
	if p.FixedStepMs > 0 {
		cfg.FixedStepMs = p.FixedStepMs
	}
	if p.MaxStepMs > 0 {
		cfg.MaxStepMs = p.MaxStepMs
	}
	if p.SpringRate > 0 {
		cfg.SpringRate = p.SpringRate
	}
	if p.SpringDamping > 0 {
		cfg.SpringDamping = p.SpringDamping
	}
	return cfg
}

func vehicleTuning(v *prefabs.VehicleSpec) system.VehicleTuning {
	return system.VehicleTuning{
		DriveForce:      v.DriveForce,
		JumpVelocity:    v.JumpVelocity,
		GroundTolerance: v.GroundTolerance,
	}
}

// Tick runs one frame: timer and autopilot commands are queued, the queue is
// drained once, and the systems run in their fixed order. NaN, infinite and
// negative dt count as 0; long frames are clamped to the physics MaxStepMs.
func (s *Session) Tick(dtMs float64) {
	if s == nil {
		return
	}
	if !(dtMs > 0) || math.IsInf(dtMs, 0) {
		dtMs = 0
	}
	if maxDt := s.physics.Config().MaxStepMs; dtMs > maxDt {
		dtMs = maxDt
	}

	for n := s.spawnTimer.Advance(dtMs); n > 0; n-- {
		s.world.Events().Push(ecs.Event{Type: ecs.EventSpawnObstacle})
	}
	if s.autopilot != nil {
		s.autopilot.Update(s.world)
	}

	s.world.BeginFrame(dtMs)
	s.scheduler.Update(s.world)

	s.ticks++
	s.elapsedMs += dtMs
	s.notePeaks()
}

func (s *Session) notePeaks() {
	if n := s.physics.BodyCount(); n > s.peakBodies {
		s.peakBodies = n
	}
}

// Push queues a command for the next tick.
func (s *Session) Push(evt ecs.Event) {
	if s == nil {
		return
	}
	s.world.Events().Push(evt)
}

func (s *Session) PushInput(c component.Control, source string, pressed bool) {
	if s == nil {
		return
	}
	s.world.Events().PushInput(c, source, pressed)
}

// Resize queues a viewport change. Physics is untouched.
func (s *Session) Resize(width, height float64) {
	s.Push(ecs.Event{Type: ecs.EventResize, Data: ecs.ResizeEvent{Width: width, Height: height}})
}

// Draw paints the current poses onto surface.
func (s *Session) Draw(surface system.Surface) {
	if s == nil {
		return
	}
	s.renderer.Draw(s.world, surface)
}

// ApplyTuning swaps the runtime-tunable values from freshly loaded specs.
// Geometry differences need a new session and are only reported.
func (s *Session) ApplyTuning(level *prefabs.LevelSpec, vehicle *prefabs.VehicleSpec) {
	if s == nil {
		return
	}
	if level != nil {
		o := level.Obstacles
		s.spawnTimer.SetPeriod(o.SpawnIntervalMs)
		s.streamer.Tuning = system.StreamTuning{
			SpawnAhead:    o.SpawnAhead,
			MinSpacing:    o.MinSpacing,
			MaxSpawnBurst: o.MaxSpawnBurst,
		}
		if level.Ground != s.level.Ground {
			s.logger.Warn("ground change ignored until restart")
		}
		s.logger.Info("level tuning applied", "spawn_interval_ms", o.SpawnIntervalMs, "min_spacing", o.MinSpacing, "spawn_ahead", o.SpawnAhead)
	}
	if vehicle != nil {
		s.driver.Tuning = vehicleTuning(vehicle)
		if vehicle.Variant != s.vehicleSpec.Variant || vehicle.Chassis.Width != s.vehicleSpec.Chassis.Width || vehicle.Chassis.Height != s.vehicleSpec.Chassis.Height {
			s.logger.Warn("vehicle geometry change ignored until restart")
		}
		s.logger.Info("vehicle tuning applied", "drive_force", vehicle.DriveForce, "jump_velocity", vehicle.JumpVelocity)
	}
}

func (s *Session) World() *ecs.World {
	return s.world
}

func (s *Session) Physics() *ecs.PhysicsWorld {
	return s.physics
}

func (s *Session) Vehicle() *component.Vehicle {
	return s.vehicle
}

func (s *Session) Streamer() *system.StreamerSystem {
	return s.streamer
}

func (s *Session) Level() *prefabs.LevelSpec {
	return s.level
}

func (s *Session) Logger() *log.Logger {
	return s.logger
}

// Pose snapshots the vehicle.
func (s *Session) Pose() entity.Pose {
	return entity.VehiclePose(s.vehicle)
}

// Camera returns the horizontal offset and vertical baseline of the last
// tick.
func (s *Session) Camera() (offsetX, baseline float64) {
	e, ok := s.world.First(component.CameraComponent.Kind())
	if !ok {
		return 0, 0
	}
	c, _ := ecs.Get(s.world, e, component.CameraComponent.Kind())
	return c.OffsetX, c.Baseline
}

// Stats is a snapshot for the HUD and soak report.
type Stats struct {
	Ticks        int
	ElapsedMs    float64
	VehicleX     float64
	Distance     float64
	Grounded     bool
	Live         int
	PeakLive     int
	LiveBound    int
	Spawned      int
	Removed      int
	Bodies       int
	PeakBodies   int
	Constraints  int
	Jumps        int
	ObstacleHits int
	ScriptErrors int
}

func (s *Session) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	vw, _ := system.Viewport(s.world)
	st := s.streamer.Stats()
	x := s.vehicle.X()
	return Stats{
		Ticks:        s.ticks,
		ElapsedMs:    s.elapsedMs,
		VehicleX:     x,
		Distance:     x - s.startX,
		Grounded:     system.IsGrounded(s.vehicle, s.level.Ground.Y, s.driver.Tuning.GroundTolerance),
		Live:         st.Live,
		PeakLive:     st.Peak,
		LiveBound:    s.streamer.LiveBound(vw),
		Spawned:      st.Spawned,
		Removed:      st.Removed,
		Bodies:       s.physics.BodyCount(),
		PeakBodies:   s.peakBodies,
		Constraints:  s.physics.ConstraintCount(),
		Jumps:        s.driver.Jumps(),
		ObstacleHits: s.physics.ObstacleHits(),
		ScriptErrors: s.autopilot.Errors(),
	}
}
