package system

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/truckrun/ecs"
	"github.com/milk9111/truckrun/ecs/component"
)

// AutopilotSource is the input source name used for scripted presses.
const AutopilotSource = "autopilot"

const autopilotDispatchScript = `
__out = decide(__engine)
`

// AutopilotSystem runs a tengo script each tick and turns its decisions
// into input edges from AutopilotSource. It must run before the frame's
// events are drained.
type AutopilotSystem struct {
	compiled  *tengo.Compiled
	logger    *log.Logger
	groundY   float64
	tolerance float64

	held   map[component.Control]bool
	errors int
}

// NewAutopilotSystem compiles src. The script must define
// decide(engine) returning a map with left, right, and jump.
func NewAutopilotSystem(src []byte, groundY, tolerance float64, logger *log.Logger) (*AutopilotSystem, error) {
	script := tengo.NewScript(append(append([]byte{}, src...), autopilotDispatchScript...))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__out", nil)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("autopilot: compile: %w", err)
	}
	return &AutopilotSystem{
		compiled:  compiled,
		logger:    logger,
		groundY:   groundY,
		tolerance: tolerance,
		held:      make(map[component.Control]bool),
	}, nil
}

func (a *AutopilotSystem) Update(w *ecs.World) {
	if a == nil || a.compiled == nil || w == nil {
		return
	}
	v := vehicle(w)
	if v == nil || v.Chassis == nil {
		return
	}

	want, err := a.decide(Observe(w, v, a.groundY, a.tolerance))
	if err != nil {
		a.errors++
		if a.logger != nil {
			a.logger.Warn("autopilot script failed", "err", err)
		}
		want = map[component.Control]bool{}
	}

	for _, c := range component.AllControls {
		if want[c] == a.held[c] {
			continue
		}
		a.held[c] = want[c]
		w.Events().PushInput(c, AutopilotSource, want[c])
	}
}

// Errors counts ticks whose script run failed.
func (a *AutopilotSystem) Errors() int {
	if a == nil {
		return 0
	}
	return a.errors
}

func (a *AutopilotSystem) decide(obs Observation) (map[component.Control]bool, error) {
	if err := a.compiled.Set("__engine", obs.engine()); err != nil {
		return nil, err
	}
	if err := a.compiled.Run(); err != nil {
		return nil, err
	}
	out := a.compiled.Get("__out").Map()
	if out == nil {
		return nil, fmt.Errorf("decide must return a map")
	}
	want := make(map[component.Control]bool, len(component.AllControls))
	for _, c := range component.AllControls {
		b, _ := out[c.String()].(bool)
		want[c] = b
	}
	return want, nil
}

// Observation is what a scripted driver can see.
type Observation struct {
	VehicleX  float64
	VehicleY  float64
	VelocityX float64
	Grounded  bool
	// NextObstacleDX is the gap from the vehicle's front to the nearest
	// obstacle ahead, or -1 when nothing is ahead.
	NextObstacleDX   float64
	NextObstacleSize float64
}

// Observe samples the vehicle and the nearest obstacle in front of it.
func Observe(w *ecs.World, v *component.Vehicle, groundY, tolerance float64) Observation {
	if v == nil || v.Chassis == nil {
		return Observation{NextObstacleDX: -1}
	}
	pos := v.Chassis.Position()
	obs := Observation{
		VehicleX:       pos.X,
		VehicleY:       pos.Y,
		VelocityX:      v.Chassis.Velocity().X,
		Grounded:       IsGrounded(v, groundY, tolerance),
		NextObstacleDX: -1,
	}

	front := pos.X + v.Width/2
	best := math.Inf(1)
	ecs.ForEach2(w, component.ObstacleTagComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, tag *component.ObstacleTag, pb *component.PhysicsBody) {
		x := pb.Position().X
		half, _ := pb.Geometry.Extent()
		half /= 2
		if x+half < front {
			return
		}
		if x < best {
			best = x
			obs.NextObstacleDX = math.Max(x-half-front, 0)
			obs.NextObstacleSize = tag.Size
		}
	})
	return obs
}

func (o Observation) engine() map[string]any {
	return map[string]any{
		"vehicle_x":          o.VehicleX,
		"vehicle_y":          o.VehicleY,
		"velocity_x":         o.VelocityX,
		"grounded":           o.Grounded,
		"next_obstacle_dx":   o.NextObstacleDX,
		"next_obstacle_size": o.NextObstacleSize,
	}
}
