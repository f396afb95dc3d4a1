package system

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/milk9111/truckrun/ecs"
	"github.com/milk9111/truckrun/ecs/entity"
	"github.com/milk9111/truckrun/prefabs"
)

// StreamTuning holds the spawn policy values that may change at runtime.
type StreamTuning struct {
	SpawnAhead    float64
	MinSpacing    float64
	MaxSpawnBurst int
}

// StreamerSystem creates obstacles ahead of the vehicle and destroys the
// ones that fall more than a viewport behind it.
type StreamerSystem struct {
	level  *prefabs.LevelSpec
	rng    *rand.Rand
	logger *log.Logger

	Tuning StreamTuning

	live     []ecs.Entity
	frontier float64
	spawned  int
	removed  int
	peak     int
}

func NewStreamerSystem(level *prefabs.LevelSpec, seed int64, logger *log.Logger) *StreamerSystem {
	s := &StreamerSystem{
		level:    level,
		rng:      rand.New(rand.NewSource(seed)),
		logger:   logger,
		frontier: math.Inf(-1),
	}
	if level != nil {
		s.Tuning = StreamTuning{
			SpawnAhead:    level.Obstacles.SpawnAhead,
			MinSpacing:    level.Obstacles.MinSpacing,
			MaxSpawnBurst: level.Obstacles.MaxSpawnBurst,
		}
	}
	return s
}

// SpawnInitial places the opening run of obstacles.
func (s *StreamerSystem) SpawnInitial(w *ecs.World) error {
	if s == nil || s.level == nil {
		return fmt.Errorf("streamer: level is nil")
	}
	o := s.level.Obstacles
	for i := 0; i < o.InitialCount; i++ {
		x := o.FirstX + float64(i)*o.Spacing + s.rng.Float64()*o.Jitter
		if err := s.spawnAt(w, x); err != nil {
			return err
		}
	}
	s.notePeak()
	return nil
}

func (s *StreamerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	v := vehicle(w)
	if v == nil {
		return
	}
	vx := v.X()
	vw, _ := Viewport(w)

	requests := 0
	for _, evt := range w.FrameEvents() {
		if evt.Type == ecs.EventSpawnObstacle {
			requests++
		}
	}
	if burst := s.Tuning.MaxSpawnBurst; burst > 0 && requests > burst {
		s.debug("dropping spawn requests", "requested", requests, "burst", burst)
		requests = burst
	}
	for i := 0; i < requests; i++ {
		x := vx + vw + s.Tuning.SpawnAhead
		if x < s.frontier+s.Tuning.MinSpacing {
			continue
		}
		if err := s.spawnAt(w, x); err != nil {
			s.warn("spawn failed", "x", x, "err", err)
		}
	}

	s.Reconcile(w, vx, vw)
	s.notePeak()
}

func (s *StreamerSystem) notePeak() {
	if len(s.live) > s.peak {
		s.peak = len(s.live)
	}
}

// Reconcile destroys every obstacle left of vehicleX-viewportWidth and
// returns how many went.
func (s *StreamerSystem) Reconcile(w *ecs.World, vehicleX, viewportWidth float64) int {
	if s == nil || w == nil {
		return 0
	}
	pw := w.PhysicsWorld()
	limit := vehicleX - viewportWidth
	removed := 0
	for i := len(s.live) - 1; i >= 0; i-- {
		e := s.live[i]
		x, ok := entity.ObstacleX(w, e)
		if ok && x >= limit {
			continue
		}
		entity.DestroyObstacle(w, pw, e)
		s.live = append(s.live[:i], s.live[i+1:]...)
		removed++
	}
	if removed > 0 {
		s.removed += removed
		s.debug("obstacles cleaned up", "removed", removed, "live", len(s.live), "limit", limit)
	}
	return removed
}

func (s *StreamerSystem) spawnAt(w *ecs.World, x float64) error {
	o := s.level.Obstacles
	size := o.SizeMin
	if o.SizeMax > o.SizeMin {
		size += s.rng.Float64() * (o.SizeMax - o.SizeMin)
	}
	e, err := entity.NewObstacle(w, w.PhysicsWorld(), s.level, x, size)
	if err != nil {
		return fmt.Errorf("streamer: spawn at %.1f: %w", x, err)
	}
	s.live = append(s.live, e)
	if x > s.frontier {
		s.frontier = x
	}
	s.spawned++
	s.debug("obstacle spawned", "entity", e, "x", x, "size", size, "live", len(s.live))
	return nil
}

// Live returns the live obstacles in spawn order. Callers must not mutate it.
func (s *StreamerSystem) Live() []ecs.Entity {
	if s == nil {
		return nil
	}
	return s.live
}

// Frontier is the largest x ever spawned.
func (s *StreamerSystem) Frontier() float64 {
	if s == nil {
		return 0
	}
	return s.frontier
}

// StreamStats summarises streamer activity. Peak is sampled after each
// reconciliation pass.
type StreamStats struct {
	Live    int
	Peak    int
	Spawned int
	Removed int
}

func (s *StreamerSystem) Stats() StreamStats {
	if s == nil {
		return StreamStats{}
	}
	return StreamStats{Live: len(s.live), Peak: s.peak, Spawned: s.spawned, Removed: s.removed}
}

// LiveBound is the most obstacles that can be alive at once for a fixed
// viewport width.
func (s *StreamerSystem) LiveBound(viewportWidth float64) int {
	if s == nil || s.Tuning.MinSpacing <= 0 {
		return 0
	}
	return int(math.Ceil(2*viewportWidth/s.Tuning.MinSpacing)) + s.Tuning.MaxSpawnBurst
}

func (s *StreamerSystem) debug(msg string, kv ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, kv...)
	}
}

func (s *StreamerSystem) warn(msg string, kv ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, kv...)
	}
}
