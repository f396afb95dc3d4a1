package ecs

import (
	"sort"

	"github.com/milk9111/truckrun/ecs/component"
)

// World owns entities, component storage, the command queue and the physics
// world. It is the session's single shared mutable resource.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
	frame    []Event
	frameDt  float64

	physicsWorld *PhysicsWorld
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity drops every component of e and retires its id. Physics
// bodies referenced by those components must already be removed.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	return w.entities.destroy(e)
}

func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns all live entities in id order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		if w.stores == nil {
			w.stores = make(map[component.ComponentID]*SparseSet)
		}
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// AddComponent stores v for e under the component id, replacing any
// previous value.
func (w *World) AddComponent(e Entity, id component.ComponentID, v any) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	if v == nil {
		return component.ErrNilComponent
	}
	w.store(id, true).Set(e, v)
	return nil
}

func (w *World) GetComponent(e Entity, id component.ComponentID) (any, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	s := w.store(id, false)
	if !s.Has(e) {
		return nil, false
	}
	return s.Get(e), true
}

func (w *World) HasComponent(e Entity, id component.ComponentID) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(id, false).Has(e)
}

func (w *World) RemoveComponent(e Entity, id component.ComponentID) bool {
	if w == nil {
		return false
	}
	return w.store(id, false).Remove(e)
}

// Query returns the live entities that carry every given kind, sorted by
// entity id so iteration order does not depend on removal history.
func (w *World) Query(kinds ...component.KindID) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s == nil {
			return nil
		}
		sets = append(sets, s)
	}

	var out []Entity
	if len(sets) == 1 {
		out = append(out, sets[0].Entities()...)
	} else {
		out = IntersectEntities(sets[0], sets[1])
		for _, s := range sets[2:] {
			filtered := out[:0]
			for _, e := range out {
				if s.Has(e) {
					filtered = append(filtered, e)
				}
			}
			out = filtered
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id() < out[j].id() })
	return out
}

// First returns the lowest-id entity carrying kind.
func (w *World) First(kind component.KindID) (Entity, bool) {
	ents := w.Query(kind)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

// Events returns the world command queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// BeginFrame records the tick length and drains the command queue once;
// systems read the drained batch through FrameEvents for the rest of the
// tick.
func (w *World) BeginFrame(dtMs float64) {
	if w == nil {
		return
	}
	w.frameDt = dtMs
	w.frame = w.events.Drain()
}

// FrameDeltaMs is the length of the current tick in milliseconds.
func (w *World) FrameDeltaMs() float64 {
	if w == nil {
		return 0
	}
	return w.frameDt
}

// FrameEvents returns the commands drained at the start of this tick, in
// push order.
func (w *World) FrameEvents() []Event {
	if w == nil {
		return nil
	}
	return w.frame
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}
