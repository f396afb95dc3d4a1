package ecs

import "github.com/milk9111/truckrun/ecs/component"

// EventType identifies a queued command.
type EventType string

const (
	// EventInput carries an InputEvent from any input source.
	EventInput EventType = "input"
	// EventResize carries a ResizeEvent when the host surface changes size.
	EventResize EventType = "resize"
	// EventSpawnObstacle is pushed by the spawn timer each time it fires.
	EventSpawnObstacle EventType = "spawn_obstacle"
)

// Event is a command pushed by a host callback and consumed by systems on
// the next tick.
type Event struct {
	Type EventType
	Data any
}

// InputEvent is an edge: Source started or stopped holding Control.
type InputEvent struct {
	Control component.Control
	Source  string
	Pressed bool
}

// ResizeEvent reports the new rendering surface size.
type ResizeEvent struct {
	Width  float64
	Height float64
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// PushInput is shorthand for pushing an EventInput.
func (q *EventQueue) PushInput(control component.Control, source string, pressed bool) {
	q.Push(Event{Type: EventInput, Data: InputEvent{Control: control, Source: source, Pressed: pressed}})
}

// Len reports how many events are waiting.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
