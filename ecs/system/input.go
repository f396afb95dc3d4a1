package system

import (
	"sort"

	"github.com/milk9111/truckrun/ecs"
	"github.com/milk9111/truckrun/ecs/component"
)

// InputSystem folds press/release edges from every source into the held
// state of each control. A control stays held while any source holds it.
type InputSystem struct {
	held map[component.Control]map[string]struct{}
}

func NewInputSystem() *InputSystem {
	return &InputSystem{held: make(map[component.Control]map[string]struct{})}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil {
		return
	}

	for _, evt := range w.FrameEvents() {
		if evt.Type != ecs.EventInput {
			continue
		}
		in, ok := evt.Data.(ecs.InputEvent)
		if !ok {
			continue
		}
		i.Apply(in)
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		for _, c := range component.AllControls {
			input.Set(c, i.Held(c))
		}
	})
}

// Apply records one edge. Repeated presses from the same source are no-ops.
func (i *InputSystem) Apply(evt ecs.InputEvent) {
	if i == nil || !evt.Control.Valid() || evt.Source == "" {
		return
	}
	if i.held == nil {
		i.held = make(map[component.Control]map[string]struct{})
	}
	sources := i.held[evt.Control]
	if evt.Pressed {
		if sources == nil {
			sources = make(map[string]struct{})
			i.held[evt.Control] = sources
		}
		sources[evt.Source] = struct{}{}
		return
	}
	delete(sources, evt.Source)
}

func (i *InputSystem) Held(c component.Control) bool {
	if i == nil {
		return false
	}
	return len(i.held[c]) > 0
}

// Sources lists who currently holds c, sorted.
func (i *InputSystem) Sources(c component.Control) []string {
	if i == nil {
		return nil
	}
	out := make([]string, 0, len(i.held[c]))
	for s := range i.held[c] {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
