package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/truckrun/ecs/component"
)

type keyBinding struct {
	key     ebiten.Key
	control component.Control
	source  string
}

var keyBindings = []keyBinding{
	{ebiten.KeyArrowLeft, component.ControlLeft, "key:ArrowLeft"},
	{ebiten.KeyA, component.ControlLeft, "key:A"},
	{ebiten.KeyArrowRight, component.ControlRight, "key:ArrowRight"},
	{ebiten.KeyD, component.ControlRight, "key:D"},
	{ebiten.KeySpace, component.ControlJump, "key:Space"},
}

// inputSink receives press and release edges.
type inputSink interface {
	PushInput(c component.Control, source string, pressed bool)
}

// pollKeyboard forwards this frame's key edges. Each physical key is its own
// source so releasing one never cancels another still held.
func pollKeyboard(sink inputSink) {
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			sink.PushInput(b.control, b.source, true)
		}
		if inpututil.IsKeyJustReleased(b.key) {
			sink.PushInput(b.control, b.source, false)
		}
	}
}
