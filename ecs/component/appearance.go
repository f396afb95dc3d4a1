package component

import "image/color"

// Appearance is the flat fill used by the renderer.
type Appearance struct {
	Color color.RGBA
	Layer int
}

var AppearanceComponent = NewComponent[Appearance]()
