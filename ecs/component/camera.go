package component

// Camera holds the horizontal scroll and vertical baseline for the frame.
type Camera struct {
	OffsetX float64
	// Baseline is the screen-space y translation that places the world
	// ground line at the bottom of the surface.
	Baseline       float64
	ViewportWidth  float64
	ViewportHeight float64
	LeadFraction   float64
}

var CameraComponent = NewComponent[Camera]()
