package component

// Transform is the render-facing pose of an entity, copied from its physics
// body after every step. X and Y are the body centre.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
