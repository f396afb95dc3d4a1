package component

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()

// ObstacleTag marks a streamed static square.
type ObstacleTag struct {
	Size float64
}

var ObstacleTagComponent = NewComponent[ObstacleTag]()

// GroundTag marks the single static ground slab.
type GroundTag struct {
	Width  float64
	Height float64
}

var GroundTagComponent = NewComponent[GroundTag]()

// WheelTag marks a wheel body of a composite vehicle.
type WheelTag struct {
	Index int
}

var WheelTagComponent = NewComponent[WheelTag]()
