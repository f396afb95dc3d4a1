package common

const (
	WindowTitle = "truckrun"

	DefaultScreenWidth  = 1280
	DefaultScreenHeight = 720

	// TPS is the fixed simulation tick rate.
	TPS = 60
	// FrameMs is the nominal tick length at TPS.
	FrameMs = 1000.0 / TPS
)
