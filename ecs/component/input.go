package component

// Control is one of the three logical controls.
type Control int

const (
	ControlLeft Control = iota
	ControlRight
	ControlJump
	controlCount
)

// AllControls lists every control, in declaration order.
var AllControls = [...]Control{ControlLeft, ControlRight, ControlJump}

func (c Control) String() string {
	switch c {
	case ControlLeft:
		return "left"
	case ControlRight:
		return "right"
	case ControlJump:
		return "jump"
	default:
		return "unknown"
	}
}

// Valid reports whether c names a real control.
func (c Control) Valid() bool {
	return c >= 0 && c < controlCount
}

// Input is the per-tick control state polled by the vehicle system.
type Input struct {
	Left  bool
	Right bool
	Jump  bool
}

// Set updates the flag for c.
func (in *Input) Set(c Control, held bool) {
	if in == nil {
		return
	}
	switch c {
	case ControlLeft:
		in.Left = held
	case ControlRight:
		in.Right = held
	case ControlJump:
		in.Jump = held
	}
}

var InputComponent = NewComponent[Input]()
