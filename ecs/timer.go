package ecs

import "math"

// Timer is a periodic callback driven by the frame clock instead of a
// goroutine, so it shares the single-threaded tick with everything else.
type Timer struct {
	periodMs float64
	elapsed  float64
}

func NewTimer(periodMs float64) *Timer {
	return &Timer{periodMs: periodMs}
}

// Advance adds dtMs to the timer and returns how many periods completed.
// Non-positive or non-finite dt and periods never fire.
func (t *Timer) Advance(dtMs float64) int {
	if t == nil || !(t.periodMs > 0) || !(dtMs > 0) || math.IsInf(dtMs, 0) {
		return 0
	}
	t.elapsed += dtMs
	fires := int(t.elapsed / t.periodMs)
	t.elapsed -= float64(fires) * t.periodMs
	return fires
}

// SetPeriod changes the period without losing accumulated time.
func (t *Timer) SetPeriod(periodMs float64) {
	if t == nil {
		return
	}
	t.periodMs = periodMs
}

func (t *Timer) Period() float64 {
	if t == nil {
		return 0
	}
	return t.periodMs
}
