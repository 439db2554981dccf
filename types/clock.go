package types

import "time"

// Clock is the monotonic time source that drives animations.
//
// Production code uses the wall clock. Tests inject a fake clock so animation
// progress is deterministic.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock implementation of Clock.
type SystemClock struct{}

var _ Clock = SystemClock{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}
