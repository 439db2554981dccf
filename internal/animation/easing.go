package animation

import "time"

// EaseOutCubic maps linear progress t to 1 − (1 − t)^3, with t clamped to [0,1].
func EaseOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	inv := 1 - t

	return 1 - inv*inv*inv
}

// Sample returns the opacity of a transition from→to after elapsed of duration.
//
// A non-positive duration yields the target value immediately.
//
// Parameters:
//   - from: Starting opacity
//   - to: Target opacity
//   - elapsed: Time since the task started (negative means not started)
//   - duration: Total task duration
//
// Returns:
//   - float64: from + (to − from) × EaseOutCubic(elapsed/duration)
func Sample(from, to float64, elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return to
	}
	if elapsed <= 0 {
		return from
	}
	if elapsed >= duration {
		return to
	}

	return from + (to-from)*EaseOutCubic(float64(elapsed)/float64(duration))
}
