// Package transition classifies a diff as an animated surface switch or an instant incremental update.
package transition

import "github.com/arloliu/pinmark/types"

// SwitchThreshold is the total change count that must be exceeded before a
// diff is treated as a surface switch on size alone.
const SwitchThreshold = 2

// Counts summarizes a diff for classification.
type Counts struct {
	Previous int // |previousIds|
	Next     int // |nextIds|
	Added    int // |added|
	Removed  int // |removed|
}

// Classify decides how a diff is committed.
//
// The rule is evaluated once per diff:
//
//	totalChange = added + removed
//	switch = totalChange > 2
//	      OR (previous > 0 AND removed == previous)
//	      OR (next > 0 AND added == next AND previous > 0)
//
// The first population of the surface (previous == 0) is never a switch,
// whatever its size: first paint is always instant. Two changes never trip
// the size clause, but a diff that replaces or removes the whole visible set
// is still a switch at two changes ({a} to {b}, {a,b} to {}).
//
// Parameters:
//   - c: Diff counts
//
// Returns:
//   - types.Mode: ModeAnimated for a surface switch, ModeInstant otherwise
func Classify(c Counts) types.Mode {
	if IsSurfaceSwitch(c) {
		return types.ModeAnimated
	}

	return types.ModeInstant
}

// IsSurfaceSwitch reports whether the counts describe a surface switch.
func IsSurfaceSwitch(c Counts) bool {
	if c.Previous == 0 || c.Added+c.Removed == 0 {
		return false
	}
	if c.Added+c.Removed > SwitchThreshold {
		return true
	}
	if c.Previous > 0 && c.Removed == c.Previous {
		return true
	}

	return c.Next > 0 && c.Added == c.Next && c.Previous > 0
}
