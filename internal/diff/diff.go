// Package diff computes the add/remove set between committed marker ids and a new point set.
package diff

import (
	"slices"

	"github.com/arloliu/pinmark/types"
)

// Result is the outcome of comparing committed ids against the next input.
type Result struct {
	// Added holds points whose IDs are not yet committed, in input order.
	Added []types.Point

	// Removed holds committed IDs missing from the input, sorted.
	Removed []string

	// Unchanged holds IDs present on both sides, sorted.
	Unchanged []string
}

// Empty reports whether the diff has nothing to apply.
func (r Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0
}

// Total returns |added| + |removed|.
func (r Result) Total() int {
	return len(r.Added) + len(r.Removed)
}

// AddedIDs returns the IDs of Added in input order.
func (r Result) AddedIDs() []string {
	ids := make([]string, len(r.Added))
	for i, p := range r.Added {
		ids[i] = p.ID
	}

	return ids
}

// Compute diffs the committed id set against the next ordered point set.
//
// The function is pure and runs in O(n). Points in next are expected to have
// unique IDs; if an ID repeats, only its first occurrence is considered.
//
// Parameters:
//   - previous: Currently committed IDs
//   - next: Incoming points
//
// Returns:
//   - Result: added = next − previous, removed = previous − next, unchanged = previous ∩ next
func Compute(previous map[string]struct{}, next []types.Point) Result {
	var res Result

	seen := make(map[string]struct{}, len(next))
	for _, p := range next {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}

		if _, ok := previous[p.ID]; ok {
			res.Unchanged = append(res.Unchanged, p.ID)
		} else {
			res.Added = append(res.Added, p)
		}
	}

	for id := range previous {
		if _, ok := seen[id]; !ok {
			res.Removed = append(res.Removed, id)
		}
	}

	slices.Sort(res.Removed)
	slices.Sort(res.Unchanged)

	return res
}

// IDSet builds a set from a list of IDs.
func IDSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return set
}

// PointIDSet builds the ID set of a point list.
func PointIDSet(points []types.Point) map[string]struct{} {
	set := make(map[string]struct{}, len(points))
	for _, p := range points {
		set[p.ID] = struct{}{}
	}

	return set
}
