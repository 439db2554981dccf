package source

import (
	"context"
	"sync"

	"github.com/arloliu/pinmark/types"
)

// Static implements a point source backed by an in-memory list.
type Static struct {
	mu      sync.RWMutex
	points  []types.Point
	changes chan struct{}
}

var _ types.PointWatcher = (*Static)(nil)

// NewStatic creates a new static point source.
//
// The source returns the list it was last given. Useful for tests and for
// applications that already hold the full point set in memory.
//
// Parameters:
//   - points: Initial list of points
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := source.NewStatic([]types.Point{
//	    types.At("depot-1", 52.52, 13.405, "Berlin depot"),
//	    types.At("depot-2", 48.8566, 2.3522, "Paris depot"),
//	})
//	go eng.Watch(ctx, src)
func NewStatic(points []types.Point) *Static {
	return &Static{
		points:  clonePoints(points),
		changes: make(chan struct{}, 1),
	}
}

// ListPoints returns a copy of the current list.
//
// Returns:
//   - []types.Point: The current points
//   - error: Always nil (never fails)
func (s *Static) ListPoints(_ context.Context) ([]types.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clonePoints(s.points), nil
}

// Changes returns a channel that receives a value after each Update.
//
// The channel has a buffer of one; updates made while a signal is pending
// are coalesced into it.
func (s *Static) Changes() <-chan struct{} {
	return s.changes
}

// Update replaces the point list and signals watchers.
//
// Parameters:
//   - points: New list of points
//
// Example:
//
//	src := source.NewStatic(initialPoints)
//	// Later: switch the map to another fleet
//	src.Update(otherFleet)
func (s *Static) Update(points []types.Point) {
	s.mu.Lock()
	s.points = clonePoints(points)
	s.mu.Unlock()

	notify(s.changes)
}

func clonePoints(points []types.Point) []types.Point {
	out := make([]types.Point, len(points))
	for i, p := range points {
		out[i] = p.Clone()
	}

	return out
}

// notify performs a non-blocking send on a buffered signal channel.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
