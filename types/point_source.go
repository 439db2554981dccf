package types

import "context"

// PointSource provides the current ordered set of points.
//
// Implementations can query various backends:
//   - Static: in-memory list, updated by the application
//   - KV: JSON document stored under a NATS JetStream KV key
//   - Custom: any backend that can produce the full point set
//
// The Engine calls ListPoints from Sync and whenever a PointWatcher signals a change.
type PointSource interface {
	// ListPoints returns the complete, ordered set of points.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - []Point: Current points (may be empty)
	//   - error: Retrieval error (nil on success)
	ListPoints(ctx context.Context) ([]Point, error)
}

// PointWatcher is a PointSource that signals when its point set changes.
type PointWatcher interface {
	PointSource

	// Changes returns a channel that receives a value after each change.
	//
	// Signals may be coalesced: one receive can stand for several changes.
	Changes() <-chan struct{}
}
