package types

import "context"

// Hooks defines callbacks for engine events.
//
// All hooks are optional and never run while the engine lock is held, so a
// hook may call back into the Engine. OnMarkerActivated runs on the goroutine
// that delivered the click; OnPhaseChanged and OnError run in the background
// so they cannot stall rendering.
//
// Hook errors are logged and never change engine behavior.
//
// Example:
//
//	hooks := &pinmark.Hooks{
//	    OnMarkerActivated: func(ctx context.Context, p pinmark.Point) error {
//	        return showDetails(ctx, p.ID)
//	    },
//	}
type Hooks struct {
	// OnMarkerActivated is called when a single (non-cluster) marker is clicked.
	OnMarkerActivated func(ctx context.Context, point Point) error

	// OnPhaseChanged is called when the engine phase transitions.
	OnPhaseChanged func(ctx context.Context, from, to Phase) error

	// OnError is called when a failure was absorbed by the engine.
	OnError func(ctx context.Context, err error) error
}
