package pinmark

import "github.com/arloliu/pinmark/types"

// Sentinel errors re-exported from the types package.
//
// Use errors.Is to check for them.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrSurfaceRequired is returned when NewEngine receives a nil surface.
	ErrSurfaceRequired = types.ErrSurfaceRequired

	// ErrAlreadyStarted is returned when Start is called on a running engine.
	ErrAlreadyStarted = types.ErrAlreadyStarted

	// ErrNotStarted is returned when Stop is called on an engine that was never started.
	ErrNotStarted = types.ErrNotStarted

	// ErrSurfaceNotReady is returned when an operation needs a ready surface.
	ErrSurfaceNotReady = types.ErrSurfaceNotReady

	// ErrSourceRequired is returned when Sync or Watch receives a nil source.
	ErrSourceRequired = types.ErrSourceRequired

	// ErrEmptyPointID is reported for a point without an ID.
	ErrEmptyPointID = types.ErrEmptyPointID

	// ErrMissingCoordinates is reported for a point without a position.
	ErrMissingCoordinates = types.ErrMissingCoordinates

	// ErrInvalidCoordinates is reported for a non-finite or out-of-range position.
	ErrInvalidCoordinates = types.ErrInvalidCoordinates

	// ErrDuplicatePointID is reported when an input contains the same ID twice.
	ErrDuplicatePointID = types.ErrDuplicatePointID

	// ErrUnknownTheme is returned when parsing an unsupported theme name.
	ErrUnknownTheme = types.ErrUnknownTheme

	// ErrMarkerNotFound is returned by surfaces for unknown marker references.
	ErrMarkerNotFound = types.ErrMarkerNotFound

	// ErrLayerDestroyed is returned by surfaces when a destroyed cluster layer is used.
	ErrLayerDestroyed = types.ErrLayerDestroyed
)
