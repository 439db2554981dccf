package types

import "errors"

// Sentinel errors for the pinmark library.
//
// These errors provide type-safe error checking using errors.Is().
// Components wrap them with context using fmt.Errorf("%s: %w", msg, err).

// Engine errors - Public API errors returned by the Engine.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSurfaceRequired is returned when the rendering surface is nil.
	ErrSurfaceRequired = errors.New("rendering surface is required")

	// ErrAlreadyStarted is returned when Start is called on a running engine.
	ErrAlreadyStarted = errors.New("engine already started")

	// ErrNotStarted is returned when Stop is called on an engine that was never started.
	ErrNotStarted = errors.New("engine not started")

	// ErrSurfaceNotReady is returned when an operation needs a ready surface.
	ErrSurfaceNotReady = errors.New("rendering surface not ready")

	// ErrSourceRequired is returned when Sync or Watch receives a nil point source.
	ErrSourceRequired = errors.New("point source is required")
)

// Point errors - Returned by Point validation; malformed points are skipped.
var (
	// ErrEmptyPointID is returned for a point without an ID.
	ErrEmptyPointID = errors.New("point has empty id")

	// ErrMissingCoordinates is returned for a point without a position.
	ErrMissingCoordinates = errors.New("point has no coordinates")

	// ErrInvalidCoordinates is returned for a non-finite or out-of-range position.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrDuplicatePointID is returned when an input contains the same ID twice.
	ErrDuplicatePointID = errors.New("duplicate point id")

	// ErrUnknownTheme is returned when parsing an unsupported theme name.
	ErrUnknownTheme = errors.New("unknown theme")
)

// Surface errors - Returned by Surface implementations.
var (
	// ErrMarkerNotFound is returned when a marker reference is unknown to the surface.
	ErrMarkerNotFound = errors.New("marker not found")

	// ErrLayerDestroyed is returned when a destroyed cluster layer is used.
	ErrLayerDestroyed = errors.New("cluster layer destroyed")
)
