package types

// MarkerRef is the opaque reference a Surface returns for a created marker.
type MarkerRef string

// MarkerHandle is the live rendered representation of one Point.
//
// Handles are exclusively owned by the marker registry. Other components
// receive them read-only.
type MarkerHandle struct {
	// ID is the Point ID this handle renders.
	ID string

	// Ref is the surface-side reference of the marker.
	Ref MarkerRef

	// Point is a copy of the point as it was when the marker was created.
	Point Point

	// Opacity is the last opacity written to the surface, in [0,1].
	Opacity float64

	// Theme is the theme the marker icon was generated for.
	Theme Theme
}
