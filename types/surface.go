package types

// MarkerSpec describes a marker to create on the surface.
type MarkerSpec struct {
	ID       string
	Position LatLng
	Label    string
	Icon     Icon
	Opacity  float64

	// OnClick is invoked by the surface when the marker is clicked.
	OnClick func()
}

// ClusterInfo describes one aggregate the clustering layer wants rendered.
type ClusterInfo struct {
	Count    int
	Position LatLng
}

// ClusterRenderer produces the badge for a cluster. It is bound to a theme.
type ClusterRenderer interface {
	Render(info ClusterInfo) Badge
	Theme() Theme
}

// ClusterLayerOptions configures a clustering layer.
type ClusterLayerOptions struct {
	// Members are the markers the layer starts with.
	Members []MarkerRef

	// Renderer draws cluster badges.
	Renderer ClusterRenderer

	// OnClusterClick is invoked with the current member refs of a clicked cluster.
	OnClusterClick func(members []MarkerRef)
}

// ClusterLayer is the surface's aggregation layer.
//
// The layer re-clusters by itself when the member set or the viewport changes.
type ClusterLayer interface {
	AddMarkers(refs []MarkerRef) error
	RemoveMarkers(refs []MarkerRef) error
	Destroy() error
}

// Surface is the narrow capability the engine needs from a map renderer.
//
// Implementations wrap whatever stateful, globally mutable map API is in use.
// Calls are logically synchronous. The engine owns the Surface exclusively.
type Surface interface {
	// Ready returns a channel closed exactly once when the surface can be used.
	Ready() <-chan struct{}

	// CreateMarker attaches a new single-point marker.
	CreateMarker(spec MarkerSpec) (MarkerRef, error)

	// RemoveMarker detaches a marker.
	RemoveMarker(ref MarkerRef) error

	// SetIcon replaces the marker icon.
	SetIcon(ref MarkerRef, icon Icon) error

	// SetOpacity writes the marker opacity, in [0,1].
	SetOpacity(ref MarkerRef, opacity float64) error

	// CreateClusterLayer creates a clustering layer over the given markers.
	CreateClusterLayer(opts ClusterLayerOptions) (ClusterLayer, error)

	// FitBounds moves the viewport so bounds are visible with paddingPx on every side.
	FitBounds(bounds Bounds, paddingPx int) error
}
