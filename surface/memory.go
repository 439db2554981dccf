package surface

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/wroge/wgs84"
	"github.com/zeebo/xxh3"

	"github.com/arloliu/pinmark/internal/cluster"
	"github.com/arloliu/pinmark/types"
)

// Operation names used for failure injection and call counting.
const (
	OpCreateMarker       = "create_marker"
	OpRemoveMarker       = "remove_marker"
	OpSetIcon            = "set_icon"
	OpSetOpacity         = "set_opacity"
	OpCreateClusterLayer = "create_cluster_layer"
	OpFitBounds          = "fit_bounds"
)

const (
	tileSizePx     = 256
	originShift    = 20037508.342789244
	maxMercatorLat = 85.05112878

	// DefaultCellSizePx is the grid cell used to group markers into clusters.
	DefaultCellSizePx = 60
)

// Marker is the state of one marker on a Memory surface.
type Marker struct {
	Ref      types.MarkerRef
	ID       string
	Position types.LatLng
	Label    string
	Icon     types.Icon
	Opacity  float64

	onClick func()
}

// FitCall records one FitBounds request.
type FitCall struct {
	Bounds    types.Bounds
	PaddingPx int
}

type memoryOptions struct {
	deferReady bool
	cellSizePx int
}

// MemoryOption configures a Memory surface.
type MemoryOption func(*memoryOptions)

// WithDeferredReady makes the surface start not ready; call MarkReady to
// signal readiness.
func WithDeferredReady() MemoryOption {
	return func(o *memoryOptions) {
		o.deferReady = true
	}
}

// WithCellSize sets the clustering grid cell in pixels.
func WithCellSize(px int) MemoryOption {
	return func(o *memoryOptions) {
		if px > 0 {
			o.cellSizePx = px
		}
	}
}

// Memory is an in-memory types.Surface. It is safe for concurrent use.
type Memory struct {
	cellSizePx int
	project    func(a, b, c float64) (float64, float64, float64)

	ready     chan struct{}
	readyOnce sync.Once

	mu            sync.Mutex
	markers       map[types.MarkerRef]*Marker
	layer         *memoryLayer
	layersCreated int
	fits          []FitCall
	failures      map[string]error
	calls         map[string]int
}

var _ types.Surface = (*Memory)(nil)

// NewMemory creates an empty surface. It is ready immediately unless
// WithDeferredReady is given.
func NewMemory(opts ...MemoryOption) *Memory {
	o := memoryOptions{cellSizePx: DefaultCellSizePx}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Memory{
		cellSizePx: o.cellSizePx,
		project:    wgs84.EPSG().Transform(4326, 3857),
		ready:      make(chan struct{}),
		markers:    make(map[types.MarkerRef]*Marker),
		failures:   make(map[string]error),
		calls:      make(map[string]int),
	}
	if !o.deferReady {
		m.MarkReady()
	}

	return m
}

// Ready returns a channel closed once the surface is usable.
func (m *Memory) Ready() <-chan struct{} {
	return m.ready
}

// MarkReady signals readiness. Extra calls are ignored.
func (m *Memory) MarkReady() {
	m.readyOnce.Do(func() { close(m.ready) })
}

// SetFailure makes every call of operation fail with err. A nil err clears it.
func (m *Memory) SetFailure(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.failures, operation)
		return
	}
	m.failures[operation] = err
}

// Calls returns how many times operation was invoked, failed calls included.
func (m *Memory) Calls(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls[operation]
}

// CreateMarker attaches a marker.
func (m *Memory) CreateMarker(spec types.MarkerSpec) (types.MarkerRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.beginLocked(OpCreateMarker); err != nil {
		return "", err
	}

	ref := types.MarkerRef("mk-" + uuid.NewString())
	m.markers[ref] = &Marker{
		Ref:      ref,
		ID:       spec.ID,
		Position: spec.Position,
		Label:    spec.Label,
		Icon:     spec.Icon,
		Opacity:  clamp01(spec.Opacity),
		onClick:  spec.OnClick,
	}

	return ref, nil
}

// RemoveMarker detaches a marker.
func (m *Memory) RemoveMarker(ref types.MarkerRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.beginLocked(OpRemoveMarker); err != nil {
		return err
	}
	if _, ok := m.markers[ref]; !ok {
		return fmt.Errorf("remove %s: %w", ref, types.ErrMarkerNotFound)
	}
	delete(m.markers, ref)

	return nil
}

// SetIcon replaces a marker icon.
func (m *Memory) SetIcon(ref types.MarkerRef, icon types.Icon) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.beginLocked(OpSetIcon); err != nil {
		return err
	}
	mk, ok := m.markers[ref]
	if !ok {
		return fmt.Errorf("set icon %s: %w", ref, types.ErrMarkerNotFound)
	}
	mk.Icon = icon

	return nil
}

// SetOpacity writes a marker opacity, clamped to [0,1].
func (m *Memory) SetOpacity(ref types.MarkerRef, opacity float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.beginLocked(OpSetOpacity); err != nil {
		return err
	}
	mk, ok := m.markers[ref]
	if !ok {
		return fmt.Errorf("set opacity %s: %w", ref, types.ErrMarkerNotFound)
	}
	mk.Opacity = clamp01(opacity)

	return nil
}

// CreateClusterLayer creates the clustering layer. Only the most recently
// created, non-destroyed layer is used for clustering.
func (m *Memory) CreateClusterLayer(opts types.ClusterLayerOptions) (types.ClusterLayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.beginLocked(OpCreateClusterLayer); err != nil {
		return nil, err
	}
	if opts.Renderer == nil {
		return nil, fmt.Errorf("create cluster layer: renderer is required")
	}

	l := &memoryLayer{
		surface:  m,
		members:  make(map[types.MarkerRef]struct{}, len(opts.Members)),
		renderer: opts.Renderer,
		onClick:  opts.OnClusterClick,
	}
	for _, ref := range opts.Members {
		l.members[ref] = struct{}{}
	}
	m.layer = l
	m.layersCreated++

	return l, nil
}

// FitBounds records a viewport fit.
func (m *Memory) FitBounds(bounds types.Bounds, paddingPx int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.beginLocked(OpFitBounds); err != nil {
		return err
	}
	m.fits = append(m.fits, FitCall{Bounds: bounds, PaddingPx: paddingPx})

	return nil
}

// Markers returns a snapshot of every marker, sorted by point id.
func (m *Memory) Markers() []Marker {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Marker, 0, len(m.markers))
	for _, mk := range m.markers {
		out = append(out, *mk)
	}
	slices.SortFunc(out, func(a, b Marker) int { return strings.Compare(a.ID, b.ID) })

	return out
}

// MarkerIDs returns the point ids of every marker, sorted.
func (m *Memory) MarkerIDs() []string {
	markers := m.Markers()
	ids := make([]string, len(markers))
	for i, mk := range markers {
		ids[i] = mk.ID
	}

	return ids
}

// MarkerByID returns the marker rendering point id.
func (m *Memory) MarkerByID(id string) (Marker, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mk := m.markerByIDLocked(id)
	if mk == nil {
		return Marker{}, false
	}

	return *mk, true
}

// Opacity returns the opacity of the marker rendering point id.
func (m *Memory) Opacity(id string) (float64, bool) {
	mk, ok := m.MarkerByID(id)
	return mk.Opacity, ok
}

// Click simulates a click on the marker rendering point id.
func (m *Memory) Click(id string) error {
	m.mu.Lock()
	mk := m.markerByIDLocked(id)
	m.mu.Unlock()

	if mk == nil {
		return fmt.Errorf("click %q: %w", id, types.ErrMarkerNotFound)
	}
	if mk.onClick != nil {
		mk.onClick()
	}

	return nil
}

// ClickCluster simulates a click on the cluster group with the given id at zoom.
func (m *Memory) ClickCluster(zoom int, groupID uint64) error {
	m.mu.Lock()
	l := m.layer
	m.mu.Unlock()
	if l == nil {
		return types.ErrLayerDestroyed
	}

	for _, g := range m.Clusters(zoom) {
		if g.ID != groupID {
			continue
		}
		refs := m.refsOf(g.MemberIDs)
		if l.onClick != nil {
			l.onClick(refs)
		}

		return nil
	}

	return fmt.Errorf("cluster %d at zoom %d not found", groupID, zoom)
}

// FitCalls returns every recorded FitBounds call.
func (m *Memory) FitCalls() []FitCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.fits)
}

// LayersCreated returns how many clustering layers were created so far.
func (m *Memory) LayersCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.layersCreated
}

// LayerMembers returns the point ids in the active layer, sorted. The bool
// is false when no layer is active.
func (m *Memory) LayerMembers() ([]string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.layer == nil {
		return nil, false
	}
	ids := make([]string, 0, len(m.layer.members))
	for ref := range m.layer.members {
		if mk, ok := m.markers[ref]; ok {
			ids = append(ids, mk.ID)
		}
	}
	slices.Sort(ids)

	return ids, true
}

// LayerTheme returns the theme of the active layer renderer.
func (m *Memory) LayerTheme() (types.Theme, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.layer == nil {
		return types.ThemeNormal, false
	}

	return m.layer.renderer.Theme(), true
}

// Clusters groups the active layer members that share a grid cell at zoom.
//
// Cells are DefaultCellSizePx (or WithCellSize) pixels wide in Web Mercator
// pixel space of 256px tiles. Only cells with two or more members form a
// cluster. Groups are sorted by their first member id.
func (m *Memory) Clusters(zoom int) []types.ClusterGroup {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.layer == nil {
		return nil
	}

	cells := make(map[[2]int64][]*Marker)
	for ref := range m.layer.members {
		mk, ok := m.markers[ref]
		if !ok {
			continue
		}
		cell := m.cellOf(mk.Position, zoom)
		cells[cell] = append(cells[cell], mk)
	}

	groups := make([]types.ClusterGroup, 0, len(cells))
	for _, members := range cells {
		if len(members) < 2 {
			continue
		}
		groups = append(groups, m.groupOf(members))
	}
	slices.SortFunc(groups, func(a, b types.ClusterGroup) int {
		return strings.Compare(a.MemberIDs[0], b.MemberIDs[0])
	})

	return groups
}

func (m *Memory) groupOf(members []*Marker) types.ClusterGroup {
	ids := make([]string, len(members))
	positions := make([]types.LatLng, len(members))
	for i, mk := range members {
		ids[i] = mk.ID
		positions[i] = mk.Position
	}
	slices.Sort(ids)

	bounds, _ := cluster.BoundsOf(positions)
	center := bounds.Center()

	return types.ClusterGroup{
		ID:        xxh3.HashString(strings.Join(ids, "\x00")),
		Bounds:    bounds,
		Center:    center,
		MemberIDs: ids,
		Count:     len(ids),
		Badge:     m.layer.renderer.Render(types.ClusterInfo{Count: len(ids), Position: center}),
	}
}

// cellOf projects p to Web Mercator pixels at zoom and returns its grid cell.
func (m *Memory) cellOf(p types.LatLng, zoom int) [2]int64 {
	lat := math.Max(-maxMercatorLat, math.Min(maxMercatorLat, p.Lat))
	x, y, _ := m.project(p.Lng, lat, 0)

	world := float64(tileSizePx) * math.Exp2(float64(zoom))
	px := (x + originShift) / (2 * originShift) * world
	py := (originShift - y) / (2 * originShift) * world
	cell := float64(m.cellSizePx)

	return [2]int64{int64(math.Floor(px / cell)), int64(math.Floor(py / cell))}
}

func (m *Memory) refsOf(ids []string) []types.MarkerRef {
	m.mu.Lock()
	defer m.mu.Unlock()

	refs := make([]types.MarkerRef, 0, len(ids))
	for _, id := range ids {
		if mk := m.markerByIDLocked(id); mk != nil {
			refs = append(refs, mk.Ref)
		}
	}

	return refs
}

func (m *Memory) markerByIDLocked(id string) *Marker {
	for _, mk := range m.markers {
		if mk.ID == id {
			return mk
		}
	}

	return nil
}

func (m *Memory) beginLocked(operation string) error {
	m.calls[operation]++
	if err, ok := m.failures[operation]; ok {
		return fmt.Errorf("%s: %w", operation, err)
	}

	return nil
}

type memoryLayer struct {
	surface   *Memory
	members   map[types.MarkerRef]struct{}
	renderer  types.ClusterRenderer
	onClick   func([]types.MarkerRef)
	destroyed bool
}

func (l *memoryLayer) AddMarkers(refs []types.MarkerRef) error {
	l.surface.mu.Lock()
	defer l.surface.mu.Unlock()

	if l.destroyed {
		return types.ErrLayerDestroyed
	}
	for _, ref := range refs {
		if _, ok := l.surface.markers[ref]; !ok {
			return fmt.Errorf("add %s to layer: %w", ref, types.ErrMarkerNotFound)
		}
	}
	for _, ref := range refs {
		l.members[ref] = struct{}{}
	}

	return nil
}

func (l *memoryLayer) RemoveMarkers(refs []types.MarkerRef) error {
	l.surface.mu.Lock()
	defer l.surface.mu.Unlock()

	if l.destroyed {
		return types.ErrLayerDestroyed
	}
	for _, ref := range refs {
		delete(l.members, ref)
	}

	return nil
}

func (l *memoryLayer) Destroy() error {
	l.surface.mu.Lock()
	defer l.surface.mu.Unlock()

	if l.destroyed {
		return types.ErrLayerDestroyed
	}
	l.destroyed = true
	if l.surface.layer == l {
		l.surface.layer = nil
	}

	return nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
