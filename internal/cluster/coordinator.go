// Package cluster owns the surface's clustering layer.
//
// The Coordinator keeps the member table of the layer, creates the layer
// lazily, applies incremental add/remove batches and performs full rebuilds
// when the theme changes. Layer operations run one at a time: requests that
// arrive while another operation is being applied are queued, and a queued
// rebuild supersedes every operation queued before it.
package cluster

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/arloliu/pinmark/internal/logger"
	"github.com/arloliu/pinmark/internal/metrics"
	"github.com/arloliu/pinmark/types"
)

// Config holds coordinator configuration.
type Config struct {
	// Required dependencies
	Surface types.Surface

	// Optional configuration (with defaults)
	Theme        types.Theme // Initial renderer theme (default: ThemeNormal)
	FitPaddingPx int         // Cluster click fit-bounds padding (default: 50)
	Badges       BadgeConfig // Badge buckets (default: DefaultBadgeConfig)

	// Optional dependencies
	Logger  types.Logger
	Metrics types.ClusterMetrics

	// OnSurfaceError is called for every failed layer or viewport call.
	OnSurfaceError func(operation string, err error)
}

// DefaultFitPaddingPx is the padding used when fitting a clicked cluster.
const DefaultFitPaddingPx = 50

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Surface == nil {
		return errors.New("the Surface is required")
	}
	if c.FitPaddingPx < 0 {
		return fmt.Errorf("fit padding must be non-negative, got %d", c.FitPaddingPx)
	}

	return c.Badges.Validate()
}

type opKind int

const (
	opAdd opKind = iota
	opRemove
	opRebuild
	opDestroy
)

func (k opKind) String() string {
	switch k {
	case opAdd:
		return "add"
	case opRemove:
		return "remove"
	case opRebuild:
		return "rebuild"
	default:
		return "destroy"
	}
}

type op struct {
	kind opKind
	refs []types.MarkerRef
}

// Coordinator serializes every mutation of the clustering layer.
//
// Coordinator is safe for concurrent use. Surface calls are made without
// holding the internal lock, so the surface may call back into the
// coordinator (cluster clicks) from within a layer operation.
type Coordinator struct {
	surface types.Surface
	padding int
	badges  BadgeConfig
	logger  types.Logger
	metrics types.ClusterMetrics
	onError func(operation string, err error)

	mu       sync.Mutex
	theme    types.Theme
	members  map[types.MarkerRef]types.MarkerHandle
	queue    []op
	draining bool
	closed   bool

	// owned by the draining goroutine
	layer   types.ClusterLayer
	inLayer map[types.MarkerRef]struct{}
}

// NewCoordinator creates a coordinator. No layer exists until the first
// members are added.
//
// Parameters:
//   - cfg: Coordinator configuration; zero optional fields are defaulted
//
// Returns:
//   - *Coordinator: Ready coordinator
//   - error: Validation error
func NewCoordinator(cfg Config) (*Coordinator, error) {
	if cfg.FitPaddingPx == 0 {
		cfg.FitPaddingPx = DefaultFitPaddingPx
	}
	cfg.Badges.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNop()
	}
	if cfg.OnSurfaceError == nil {
		cfg.OnSurfaceError = func(string, error) {}
	}

	return &Coordinator{
		surface: cfg.Surface,
		padding: cfg.FitPaddingPx,
		badges:  cfg.Badges,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		onError: cfg.OnSurfaceError,
		theme:   cfg.Theme,
		members: make(map[types.MarkerRef]types.MarkerHandle),
		inLayer: make(map[types.MarkerRef]struct{}),
	}, nil
}

// AddMembers registers handles with the layer, creating it if needed.
func (c *Coordinator) AddMembers(handles []types.MarkerHandle) {
	if len(handles) == 0 {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	refs := make([]types.MarkerRef, 0, len(handles))
	for _, h := range handles {
		c.members[h.Ref] = h
		refs = append(refs, h.Ref)
	}
	c.enqueueLocked(op{kind: opAdd, refs: refs})
	c.mu.Unlock()

	c.drain()
}

// RemoveMembers drops handles from the layer.
func (c *Coordinator) RemoveMembers(handles []types.MarkerHandle) {
	if len(handles) == 0 {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	refs := make([]types.MarkerRef, 0, len(handles))
	for _, h := range handles {
		delete(c.members, h.Ref)
		refs = append(refs, h.Ref)
	}
	c.enqueueLocked(op{kind: opRemove, refs: refs})
	c.mu.Unlock()

	c.drain()
}

// Rebuild destroys the layer and recreates it over handles with a renderer
// bound to theme. handles replaces the member table.
func (c *Coordinator) Rebuild(handles []types.MarkerHandle, theme types.Theme) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.theme = theme
	c.members = make(map[types.MarkerRef]types.MarkerHandle, len(handles))
	for _, h := range handles {
		c.members[h.Ref] = h
	}
	c.enqueueLocked(op{kind: opRebuild})
	c.mu.Unlock()

	c.drain()
}

// Theme returns the theme new layers are rendered with.
func (c *Coordinator) Theme() types.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.theme
}

// Members returns the refs currently registered, sorted.
func (c *Coordinator) Members() []types.MarkerRef {
	c.mu.Lock()
	defer c.mu.Unlock()

	refs := make([]types.MarkerRef, 0, len(c.members))
	for ref := range c.members {
		refs = append(refs, ref)
	}
	slices.Sort(refs)

	return refs
}

// Pending returns the number of queued operations.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.queue)
}

// HandleClusterClick fits the viewport to the clicked cluster.
//
// Unknown refs are ignored; a click on a cluster whose members are all gone
// does nothing.
//
// Parameters:
//   - refs: Member refs of the clicked cluster, as reported by the layer
//
// Returns:
//   - types.Bounds: The bounds passed to FitBounds
//   - bool: true if FitBounds was called
func (c *Coordinator) HandleClusterClick(refs []types.MarkerRef) (types.Bounds, bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return types.Bounds{}, false
	}
	positions := make([]types.LatLng, 0, len(refs))
	for _, ref := range refs {
		h, ok := c.members[ref]
		if !ok || h.Point.Position == nil {
			continue
		}
		positions = append(positions, *h.Point.Position)
	}
	c.mu.Unlock()

	bounds, ok := BoundsOf(positions)
	if !ok {
		c.logger.Debug("ignoring click on empty cluster", "refs", len(refs))
		return types.Bounds{}, false
	}

	if err := c.surface.FitBounds(bounds, c.padding); err != nil {
		c.surfaceError("fit_bounds", err)
		return bounds, false
	}
	c.logger.Debug("fitted cluster bounds", "members", len(positions))

	return bounds, true
}

// Close destroys the layer and rejects further operations.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.members = make(map[types.MarkerRef]types.MarkerHandle)
	c.enqueueLocked(op{kind: opDestroy})
	c.mu.Unlock()

	c.drain()
}

func (c *Coordinator) enqueueLocked(o op) {
	switch o.kind {
	case opRebuild, opDestroy:
		// both start from the member table as it is at processing time,
		// so anything queued earlier is redundant
		for range c.queue {
			c.metrics.RecordClusterOperationCoalesced()
		}
		c.queue = c.queue[:0]
	case opAdd, opRemove:
		if n := len(c.queue); n > 0 && (c.queue[n-1].kind == opRebuild || c.queue[n-1].kind == opDestroy) {
			c.metrics.RecordClusterOperationCoalesced()
			return
		}
	}
	c.queue = append(c.queue, o)
}

// drain applies queued operations until the queue is empty. Only one
// goroutine drains at a time; re-entrant and concurrent callers leave their
// operation in the queue for the active drainer.
func (c *Coordinator) drain() {
	c.mu.Lock()
	if c.draining {
		c.mu.Unlock()
		return
	}
	c.draining = true

	for len(c.queue) > 0 {
		o := c.queue[0]
		c.queue = c.queue[1:]

		var snapshot []types.MarkerRef
		if o.kind == opRebuild || o.kind == opAdd {
			snapshot = c.sortedMembersLocked()
		}
		theme := c.theme
		c.mu.Unlock()

		c.apply(o, snapshot, theme)

		c.mu.Lock()
	}

	c.draining = false
	c.mu.Unlock()
}

func (c *Coordinator) sortedMembersLocked() []types.MarkerRef {
	refs := make([]types.MarkerRef, 0, len(c.members))
	for ref := range c.members {
		refs = append(refs, ref)
	}
	slices.Sort(refs)

	return refs
}

func (c *Coordinator) apply(o op, members []types.MarkerRef, theme types.Theme) {
	switch o.kind {
	case opAdd:
		if c.layer == nil {
			c.createLayer(members, theme)
			return
		}
		refs := make([]types.MarkerRef, 0, len(o.refs))
		for _, ref := range o.refs {
			if _, ok := c.inLayer[ref]; ok {
				continue
			}
			if _, found := slices.BinarySearch(members, ref); found {
				refs = append(refs, ref)
			}
		}
		if len(refs) == 0 {
			return
		}
		if err := c.layer.AddMarkers(refs); err != nil {
			c.surfaceError("cluster_add", err)
			return
		}
		for _, ref := range refs {
			c.inLayer[ref] = struct{}{}
		}
		c.metrics.RecordClusterOperation(opAdd.String(), len(refs))

	case opRemove:
		if c.layer == nil {
			return
		}
		refs := make([]types.MarkerRef, 0, len(o.refs))
		for _, ref := range o.refs {
			if _, ok := c.inLayer[ref]; ok {
				refs = append(refs, ref)
			}
		}
		if len(refs) == 0 {
			return
		}
		for _, ref := range refs {
			delete(c.inLayer, ref)
		}
		if err := c.layer.RemoveMarkers(refs); err != nil {
			c.surfaceError("cluster_remove", err)
			return
		}
		c.metrics.RecordClusterOperation(opRemove.String(), len(refs))

	case opRebuild:
		c.destroyLayer()
		if len(members) > 0 {
			c.createLayer(members, theme)
		}
		c.metrics.RecordClusterOperation(opRebuild.String(), len(members))
		c.logger.Debug("rebuilt cluster layer", "theme", theme.String(), "members", len(members))

	case opDestroy:
		c.destroyLayer()
	}
}

func (c *Coordinator) createLayer(members []types.MarkerRef, theme types.Theme) {
	if len(members) == 0 {
		return
	}

	layer, err := c.surface.CreateClusterLayer(types.ClusterLayerOptions{
		Members:  slices.Clone(members),
		Renderer: NewRenderer(theme, c.badges),
		OnClusterClick: func(refs []types.MarkerRef) {
			c.HandleClusterClick(refs)
		},
	})
	if err != nil {
		c.surfaceError("cluster_create", err)
		return
	}

	c.layer = layer
	c.inLayer = make(map[types.MarkerRef]struct{}, len(members))
	for _, ref := range members {
		c.inLayer[ref] = struct{}{}
	}
	c.metrics.RecordClusterOperation("create", len(members))
}

func (c *Coordinator) destroyLayer() {
	if c.layer == nil {
		return
	}
	if err := c.layer.Destroy(); err != nil {
		c.surfaceError("cluster_destroy", err)
	}
	c.layer = nil
	c.inLayer = make(map[types.MarkerRef]struct{})
}

func (c *Coordinator) surfaceError(operation string, err error) {
	c.logger.Warn("cluster layer operation failed", "operation", operation, "error", err)
	c.onError(operation, err)
}
