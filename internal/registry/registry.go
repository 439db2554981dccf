// Package registry owns the mapping from point id to live marker handle.
//
// The Registry is the only component that creates or destroys markers on the
// rendering surface and the only one that mutates the committed id set. The
// committed id set includes ids whose fade-out has started but not resolved;
// an id leaves the set together with the rest of its removal batch.
//
// A Registry is not safe for concurrent use; the engine serializes access.
package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/arloliu/pinmark/internal/animation"
	"github.com/arloliu/pinmark/internal/logger"
	"github.com/arloliu/pinmark/internal/metrics"
	"github.com/arloliu/pinmark/types"
)

// Members is the part of the cluster coordinator the registry drives.
type Members interface {
	AddMembers(handles []types.MarkerHandle)
	RemoveMembers(handles []types.MarkerHandle)
	Rebuild(handles []types.MarkerHandle, theme types.Theme)
}

// Config holds registry configuration.
type Config struct {
	// Required dependencies
	Surface   types.Surface
	Scheduler *animation.Scheduler
	Members   Members

	// Timing
	FadeInDuration  time.Duration
	FadeInDelay     time.Duration
	FadeOutDuration time.Duration

	// Theme markers are created with.
	Theme types.Theme

	// Optional dependencies
	Logger  types.Logger
	Metrics types.ReconcileMetrics

	// OnClick is called with the point id when a single marker is clicked.
	OnClick func(id string)

	// OnSurfaceError is called for every failed surface call.
	OnSurfaceError func(operation string, err error)
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Surface == nil {
		return errors.New("the Surface is required")
	}
	if c.Scheduler == nil {
		return errors.New("the Scheduler is required")
	}
	if c.Members == nil {
		return errors.New("the Members coordinator is required")
	}
	if c.FadeInDuration < 0 || c.FadeInDelay < 0 || c.FadeOutDuration < 0 {
		return fmt.Errorf("fade timings must be non-negative (in=%s delay=%s out=%s)",
			c.FadeInDuration, c.FadeInDelay, c.FadeOutDuration)
	}

	return nil
}

// fadeBatch is one animated removal. Its handles are detached together once
// every member finished fading out.
type fadeBatch struct {
	remaining map[string]struct{}
	faded     []*types.MarkerHandle
}

// Registry owns marker handles.
type Registry struct {
	surface   types.Surface
	scheduler *animation.Scheduler
	members   Members
	fadeIn    time.Duration
	fadeDelay time.Duration
	fadeOut   time.Duration
	logger    types.Logger
	metrics   types.ReconcileMetrics
	onClick   func(id string)
	onError   func(operation string, err error)

	theme   types.Theme
	handles map[string]*types.MarkerHandle
	pending map[string]*fadeBatch
}

// New creates an empty registry.
//
// Parameters:
//   - cfg: Registry configuration
//
// Returns:
//   - *Registry: Registry with no markers
//   - error: Validation error
func New(cfg Config) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNop()
	}
	if cfg.OnClick == nil {
		cfg.OnClick = func(string) {}
	}
	if cfg.OnSurfaceError == nil {
		cfg.OnSurfaceError = func(string, error) {}
	}

	return &Registry{
		surface:   cfg.Surface,
		scheduler: cfg.Scheduler,
		members:   cfg.Members,
		fadeIn:    cfg.FadeInDuration,
		fadeDelay: cfg.FadeInDelay,
		fadeOut:   cfg.FadeOutDuration,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		onClick:   cfg.OnClick,
		onError:   cfg.OnSurfaceError,
		theme:     cfg.Theme,
		handles:   make(map[string]*types.MarkerHandle),
		pending:   make(map[string]*fadeBatch),
	}, nil
}

// Commit applies one diff.
//
// Removals are processed before additions.
//
// Parameters:
//   - added: Points to create, in input order
//   - removed: Committed ids to destroy
//   - mode: ModeAnimated fades markers, ModeInstant attaches and detaches immediately
func (r *Registry) Commit(added []types.Point, removed []string, mode types.Mode) {
	if mode == types.ModeAnimated {
		r.fadeOutRemoved(removed)
	} else {
		r.detachNow(removed)
	}
	r.create(added, mode)

	r.metrics.RecordMarkerCount(len(r.handles))
}

// Resolve revives pending fade-outs that reappear in the next input.
//
// Ids pending fade-out that are present in next have their fade-out cancelled
// and fade back in from their current opacity. Every other pending fade-out
// keeps running and detaches with its batch on a later tick.
//
// Parameters:
//   - next: Ids of the upcoming input
//
// Returns:
//   - []string: Revived ids, sorted
func (r *Registry) Resolve(next map[string]struct{}) []string {
	if len(r.pending) == 0 {
		return nil
	}

	var revived []string
	for _, id := range slices.Sorted(maps.Keys(r.pending)) {
		if _, keep := next[id]; !keep {
			continue
		}
		r.revive(id, r.pending[id])
		revived = append(revived, id)
	}

	if len(revived) > 0 {
		r.metrics.RecordMarkerCount(len(r.handles))
	}

	return revived
}

// ApplyTheme re-icons every marker and rebuilds the cluster layer.
//
// Returns:
//   - bool: false if theme equals the current theme (nothing happens)
func (r *Registry) ApplyTheme(theme types.Theme) bool {
	if theme == r.theme {
		return false
	}
	r.theme = theme

	icon := types.IconFor(theme)
	for _, id := range r.IDs() {
		h := r.handles[id]
		if err := r.surface.SetIcon(h.Ref, icon); err != nil {
			r.surfaceError("set_icon", id, err)
			continue
		}
		h.Theme = theme
	}
	r.members.Rebuild(r.Handles(), theme)

	return true
}

// Theme returns the theme markers are rendered with.
func (r *Registry) Theme() types.Theme {
	return r.theme
}

// IDs returns the committed id set, sorted.
func (r *Registry) IDs() []string {
	return slices.Sorted(maps.Keys(r.handles))
}

// IDSet returns the committed id set.
func (r *Registry) IDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.handles))
	for id := range r.handles {
		set[id] = struct{}{}
	}

	return set
}

// LiveIDSet returns the committed ids that are not fading out. Diffs are
// computed against this set.
func (r *Registry) LiveIDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.handles)-len(r.pending))
	for id := range r.handles {
		if _, fading := r.pending[id]; fading {
			continue
		}
		set[id] = struct{}{}
	}

	return set
}

// Handle returns a copy of the handle for id.
func (r *Registry) Handle(id string) (types.MarkerHandle, bool) {
	h, ok := r.handles[id]
	if !ok {
		return types.MarkerHandle{}, false
	}

	return *h, true
}

// Handles returns copies of every handle, sorted by id.
func (r *Registry) Handles() []types.MarkerHandle {
	out := make([]types.MarkerHandle, 0, len(r.handles))
	for _, id := range r.IDs() {
		out = append(out, *r.handles[id])
	}

	return out
}

// Len returns the size of the committed id set.
func (r *Registry) Len() int {
	return len(r.handles)
}

// Pending returns the number of ids still fading out.
func (r *Registry) Pending() int {
	return len(r.pending)
}

// Clear cancels every task and detaches every marker immediately.
func (r *Registry) Clear() {
	r.pending = make(map[string]*fadeBatch)
	r.detachNow(r.IDs())
	r.metrics.RecordMarkerCount(0)
}

func (r *Registry) fadeOutRemoved(removed []string) {
	var immediate []string
	batch := &fadeBatch{remaining: make(map[string]struct{}, len(removed))}

	for _, id := range removed {
		h, ok := r.handles[id]
		if !ok {
			continue
		}

		// a marker that is still fading in is cut short
		if kind, active := r.scheduler.Kind(id); active && kind == animation.KindFadeIn {
			immediate = append(immediate, id)
			continue
		}

		batch.remaining[id] = struct{}{}
		r.pending[id] = batch
		r.scheduler.Animate(animation.Task{
			ID:         id,
			From:       h.Opacity,
			To:         0,
			Duration:   r.fadeOut,
			Kind:       animation.KindFadeOut,
			Apply:      r.opacityWriter(h),
			OnComplete: func() { r.fadedOut(batch, id) },
		})
	}

	r.detachNow(immediate)
}

func (r *Registry) revive(id string, batch *fadeBatch) {
	r.scheduler.Cancel(id)
	delete(batch.remaining, id)
	delete(r.pending, id)
	batch.faded = slices.DeleteFunc(batch.faded, func(h *types.MarkerHandle) bool { return h.ID == id })

	h := r.handles[id]
	r.logger.Debug("reviving marker pending removal", "id", id, "opacity", h.Opacity)
	r.scheduler.Animate(animation.Task{
		ID:       id,
		From:     h.Opacity,
		To:       1,
		Duration: r.fadeIn,
		Kind:     animation.KindFadeIn,
		Apply:    r.opacityWriter(h),
	})

	if len(batch.remaining) == 0 {
		r.detachBatch(batch)
	}
}

func (r *Registry) fadedOut(batch *fadeBatch, id string) {
	if _, ok := batch.remaining[id]; !ok {
		return
	}
	delete(batch.remaining, id)
	if h, ok := r.handles[id]; ok {
		batch.faded = append(batch.faded, h)
	}

	if len(batch.remaining) == 0 {
		r.detachBatch(batch)
	}
}

func (r *Registry) detachBatch(batch *fadeBatch) {
	if len(batch.faded) == 0 {
		return
	}

	detached := make([]types.MarkerHandle, 0, len(batch.faded))
	for _, h := range batch.faded {
		if cur, ok := r.handles[h.ID]; !ok || cur != h {
			continue
		}
		r.remove(h)
		detached = append(detached, *h)
	}
	batch.faded = nil

	r.members.RemoveMembers(detached)
	r.metrics.RecordMarkerCount(len(r.handles))
	r.logger.Debug("removal batch detached", "markers", len(detached))
}

func (r *Registry) detachNow(ids []string) {
	if len(ids) == 0 {
		return
	}

	detached := make([]types.MarkerHandle, 0, len(ids))
	for _, id := range ids {
		h, ok := r.handles[id]
		if !ok {
			continue
		}
		r.scheduler.Cancel(id)
		delete(r.pending, id)
		r.remove(h)
		detached = append(detached, *h)
	}

	r.members.RemoveMembers(detached)
}

// remove detaches h from the surface and the table. A surface failure is
// reported but the id still leaves the committed set.
func (r *Registry) remove(h *types.MarkerHandle) {
	if err := r.surface.RemoveMarker(h.Ref); err != nil {
		r.surfaceError("remove_marker", h.ID, err)
	}
	delete(r.handles, h.ID)
	delete(r.pending, h.ID)
}

func (r *Registry) create(added []types.Point, mode types.Mode) {
	if len(added) == 0 {
		return
	}

	opacity := 1.0
	if mode == types.ModeAnimated {
		opacity = 0
	}
	icon := types.IconFor(r.theme)

	created := make([]*types.MarkerHandle, 0, len(added))
	for _, p := range added {
		if _, exists := r.handles[p.ID]; exists {
			continue
		}

		id := p.ID
		ref, err := r.surface.CreateMarker(types.MarkerSpec{
			ID:       id,
			Position: *p.Position,
			Label:    p.Label,
			Icon:     icon,
			Opacity:  opacity,
			OnClick:  func() { r.onClick(id) },
		})
		if err != nil {
			r.surfaceError("create_marker", id, err)
			continue
		}

		h := &types.MarkerHandle{
			ID:      id,
			Ref:     ref,
			Point:   p.Clone(),
			Opacity: opacity,
			Theme:   r.theme,
		}
		r.handles[id] = h
		created = append(created, h)
	}

	batch := make([]types.MarkerHandle, len(created))
	for i, h := range created {
		batch[i] = *h
	}
	r.members.AddMembers(batch)

	if mode != types.ModeAnimated {
		return
	}
	for _, h := range created {
		r.scheduler.Animate(animation.Task{
			ID:       h.ID,
			From:     0,
			To:       1,
			Duration: r.fadeIn,
			Delay:    r.fadeDelay,
			Kind:     animation.KindFadeIn,
			Apply:    r.opacityWriter(h),
		})
	}
}

// opacityWriter returns the Apply function of a task targeting h. It reports
// false once h is no longer the live handle for its id.
func (r *Registry) opacityWriter(h *types.MarkerHandle) func(float64) bool {
	return func(opacity float64) bool {
		if cur, ok := r.handles[h.ID]; !ok || cur != h {
			return false
		}
		if err := r.surface.SetOpacity(h.Ref, opacity); err != nil {
			r.surfaceError("set_opacity", h.ID, err)
		}
		h.Opacity = opacity

		return true
	}
}

func (r *Registry) surfaceError(operation, id string, err error) {
	r.logger.Warn("surface call failed", "operation", operation, "id", id, "error", err)
	r.onError(operation, fmt.Errorf("%s %q: %w", operation, id, err))
}
