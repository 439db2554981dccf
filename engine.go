package pinmark

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/pinmark/internal/animation"
	"github.com/arloliu/pinmark/internal/cluster"
	"github.com/arloliu/pinmark/internal/diff"
	"github.com/arloliu/pinmark/internal/hooks"
	"github.com/arloliu/pinmark/internal/logger"
	"github.com/arloliu/pinmark/internal/metrics"
	"github.com/arloliu/pinmark/internal/phase"
	"github.com/arloliu/pinmark/internal/registry"
	"github.com/arloliu/pinmark/internal/transition"
	"github.com/arloliu/pinmark/types"
)

// Skip reasons reported to metrics for points dropped before diffing.
const (
	skipEmptyID            = "empty_id"
	skipMissingCoordinates = "missing_coordinates"
	skipInvalidCoordinates = "invalid_coordinates"
	skipDuplicateID        = "duplicate_id"
)

// Engine reconciles successive point sets onto a rendering surface.
//
// Every entry point takes the engine lock, so updates, theme changes and
// ticks are applied one at a time in call order. Hooks never run while the
// lock is held.
//
// Engine is safe for concurrent use.
type Engine struct {
	cfg     Config
	surface Surface
	clock   Clock
	logger  Logger
	metrics MetricsCollector
	hooks   Hooks

	machine *phase.Machine

	// Guarded by mu
	mu        sync.Mutex
	scheduler *animation.Scheduler
	coord     *cluster.Coordinator
	registry  *registry.Registry
	ready     bool
	stopped   bool
	theme     Theme
	latest    []Point
	hasLatest bool

	// Lifecycle, guarded by lifeMu
	lifeMu  sync.Mutex
	started bool
	cancel  context.CancelFunc
	loopWg  sync.WaitGroup

	// Background hook invocations
	closed  atomic.Bool
	hooksWg sync.WaitGroup

	// Counters reported by Stats
	diffs         atomic.Int64
	animated      atomic.Int64
	instant       atomic.Int64
	skipped       atomic.Int64
	surfaceErrors atomic.Int64
}

// Stats is a point-in-time snapshot of engine state.
type Stats struct {
	Phase            Phase
	Theme            Theme
	Ready            bool
	Markers          int   // Committed ids, including ids still fading out
	PendingRemovals  int   // Ids fading out
	ActiveAnimations int   // In-flight opacity tasks
	ClusterMembers   int   // Markers registered with the clustering layer
	Diffs            int64 // Non-empty diffs applied
	AnimatedDiffs    int64 // Diffs committed as surface switches
	InstantDiffs     int64 // Diffs committed without animation
	SkippedPoints    int64 // Malformed or duplicate points dropped
	SurfaceErrors    int64 // Failed surface calls
}

// NewEngine creates an engine bound to a rendering surface.
//
// The engine starts in PhaseWaitingSurface. Nothing is rendered until the
// surface closes its Ready channel; until then only the latest Update input
// and theme are remembered.
//
// Parameters:
//   - cfg: Configuration; zero-valued fields are defaulted
//   - surface: Rendering surface the engine owns exclusively
//   - opts: Optional configuration (WithLogger, WithMetrics, WithHooks, WithClock, WithTheme)
//
// Returns:
//   - *Engine: Initialized engine
//   - error: ErrInvalidConfig or ErrSurfaceRequired
//
// Example:
//
//	cfg := pinmark.DefaultConfig()
//	eng, err := pinmark.NewEngine(&cfg, mapSurface, pinmark.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := eng.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Stop(context.Background())
//	eng.Update(points)
func NewEngine(cfg *Config, surface Surface, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if surface == nil {
		return nil, ErrSurfaceRequired
	}

	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// copy so caller mutations after construction have no effect
	c := *cfg
	SetDefaults(&c)
	if options.theme != nil {
		c.InitialTheme = *options.theme
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	e := &Engine{
		cfg:     c,
		surface: surface,
		clock:   options.clock,
		logger:  options.logger,
		metrics: options.metrics,
		hooks:   hooks.Merge(options.hooks),
		theme:   c.InitialTheme,
	}
	if e.clock == nil {
		e.clock = types.SystemClock{}
	}
	if e.logger == nil {
		e.logger = logger.NewNop()
	}
	if e.metrics == nil {
		e.metrics = metrics.NewNop()
	}
	c.ValidateWithWarnings(e.logger)

	e.machine = phase.NewMachine(e.logger)
	e.scheduler = animation.NewScheduler(e.clock, e.metrics)

	coord, err := cluster.NewCoordinator(cluster.Config{
		Surface:        surface,
		Theme:          c.InitialTheme,
		FitPaddingPx:   c.Cluster.FitPaddingPx,
		Badges:         c.Cluster.Badges,
		Logger:         e.logger,
		Metrics:        e.metrics,
		OnSurfaceError: e.onSurfaceError,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	e.coord = coord

	reg, err := registry.New(registry.Config{
		Surface:         surface,
		Scheduler:       e.scheduler,
		Members:         coord,
		FadeInDuration:  c.Animation.FadeInDuration,
		FadeInDelay:     c.Animation.FadeInDelay,
		FadeOutDuration: c.Animation.FadeOutDuration,
		Theme:           c.InitialTheme,
		Logger:          e.logger,
		Metrics:         e.metrics,
		OnClick:         e.handleMarkerClick,
		OnSurfaceError:  e.onSurfaceError,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	e.registry = reg

	return e, nil
}

// Update reconciles the surface with the next ordered point set.
//
// Points without an id, without coordinates or with invalid coordinates are
// skipped and logged, as are repeated ids after their first occurrence.
// The remaining points are diffed against the committed id set; identity is
// by id only, so a point that kept its id but moved keeps its marker.
//
// Before the surface is ready the input is only remembered. The latest input
// is applied once the surface signals readiness.
//
// Parameters:
//   - points: Complete ordered point set; the engine keeps its own copy
func (e *Engine) Update(points []Point) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return
	}

	clean := e.sanitize(points)
	if !e.ready {
		e.latest = clean
		e.hasLatest = true
		if !e.checkReadyLocked() {
			e.logger.Debug("surface not ready, buffering points", "points", len(clean))
		}

		return
	}

	e.applyLocked(clean)
	e.settlePhaseLocked()
}

// SetTheme switches the marker icon and cluster badge theme.
//
// Every marker is re-iconed and the clustering layer is rebuilt with a
// renderer bound to the new theme. Setting the current theme does nothing.
//
// Parameters:
//   - theme: ThemeNormal or ThemeDark
func (e *Engine) SetTheme(theme Theme) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped || theme == e.theme {
		return
	}
	if theme != ThemeNormal && theme != ThemeDark {
		e.logger.Warn("ignoring unknown theme", "theme", int(theme))
		return
	}

	e.theme = theme
	if !e.checkReadyLocked() {
		e.logger.Debug("surface not ready, deferring theme", "theme", theme.String())
		return
	}

	if e.registry.ApplyTheme(theme) {
		e.logger.Info("theme applied", "theme", theme.String(), "markers", e.registry.Len())
	}
}

// Theme returns the requested theme.
func (e *Engine) Theme() Theme {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.theme
}

// Tick advances every in-flight animation to now.
//
// Start drives Tick from a background loop. Tests and hosts with their own
// frame loop call it directly.
//
// Parameters:
//   - now: Current time of the animation clock
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped || !e.checkReadyLocked() {
		return
	}

	e.scheduler.Tick(now)
	e.settlePhaseLocked()
}

// Start runs the background tick loop.
//
// The loop waits for the surface to become ready, then calls Tick every
// Animation.TickInterval with the engine clock. It stops when ctx is
// cancelled or Stop is called.
//
// Parameters:
//   - ctx: Context bounding the loop lifetime
//
// Returns:
//   - error: ErrAlreadyStarted if the loop runs or the engine was stopped
func (e *Engine) Start(ctx context.Context) error {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()

	if e.started || e.closed.Load() {
		return ErrAlreadyStarted
	}
	e.started = true

	loopCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.loopWg.Go(func() {
		e.run(loopCtx)
	})

	e.logger.Info("engine started", "tickInterval", e.cfg.Animation.TickInterval)

	return nil
}

// Stop shuts the engine down.
//
// The tick loop is stopped, every animation is cancelled, every marker is
// removed and the clustering layer is destroyed. Afterwards the phase is
// PhaseShutdown, subscriber channels are closed and every method is a no-op.
// Stop also works for engines whose Tick is driven by the host.
//
// Parameters:
//   - ctx: Context bounding how long to wait for the loop and pending hooks
//
// Returns:
//   - error: ErrNotStarted if already stopped, ctx.Err() on timeout
func (e *Engine) Stop(ctx context.Context) error {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()

	if e.closed.Load() {
		return ErrNotStarted
	}

	if e.cancel != nil {
		e.cancel()
		if err := waitGroup(ctx, &e.loopWg); err != nil {
			return fmt.Errorf("waiting for tick loop: %w", err)
		}
	}

	e.mu.Lock()
	e.stopped = true
	e.scheduler.Clear()
	e.registry.Clear()
	e.coord.Close()
	e.latest = nil
	e.hasLatest = false
	e.transitionLocked(PhaseShutdown)
	e.mu.Unlock()

	e.closed.Store(true)
	e.machine.Close()
	e.logger.Info("engine stopped")

	if err := waitGroup(ctx, &e.hooksWg); err != nil {
		return fmt.Errorf("waiting for hooks: %w", err)
	}

	return nil
}

// Sync pulls the full point set from src and applies it.
//
// Parameters:
//   - ctx: Context for the source call
//   - src: Point source
//
// Returns:
//   - error: ErrSourceRequired or the wrapped source error
func (e *Engine) Sync(ctx context.Context, src PointSource) error {
	if src == nil {
		return ErrSourceRequired
	}

	points, err := src.ListPoints(ctx)
	if err != nil {
		return fmt.Errorf("list points: %w", err)
	}
	e.Update(points)

	return nil
}

// Watch syncs from w now and again after every change signal.
//
// Sync failures are logged and reported to Hooks.OnError; watching continues.
//
// Parameters:
//   - ctx: Context bounding the watch
//   - w: Watched point source
//
// Returns:
//   - error: ErrSourceRequired, ctx.Err() on cancellation, nil when w closes its channel
func (e *Engine) Watch(ctx context.Context, w PointWatcher) error {
	if w == nil {
		return ErrSourceRequired
	}

	changes := w.Changes()
	e.syncAndReport(ctx, w)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-changes:
			if !ok {
				e.logger.Debug("point watcher closed")
				return nil
			}
			e.syncAndReport(ctx, w)
		}
	}
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase {
	return e.machine.Current()
}

// Subscribe returns a channel of phase changes.
//
// The channel receives the current phase immediately and is closed by Stop
// or by the returned unsubscribe function. Slow readers miss intermediate
// phases instead of blocking the engine.
//
// Returns:
//   - <-chan Phase: Phase updates
//   - func(): Unsubscribe function
func (e *Engine) Subscribe() (<-chan Phase, func()) {
	return e.machine.Subscribe()
}

// CommittedIDs returns the committed id set, sorted.
//
// Ids whose fade-out is still running are included.
func (e *Engine) CommittedIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.registry.IDs()
}

// Handle returns a copy of the marker handle rendering id.
func (e *Engine) Handle(id string) (MarkerHandle, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.registry.Handle(id)
}

// Stats returns a snapshot of engine state and counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	s := Stats{
		Theme:            e.theme,
		Ready:            e.ready,
		Markers:          e.registry.Len(),
		PendingRemovals:  e.registry.Pending(),
		ActiveAnimations: e.scheduler.Len(),
	}
	e.mu.Unlock()

	s.Phase = e.machine.Current()
	s.ClusterMembers = len(e.coord.Members())
	s.Diffs = e.diffs.Load()
	s.AnimatedDiffs = e.animated.Load()
	s.InstantDiffs = e.instant.Load()
	s.SkippedPoints = e.skipped.Load()
	s.SurfaceErrors = e.surfaceErrors.Load()

	return s
}

func (e *Engine) run(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-e.surface.Ready():
	}

	e.Tick(e.clock.Now())

	ticker := time.NewTicker(e.cfg.Animation.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick(e.clock.Now())
		}
	}
}

// checkReadyLocked reports whether the surface is ready. On the first ready
// observation the deferred theme and the latest buffered input are applied.
func (e *Engine) checkReadyLocked() bool {
	if e.ready {
		return true
	}

	select {
	case <-e.surface.Ready():
	default:
		return false
	}

	e.ready = true
	e.transitionLocked(PhaseIdle)
	e.logger.Info("rendering surface ready", "theme", e.theme.String(), "buffered", e.hasLatest)

	e.registry.ApplyTheme(e.theme)
	if e.hasLatest {
		points := e.latest
		e.latest = nil
		e.hasLatest = false
		e.applyLocked(points)
	}
	e.settlePhaseLocked()

	return true
}

func (e *Engine) applyLocked(points []Point) {
	next := diff.PointIDSet(points)
	if revived := e.registry.Resolve(next); len(revived) > 0 {
		e.logger.Debug("revived markers pending removal", "count", len(revived))
	}

	// markers still fading out are not part of the diff; they finish on their own ticks
	live := e.registry.LiveIDSet()
	res := diff.Compute(live, points)
	if res.Empty() {
		return
	}

	mode := transition.Classify(transition.Counts{
		Previous: len(live),
		Next:     len(next),
		Added:    len(res.Added),
		Removed:  len(res.Removed),
	})
	e.registry.Commit(res.Added, res.Removed, mode)

	e.metrics.RecordReconcile(len(res.Added), len(res.Removed), mode)
	e.diffs.Add(1)
	if mode == ModeAnimated {
		e.animated.Add(1)
	} else {
		e.instant.Add(1)
	}

	e.logger.Debug("diff applied",
		"added", len(res.Added),
		"removed", len(res.Removed),
		"unchanged", len(res.Unchanged),
		"mode", mode.String(),
	)
}

func (e *Engine) settlePhaseLocked() {
	if !e.ready || e.stopped {
		return
	}

	if e.scheduler.Len() > 0 {
		e.transitionLocked(PhaseTransitioning)
	} else {
		e.transitionLocked(PhaseIdle)
	}
}

func (e *Engine) transitionLocked(to Phase) {
	from, changed := e.machine.Transition(to)
	if !changed {
		return
	}

	e.logger.Debug("phase transition", "from", from.String(), "to", to.String())
	e.goHook(func(ctx context.Context) error {
		return e.hooks.OnPhaseChanged(ctx, from, to)
	}, "phase change hook error")
}

func (e *Engine) sanitize(points []Point) []Point {
	out := make([]Point, 0, len(points))
	seen := make(map[string]struct{}, len(points))

	for i, p := range points {
		if err := p.Validate(); err != nil {
			e.skip(i, p.ID, skipReason(err), err)
			continue
		}
		if _, dup := seen[p.ID]; dup {
			e.skip(i, p.ID, skipDuplicateID, fmt.Errorf("point %q: %w", p.ID, ErrDuplicatePointID))
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p.Clone())
	}

	return out
}

func (e *Engine) skip(index int, id, reason string, err error) {
	e.skipped.Add(1)
	e.metrics.RecordSkippedPoint(reason)
	e.logger.Warn("skipping malformed point", "index", index, "id", id, "reason", reason, "error", err)
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyPointID):
		return skipEmptyID
	case errors.Is(err, ErrMissingCoordinates):
		return skipMissingCoordinates
	default:
		return skipInvalidCoordinates
	}
}

// handleMarkerClick runs on the surface's goroutine, outside the engine lock.
func (e *Engine) handleMarkerClick(id string) {
	e.mu.Lock()
	h, ok := e.registry.Handle(id)
	stopped := e.stopped
	e.mu.Unlock()

	if stopped || !ok {
		return
	}

	e.logger.Debug("marker activated", "id", id)
	if err := e.hooks.OnMarkerActivated(context.Background(), h.Point.Clone()); err != nil {
		e.logger.Warn("marker activation hook error", "id", id, "error", err)
	}
}

// onSurfaceError may be called with or without the engine lock held.
func (e *Engine) onSurfaceError(operation string, err error) {
	e.surfaceErrors.Add(1)
	e.metrics.RecordSurfaceError(operation)

	e.goHook(func(ctx context.Context) error {
		return e.hooks.OnError(ctx, fmt.Errorf("surface %s: %w", operation, err))
	}, "error hook error")
}

func (e *Engine) syncAndReport(ctx context.Context, src PointSource) {
	if err := e.Sync(ctx, src); err != nil {
		if ctx.Err() != nil {
			return
		}
		e.logger.Error("point sync failed", "error", err)
		e.goHook(func(ctx context.Context) error {
			return e.hooks.OnError(ctx, err)
		}, "error hook error")
	}
}

// goHook runs a hook in the background so it never blocks the engine.
func (e *Engine) goHook(fn func(ctx context.Context) error, failure string) {
	if e.closed.Load() {
		return
	}

	e.hooksWg.Go(func() {
		if err := fn(context.Background()); err != nil {
			e.logger.Warn(failure, "error", err)
		}
	})
}

func waitGroup(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
