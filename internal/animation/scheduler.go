// Package animation drives per-marker opacity transitions over time.
//
// The scheduler holds at most one task per marker id and is advanced by a
// single Tick function. It never spawns goroutines and never reads the wall
// clock directly: the start time of a task comes from the injected
// types.Clock and progress comes from the timestamp passed to Tick, which
// keeps animations deterministic under a fake clock.
//
// A Scheduler is not safe for concurrent use; the engine serializes access.
package animation

import (
	"slices"
	"time"

	"github.com/arloliu/pinmark/types"
)

// Kind classifies a task.
type Kind int

const (
	// KindFadeIn raises opacity for a newly created marker.
	KindFadeIn Kind = iota

	// KindFadeOut lowers opacity before a marker is destroyed.
	KindFadeOut
)

// String returns the metric label of the kind.
func (k Kind) String() string {
	switch k {
	case KindFadeIn:
		return "fade_in"
	case KindFadeOut:
		return "fade_out"
	default:
		return "unknown"
	}
}

// Task describes one opacity transition.
type Task struct {
	// ID is the marker id the task targets.
	ID string

	From float64
	To   float64

	// Duration of the transition once started.
	Duration time.Duration

	// Delay postpones the start; opacity is not written while delayed.
	Delay time.Duration

	Kind Kind

	// Apply writes an opacity to the target. It returns false when the target
	// no longer exists, in which case the task is dropped without completing.
	Apply func(opacity float64) bool

	// OnComplete runs exactly once after the final value was applied.
	// It is not called for cancelled or superseded tasks.
	OnComplete func()
}

type task struct {
	Task
	start time.Time
}

// Scheduler owns the in-flight opacity tasks.
type Scheduler struct {
	clock   types.Clock
	metrics types.AnimationMetrics
	tasks   map[string]*task
}

// NewScheduler creates an empty scheduler.
//
// Parameters:
//   - clock: Time source used to stamp task start times
//   - metrics: Animation metrics sink
//
// Returns:
//   - *Scheduler: Scheduler with no active tasks
func NewScheduler(clock types.Clock, metrics types.AnimationMetrics) *Scheduler {
	return &Scheduler{
		clock:   clock,
		metrics: metrics,
		tasks:   make(map[string]*task),
	}
}

// Animate registers a task, replacing any task already targeting t.ID.
//
// The replaced task is discarded without calling its OnComplete. Animate
// returns immediately; progress happens on Tick.
func (s *Scheduler) Animate(t Task) {
	if old, ok := s.tasks[t.ID]; ok {
		s.metrics.RecordAnimationFinished(old.Kind.String(), true)
	}

	s.tasks[t.ID] = &task{Task: t, start: s.clock.Now().Add(t.Delay)}
	s.metrics.RecordAnimationStarted(t.Kind.String())
	s.metrics.RecordActiveAnimations(len(s.tasks))
}

// Cancel drops the task targeting id without calling its OnComplete.
//
// Returns:
//   - bool: true if a task was active
func (s *Scheduler) Cancel(id string) bool {
	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	delete(s.tasks, id)
	s.metrics.RecordAnimationFinished(t.Kind.String(), true)
	s.metrics.RecordActiveAnimations(len(s.tasks))

	return true
}

// Finish fast-forwards the task targeting id: the final value is applied and
// OnComplete runs, exactly as if the duration had elapsed.
//
// Returns:
//   - bool: true if a task was active
func (s *Scheduler) Finish(id string) bool {
	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	s.complete(t)

	return true
}

// Kind returns the kind of the active task for id.
func (s *Scheduler) Kind(id string) (Kind, bool) {
	t, ok := s.tasks[id]
	if !ok {
		return 0, false
	}

	return t.Kind, true
}

// Active reports whether a task targets id.
func (s *Scheduler) Active(id string) bool {
	_, ok := s.tasks[id]
	return ok
}

// Len returns the number of active tasks.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Tick advances every active task to now.
//
// Tasks are processed in id order. A completion callback may schedule or
// cancel other tasks; tasks removed during the tick are skipped.
//
// Parameters:
//   - now: Current animation clock reading
//
// Returns:
//   - int: Number of tasks still active after the tick
func (s *Scheduler) Tick(now time.Time) int {
	if len(s.tasks) == 0 {
		return 0
	}

	ids := make([]string, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		t, ok := s.tasks[id]
		if !ok {
			continue
		}
		if now.Before(t.start) {
			continue
		}

		elapsed := now.Sub(t.start)
		if elapsed >= t.Duration {
			s.complete(t)
			continue
		}

		if t.Apply != nil && !t.Apply(Sample(t.From, t.To, elapsed, t.Duration)) {
			// target destroyed mid-flight; drop the tick and the task
			delete(s.tasks, id)
			s.metrics.RecordAnimationFinished(t.Kind.String(), true)
		}
	}

	s.metrics.RecordActiveAnimations(len(s.tasks))

	return len(s.tasks)
}

// Clear cancels every task without running callbacks.
func (s *Scheduler) Clear() {
	for id := range s.tasks {
		s.Cancel(id)
	}
}

func (s *Scheduler) complete(t *task) {
	if cur, ok := s.tasks[t.ID]; !ok || cur != t {
		return
	}
	delete(s.tasks, t.ID)

	if t.Apply != nil {
		t.Apply(t.To)
	}
	s.metrics.RecordAnimationFinished(t.Kind.String(), false)
	s.metrics.RecordActiveAnimations(len(s.tasks))

	if t.OnComplete != nil {
		t.OnComplete()
	}
}
