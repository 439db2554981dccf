// Package phase tracks the engine lifecycle phase and fans changes out to subscribers.
package phase

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/pinmark/types"
)

// Machine holds the current engine phase.
//
// Valid transitions:
//   - WaitingSurface → Idle, Shutdown
//   - Idle → Transitioning, Shutdown
//   - Transitioning → Idle, Shutdown
//
// Shutdown is terminal. Invalid transitions are rejected and logged.
type Machine struct {
	current atomic.Int32 // types.Phase

	logger types.Logger

	subscribers      *xsync.Map[uint64, *subscriber]
	nextSubscriberID atomic.Uint64
	closed           atomic.Bool
}

// NewMachine creates a machine in PhaseWaitingSurface.
func NewMachine(logger types.Logger) *Machine {
	m := &Machine{
		logger:      logger,
		subscribers: xsync.NewMap[uint64, *subscriber](),
	}
	m.current.Store(int32(types.PhaseWaitingSurface))

	return m
}

// Current returns the current phase. Safe for concurrent use.
func (m *Machine) Current() types.Phase {
	return types.Phase(m.current.Load())
}

// CanTransition reports whether from → to is a valid transition.
func CanTransition(from, to types.Phase) bool {
	switch from {
	case types.PhaseWaitingSurface:
		return to == types.PhaseIdle || to == types.PhaseShutdown
	case types.PhaseIdle:
		return to == types.PhaseTransitioning || to == types.PhaseShutdown
	case types.PhaseTransitioning:
		return to == types.PhaseIdle || to == types.PhaseShutdown
	default:
		return false
	}
}

// Transition moves the machine to phase to and notifies subscribers.
//
// Transitioning to the current phase is a no-op and returns false.
//
// Parameters:
//   - to: Target phase
//
// Returns:
//   - types.Phase: The phase before the call
//   - bool: true if the phase changed
func (m *Machine) Transition(to types.Phase) (types.Phase, bool) {
	for {
		from := types.Phase(m.current.Load())
		if from == to {
			return from, false
		}
		if !CanTransition(from, to) {
			m.logger.Warn("rejected invalid phase transition",
				"from", from.String(),
				"to", to.String())

			return from, false
		}
		if m.current.CompareAndSwap(int32(from), int32(to)) {
			m.logger.Debug("phase changed", "from", from.String(), "to", to.String())
			m.broadcast(to)

			return from, true
		}
	}
}

// Subscribe returns a channel that receives phase changes.
//
// The channel is buffered (size 4) and receives the current phase
// immediately. Slow subscribers miss intermediate phases rather than
// blocking the engine. After Close the channel carries the current phase
// and is already closed.
//
// Returns:
//   - <-chan types.Phase: Channel of phase updates
//   - func(): Unsubscribe function, closes the channel
func (m *Machine) Subscribe() (<-chan types.Phase, func()) {
	id := m.nextSubscriberID.Add(1)

	sub := &subscriber{ch: make(chan types.Phase, 4)}
	m.subscribers.Store(id, sub)
	sub.trySend(m.Current())

	// checked after Store so a concurrent Close either sees sub or is seen here
	if m.closed.Load() {
		m.removeSubscriber(id)
	}

	return sub.ch, func() { m.removeSubscriber(id) }
}

// Close closes every subscriber channel. Later subscriptions get a closed
// channel.
func (m *Machine) Close() {
	m.closed.Store(true)
	m.subscribers.Range(func(id uint64, _ *subscriber) bool {
		m.removeSubscriber(id)
		return true
	})
}

func (m *Machine) broadcast(p types.Phase) {
	m.subscribers.Range(func(_ uint64, sub *subscriber) bool {
		sub.trySend(p)
		return true
	})
}

func (m *Machine) removeSubscriber(id uint64) {
	if sub, ok := m.subscribers.LoadAndDelete(id); ok {
		sub.close()
	}
}
