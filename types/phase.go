package types

// Phase represents the engine lifecycle phase.
//
// Phases follow this progression:
//
//	PhaseWaitingSurface → PhaseIdle ⇄ PhaseTransitioning
//
// PhaseShutdown is terminal.
type Phase int

const (
	// PhaseWaitingSurface indicates the rendering surface has not signalled readiness yet.
	// All rendering operations are no-ops in this phase.
	PhaseWaitingSurface Phase = iota

	// PhaseIdle indicates the surface is ready and no animation is in flight.
	PhaseIdle

	// PhaseTransitioning indicates at least one opacity animation is in flight.
	PhaseTransitioning

	// PhaseShutdown indicates the engine has been stopped.
	PhaseShutdown
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseWaitingSurface:
		return "WaitingSurface"
	case PhaseIdle:
		return "Idle"
	case PhaseTransitioning:
		return "Transitioning"
	case PhaseShutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}
