package types

// Mode selects how a diff is committed to the rendering surface.
type Mode int

const (
	// ModeInstant applies additions and removals without animation.
	ModeInstant Mode = iota

	// ModeAnimated cross-fades the change (a "surface switch").
	ModeAnimated
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeInstant:
		return "instant"
	case ModeAnimated:
		return "animated"
	default:
		return "unknown"
	}
}
