package types

import "fmt"

// Theme selects the visual variant used for marker icons and cluster badges.
type Theme int

const (
	// ThemeNormal is the light map style.
	ThemeNormal Theme = iota

	// ThemeDark is the dark map style; badge colors are inverted.
	ThemeDark
)

// String returns the string representation of the theme.
func (t Theme) String() string {
	switch t {
	case ThemeNormal:
		return "normal"
	case ThemeDark:
		return "dark"
	default:
		return "unknown"
	}
}

// ParseTheme converts "normal" or "dark" into a Theme.
//
// Parameters:
//   - s: Theme name (empty string maps to ThemeNormal)
//
// Returns:
//   - Theme: Parsed theme
//   - error: ErrUnknownTheme for any other value
func ParseTheme(s string) (Theme, error) {
	switch s {
	case "", "normal", "light":
		return ThemeNormal, nil
	case "dark":
		return ThemeDark, nil
	default:
		return ThemeNormal, fmt.Errorf("%w: %q", ErrUnknownTheme, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Theme) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so themes can be used in YAML and JSON.
func (t *Theme) UnmarshalText(text []byte) error {
	parsed, err := ParseTheme(string(text))
	if err != nil {
		return err
	}
	*t = parsed

	return nil
}

// Icon identifies the marker icon variant for a theme.
type Icon struct {
	Variant string
	Theme   Theme
}

// IconFor returns the pin icon used for markers rendered under the given theme.
func IconFor(theme Theme) Icon {
	return Icon{Variant: "pin-" + theme.String(), Theme: theme}
}
