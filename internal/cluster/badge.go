package cluster

import (
	"fmt"
	"strconv"

	"github.com/arloliu/pinmark/types"
)

// BadgeSize is the pixel geometry of one badge bucket.
type BadgeSize struct {
	// DiameterPx is the badge width and height.
	DiameterPx int `yaml:"diameterPx"`

	// FontPx is the label font size.
	FontPx int `yaml:"fontPx"`
}

// BadgeConfig maps member counts to badge buckets and sizes.
//
// A count below SmallBelow is small, below MediumBelow medium, below
// LargeBelow large, and anything else extra-large.
type BadgeConfig struct {
	SmallBelow  int `yaml:"smallBelow"`
	MediumBelow int `yaml:"mediumBelow"`
	LargeBelow  int `yaml:"largeBelow"`

	Small      BadgeSize `yaml:"small"`
	Medium     BadgeSize `yaml:"medium"`
	Large      BadgeSize `yaml:"large"`
	ExtraLarge BadgeSize `yaml:"extraLarge"`
}

// DefaultBadgeConfig returns the standard 10/30/100 buckets.
func DefaultBadgeConfig() BadgeConfig {
	return BadgeConfig{
		SmallBelow:  10,
		MediumBelow: 30,
		LargeBelow:  100,
		Small:       BadgeSize{DiameterPx: 30, FontPx: 12},
		Medium:      BadgeSize{DiameterPx: 40, FontPx: 14},
		Large:       BadgeSize{DiameterPx: 50, FontPx: 16},
		ExtraLarge:  BadgeSize{DiameterPx: 60, FontPx: 18},
	}
}

// SetDefaults fills zero fields from DefaultBadgeConfig.
func (c *BadgeConfig) SetDefaults() {
	def := DefaultBadgeConfig()
	if c.SmallBelow == 0 {
		c.SmallBelow = def.SmallBelow
	}
	if c.MediumBelow == 0 {
		c.MediumBelow = def.MediumBelow
	}
	if c.LargeBelow == 0 {
		c.LargeBelow = def.LargeBelow
	}
	for _, pair := range []struct{ dst, src *BadgeSize }{
		{&c.Small, &def.Small},
		{&c.Medium, &def.Medium},
		{&c.Large, &def.Large},
		{&c.ExtraLarge, &def.ExtraLarge},
	} {
		if pair.dst.DiameterPx == 0 {
			pair.dst.DiameterPx = pair.src.DiameterPx
		}
		if pair.dst.FontPx == 0 {
			pair.dst.FontPx = pair.src.FontPx
		}
	}
}

// Validate checks that thresholds are strictly increasing and sizes positive.
func (c BadgeConfig) Validate() error {
	if c.SmallBelow < 2 {
		return fmt.Errorf("badge smallBelow must be at least 2, got %d", c.SmallBelow)
	}
	if c.MediumBelow <= c.SmallBelow {
		return fmt.Errorf("badge mediumBelow (%d) must be greater than smallBelow (%d)", c.MediumBelow, c.SmallBelow)
	}
	if c.LargeBelow <= c.MediumBelow {
		return fmt.Errorf("badge largeBelow (%d) must be greater than mediumBelow (%d)", c.LargeBelow, c.MediumBelow)
	}
	for _, s := range []struct {
		name string
		size BadgeSize
	}{
		{"small", c.Small}, {"medium", c.Medium}, {"large", c.Large}, {"extraLarge", c.ExtraLarge},
	} {
		if s.size.DiameterPx <= 0 || s.size.FontPx <= 0 {
			return fmt.Errorf("badge %s size must be positive, got %dpx/%dpx", s.name, s.size.DiameterPx, s.size.FontPx)
		}
	}

	return nil
}

// Bucket classifies a member count.
func (c BadgeConfig) Bucket(count int) types.BadgeBucket {
	switch {
	case count < c.SmallBelow:
		return types.BadgeSmall
	case count < c.MediumBelow:
		return types.BadgeMedium
	case count < c.LargeBelow:
		return types.BadgeLarge
	default:
		return types.BadgeExtraLarge
	}
}

// Size returns the geometry of bucket b.
func (c BadgeConfig) Size(b types.BadgeBucket) BadgeSize {
	switch b {
	case types.BadgeSmall:
		return c.Small
	case types.BadgeMedium:
		return c.Medium
	case types.BadgeLarge:
		return c.Large
	default:
		return c.ExtraLarge
	}
}

const (
	colorLight = "#ffffff"
	colorDark  = "#111111"
)

// Renderer draws cluster badges for one theme. It implements types.ClusterRenderer.
type Renderer struct {
	theme  types.Theme
	badges BadgeConfig
}

var _ types.ClusterRenderer = (*Renderer)(nil)

// NewRenderer creates a renderer bound to theme.
func NewRenderer(theme types.Theme, badges BadgeConfig) *Renderer {
	return &Renderer{theme: theme, badges: badges}
}

// Theme returns the theme the renderer was created for.
func (r *Renderer) Theme() types.Theme {
	return r.theme
}

// Render produces the badge for a cluster of info.Count members.
func (r *Renderer) Render(info types.ClusterInfo) types.Badge {
	bucket := r.badges.Bucket(info.Count)
	size := r.badges.Size(bucket)

	b := types.Badge{
		Bucket:     bucket,
		SizePx:     size.DiameterPx,
		FontSizePx: size.FontPx,
		Label:      strconv.Itoa(info.Count),
		Fill:       colorLight,
		Stroke:     colorDark,
		TextColor:  colorDark,
		Theme:      r.theme,
	}
	if r.theme == types.ThemeDark {
		b.Fill, b.Stroke, b.TextColor = colorDark, colorLight, colorLight
	}

	return b
}
