package cluster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pinmark/types"
)

func TestRenderer_BucketBoundaries(t *testing.T) {
	r := NewRenderer(types.ThemeNormal, DefaultBadgeConfig())

	tests := []struct {
		count  int
		bucket types.BadgeBucket
		size   int
		font   int
	}{
		{2, types.BadgeSmall, 30, 12},
		{9, types.BadgeSmall, 30, 12},
		{10, types.BadgeMedium, 40, 14},
		{29, types.BadgeMedium, 40, 14},
		{30, types.BadgeLarge, 50, 16},
		{99, types.BadgeLarge, 50, 16},
		{100, types.BadgeExtraLarge, 60, 18},
		{5000, types.BadgeExtraLarge, 60, 18},
	}

	for _, tt := range tests {
		t.Run(tt.bucket.String(), func(t *testing.T) {
			b := r.Render(types.ClusterInfo{Count: tt.count})
			require.Equal(t, tt.bucket, b.Bucket, "count %d", tt.count)
			require.Equal(t, tt.size, b.SizePx)
			require.Equal(t, tt.font, b.FontSizePx)
		})
	}
}

func TestRenderer_LabelIsExactCount(t *testing.T) {
	r := NewRenderer(types.ThemeNormal, DefaultBadgeConfig())

	require.Equal(t, "1234", r.Render(types.ClusterInfo{Count: 1234}).Label)
	require.Equal(t, "7", r.Render(types.ClusterInfo{Count: 7}).Label)
}

func TestRenderer_ThemeColors(t *testing.T) {
	normal := NewRenderer(types.ThemeNormal, DefaultBadgeConfig()).Render(types.ClusterInfo{Count: 3})
	dark := NewRenderer(types.ThemeDark, DefaultBadgeConfig()).Render(types.ClusterInfo{Count: 3})

	require.Equal(t, "#ffffff", normal.Fill)
	require.Equal(t, "#111111", normal.Stroke)
	require.Equal(t, "#111111", normal.TextColor)
	require.Equal(t, types.ThemeNormal, normal.Theme)

	require.Equal(t, normal.Fill, dark.Stroke)
	require.Equal(t, normal.Stroke, dark.Fill)
	require.Equal(t, normal.TextColor, dark.Fill)
	require.Equal(t, types.ThemeDark, dark.Theme)
}

func TestBadge_SVG(t *testing.T) {
	b := NewRenderer(types.ThemeDark, DefaultBadgeConfig()).Render(types.ClusterInfo{Count: 42})
	svg := b.SVG()

	require.True(t, strings.HasPrefix(svg, "<svg"))
	require.Contains(t, svg, `width="50"`)
	require.Contains(t, svg, `font-size="16"`)
	require.Contains(t, svg, `text-anchor="middle"`)
	require.Contains(t, svg, ">42</text>")
	require.Contains(t, svg, `fill="#111111"`)
}

func TestBadgeConfig_Custom(t *testing.T) {
	cfg := BadgeConfig{SmallBelow: 5, MediumBelow: 20, LargeBelow: 50}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	require.Equal(t, types.BadgeSmall, cfg.Bucket(4))
	require.Equal(t, types.BadgeMedium, cfg.Bucket(5))
	require.Equal(t, types.BadgeLarge, cfg.Bucket(20))
	require.Equal(t, types.BadgeExtraLarge, cfg.Bucket(50))
	require.Equal(t, 30, cfg.Small.DiameterPx)
}

func TestBadgeConfig_Validate(t *testing.T) {
	tests := map[string]func(*BadgeConfig){
		"small too low":     func(c *BadgeConfig) { c.SmallBelow = 1 },
		"medium not above":  func(c *BadgeConfig) { c.MediumBelow = c.SmallBelow },
		"large not above":   func(c *BadgeConfig) { c.LargeBelow = 20 },
		"non-positive size": func(c *BadgeConfig) { c.Large.DiameterPx = -1 },
		"non-positive font": func(c *BadgeConfig) { c.ExtraLarge.FontPx = -4 },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultBadgeConfig()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}

	require.NoError(t, DefaultBadgeConfig().Validate())
}
