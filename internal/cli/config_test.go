package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/pinmark"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newViper(), "")
	require.NoError(t, err)

	require.Equal(t, pinmark.DefaultConfig(), cfg)
}

func TestLoadConfig_File(t *testing.T) {
	v := newViper()
	cfg, err := loadConfig(v, filepath.Join("testdata", "engine.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "warn", v.GetString(keyLogLevel))
	assert.Equal(t, 500*time.Millisecond, cfg.Animation.FadeOutDuration)
	assert.Equal(t, 400*time.Millisecond, cfg.Animation.FadeInDuration)
	assert.Equal(t, 10*time.Millisecond, cfg.Animation.TickInterval)
	assert.Equal(t, 32, cfg.Cluster.FitPaddingPx)
	assert.Equal(t, 150, cfg.Cluster.Badges.LargeBelow)
	assert.Equal(t, 70, cfg.Cluster.Badges.ExtraLarge.DiameterPx)
	assert.Equal(t, 18, cfg.Cluster.Badges.ExtraLarge.FontPx)
	assert.Equal(t, pinmark.ThemeDark, cfg.InitialTheme)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PINMARK_CLUSTER_FITPADDINGPX", "20")
	t.Setenv("PINMARK_ANIMATION_FADEINDELAY", "5ms")

	cfg, err := loadConfig(newViper(), "")
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Cluster.FitPaddingPx)
	assert.Equal(t, 5*time.Millisecond, cfg.Animation.FadeInDelay)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(newViper(), filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("unknown theme", func(t *testing.T) {
		path := filepath.Join(dir, "theme.yaml")
		require.NoError(t, os.WriteFile(path, []byte("initialTheme: sepia\n"), 0o644))

		_, err := loadConfig(newViper(), path)
		require.ErrorIs(t, err, pinmark.ErrUnknownTheme)
	})

	t.Run("unordered badges", func(t *testing.T) {
		path := filepath.Join(dir, "badges.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cluster:\n  badges:\n    largeBelow: 5\n"), 0o644))

		_, err := loadConfig(newViper(), path)
		require.ErrorIs(t, err, pinmark.ErrInvalidConfig)
	})
}
