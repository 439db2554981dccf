package pinmark

import (
	"fmt"
	"time"

	"github.com/arloliu/pinmark/internal/cluster"
)

// AnimationConfig controls marker opacity transitions.
type AnimationConfig struct {
	// FadeInDuration is the length of the fade-in of markers added by a surface switch.
	//
	// Default: 400ms
	FadeInDuration time.Duration `yaml:"fadeInDuration"`

	// FadeInDelay postpones the fade-in so the surface can settle its layout first.
	// Zero is replaced by the default in SetDefaults; use 1ns for a fade-in that
	// starts on the next tick.
	//
	// Default: 50ms
	FadeInDelay time.Duration `yaml:"fadeInDelay"`

	// FadeOutDuration is the length of the fade-out of markers removed by a surface switch.
	// Removed markers are detached only after every fade-out of their batch finished.
	//
	// Default: 300ms
	FadeOutDuration time.Duration `yaml:"fadeOutDuration"`

	// TickInterval is the period of the background tick loop started by Engine.Start.
	//
	// Default: 16ms (about 60 frames per second)
	TickInterval time.Duration `yaml:"tickInterval"`
}

// ClusterConfig controls the clustering layer.
type ClusterConfig struct {
	// FitPaddingPx is the padding on every side when fitting a clicked cluster.
	// Zero is replaced by the default in SetDefaults, so the smallest padding
	// that can be configured is 1.
	//
	// Default: 50
	FitPaddingPx int `yaml:"fitPaddingPx"`

	// Badges maps member counts to badge sizes.
	//
	// Default: <10 small (30px/12px), <30 medium (40/14), <100 large (50/16), else extra-large (60/18)
	Badges BadgeConfig `yaml:"badges"`
}

// Config is the configuration for the Engine.
//
// Zero-valued fields are replaced by defaults in NewEngine. Load from YAML
// with gopkg.in/yaml.v3; durations accept Go duration strings such as "300ms".
type Config struct {
	Animation AnimationConfig `yaml:"animation"`
	Cluster   ClusterConfig   `yaml:"cluster"`

	// InitialTheme is the theme markers are first rendered with ("normal" or "dark").
	//
	// Default: normal
	InitialTheme Theme `yaml:"initialTheme"`
}

// DefaultConfig returns a Config with the standard timings and badge buckets.
//
// Returns:
//   - Config: Configuration with every field populated
//
// Example:
//
//	cfg := pinmark.DefaultConfig()
//	cfg.Animation.FadeOutDuration = 500 * time.Millisecond
//	eng, err := pinmark.NewEngine(&cfg, surface)
func DefaultConfig() Config {
	return Config{
		Animation: AnimationConfig{
			FadeInDuration:  400 * time.Millisecond,
			FadeInDelay:     50 * time.Millisecond,
			FadeOutDuration: 300 * time.Millisecond,
			TickInterval:    16 * time.Millisecond,
		},
		Cluster: ClusterConfig{
			FitPaddingPx: cluster.DefaultFitPaddingPx,
			Badges:       cluster.DefaultBadgeConfig(),
		},
		InitialTheme: ThemeNormal,
	}
}

// SetDefaults fills zero-valued fields of cfg with DefaultConfig values.
// A zero value always means "use the default", so fields such as FadeInDelay
// and FitPaddingPx cannot be set to zero through a Config.
//
// Parameters:
//   - cfg: Configuration to update in place
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Animation.FadeInDuration == 0 {
		cfg.Animation.FadeInDuration = defaults.Animation.FadeInDuration
	}
	if cfg.Animation.FadeInDelay == 0 {
		cfg.Animation.FadeInDelay = defaults.Animation.FadeInDelay
	}
	if cfg.Animation.FadeOutDuration == 0 {
		cfg.Animation.FadeOutDuration = defaults.Animation.FadeOutDuration
	}
	if cfg.Animation.TickInterval == 0 {
		cfg.Animation.TickInterval = defaults.Animation.TickInterval
	}
	if cfg.Cluster.FitPaddingPx == 0 {
		cfg.Cluster.FitPaddingPx = defaults.Cluster.FitPaddingPx
	}
	cfg.Cluster.Badges.SetDefaults()
}

// Validate checks the configuration for values the engine cannot work with.
//
// Returns:
//   - error: Description of the first invalid field, nil if valid
func (cfg *Config) Validate() error {
	a := cfg.Animation
	if a.FadeInDuration < 0 || a.FadeInDelay < 0 || a.FadeOutDuration < 0 {
		return fmt.Errorf("animation durations must be non-negative (fadeIn=%v fadeInDelay=%v fadeOut=%v)",
			a.FadeInDuration, a.FadeInDelay, a.FadeOutDuration)
	}
	if a.TickInterval <= 0 {
		return fmt.Errorf("TickInterval must be > 0, got %v", a.TickInterval)
	}
	if cfg.Cluster.FitPaddingPx < 0 {
		return fmt.Errorf("FitPaddingPx must be >= 0, got %d", cfg.Cluster.FitPaddingPx)
	}
	if err := cfg.Cluster.Badges.Validate(); err != nil {
		return err
	}
	if cfg.InitialTheme != ThemeNormal && cfg.InitialTheme != ThemeDark {
		return fmt.Errorf("InitialTheme %d: %w", cfg.InitialTheme, ErrUnknownTheme)
	}

	return nil
}

// ValidateWithWarnings logs settings that work but are unlikely to be intended.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.Animation.TickInterval > 50*time.Millisecond {
		logger.Warn("TickInterval above 50ms makes fades visibly choppy",
			"tickInterval", cfg.Animation.TickInterval)
	}
	if cfg.Animation.FadeOutDuration > 2*time.Second {
		logger.Warn("long FadeOutDuration delays every surface switch removal",
			"fadeOutDuration", cfg.Animation.FadeOutDuration)
	}
}
