package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/arloliu/pinmark"
)

// Configuration keys. Nested keys use dots; environment variables use the
// PINMARK_ prefix with dots replaced by underscores (PINMARK_ANIMATION_TICKINTERVAL).
const (
	keyLogLevel        = "logLevel"
	keyFadeIn          = "animation.fadeInDuration"
	keyFadeInDelay     = "animation.fadeInDelay"
	keyFadeOut         = "animation.fadeOutDuration"
	keyTickInterval    = "animation.tickInterval"
	keyFitPadding      = "cluster.fitPaddingPx"
	keyBadgeSmall      = "cluster.badges.smallBelow"
	keyBadgeMedium     = "cluster.badges.mediumBelow"
	keyBadgeLarge      = "cluster.badges.largeBelow"
	keyInitialTheme    = "initialTheme"
	badgeSizeKeyPrefix = "cluster.badges."
)

var badgeSizeNames = []string{"small", "medium", "large", "extraLarge"}

// newViper returns a viper instance with every engine default registered.
func newViper() *viper.Viper {
	v := viper.New()
	d := pinmark.DefaultConfig()

	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyFadeIn, d.Animation.FadeInDuration)
	v.SetDefault(keyFadeInDelay, d.Animation.FadeInDelay)
	v.SetDefault(keyFadeOut, d.Animation.FadeOutDuration)
	v.SetDefault(keyTickInterval, d.Animation.TickInterval)
	v.SetDefault(keyFitPadding, d.Cluster.FitPaddingPx)
	v.SetDefault(keyBadgeSmall, d.Cluster.Badges.SmallBelow)
	v.SetDefault(keyBadgeMedium, d.Cluster.Badges.MediumBelow)
	v.SetDefault(keyBadgeLarge, d.Cluster.Badges.LargeBelow)
	for i, size := range badgeSizesOf(&d.Cluster.Badges) {
		v.SetDefault(badgeSizeKeyPrefix+badgeSizeNames[i]+".diameterPx", size.DiameterPx)
		v.SetDefault(badgeSizeKeyPrefix+badgeSizeNames[i]+".fontPx", size.FontPx)
	}
	v.SetDefault(keyInitialTheme, d.InitialTheme.String())

	v.SetEnvPrefix("PINMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// loadConfig reads path (if set) into v and builds a validated engine Config.
func loadConfig(v *viper.Viper, path string) (pinmark.Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return pinmark.Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	theme, err := pinmark.ParseTheme(v.GetString(keyInitialTheme))
	if err != nil {
		return pinmark.Config{}, err
	}

	cfg := pinmark.Config{
		Animation: pinmark.AnimationConfig{
			FadeInDuration:  v.GetDuration(keyFadeIn),
			FadeInDelay:     v.GetDuration(keyFadeInDelay),
			FadeOutDuration: v.GetDuration(keyFadeOut),
			TickInterval:    v.GetDuration(keyTickInterval),
		},
		Cluster: pinmark.ClusterConfig{
			FitPaddingPx: v.GetInt(keyFitPadding),
			Badges: pinmark.BadgeConfig{
				SmallBelow:  v.GetInt(keyBadgeSmall),
				MediumBelow: v.GetInt(keyBadgeMedium),
				LargeBelow:  v.GetInt(keyBadgeLarge),
			},
		},
		InitialTheme: theme,
	}
	for i, size := range badgeSizesOf(&cfg.Cluster.Badges) {
		size.DiameterPx = v.GetInt(badgeSizeKeyPrefix + badgeSizeNames[i] + ".diameterPx")
		size.FontPx = v.GetInt(badgeSizeKeyPrefix + badgeSizeNames[i] + ".fontPx")
	}

	pinmark.SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return pinmark.Config{}, fmt.Errorf("%w: %w", pinmark.ErrInvalidConfig, err)
	}

	return cfg, nil
}

func badgeSizesOf(b *pinmark.BadgeConfig) []*pinmark.BadgeSize {
	return []*pinmark.BadgeSize{&b.Small, &b.Medium, &b.Large, &b.ExtraLarge}
}
