package pinmark

import (
	"github.com/arloliu/pinmark/internal/cluster"
	"github.com/arloliu/pinmark/types"
)

// Re-export types from the types package.
//
// Internal packages depend on `types` rather than on the root package, which
// keeps the import graph acyclic while users can still write pinmark.Point,
// pinmark.Surface and so on.
type (
	Point        = types.Point
	LatLng       = types.LatLng
	Theme        = types.Theme
	Icon         = types.Icon
	Mode         = types.Mode
	Phase        = types.Phase
	MarkerRef    = types.MarkerRef
	MarkerHandle = types.MarkerHandle
	MarkerSpec   = types.MarkerSpec
	Bounds       = types.Bounds
	Badge        = types.Badge
	BadgeBucket  = types.BadgeBucket
	ClusterInfo  = types.ClusterInfo
	ClusterGroup = types.ClusterGroup

	ClusterLayerOptions = types.ClusterLayerOptions

	// BadgeConfig maps cluster member counts to badge buckets and sizes.
	BadgeConfig = cluster.BadgeConfig

	// BadgeSize is the pixel geometry of one badge bucket.
	BadgeSize = cluster.BadgeSize
)

// Re-export interfaces from the types package for convenience.
type (
	Surface          = types.Surface
	ClusterLayer     = types.ClusterLayer
	ClusterRenderer  = types.ClusterRenderer
	Clock            = types.Clock
	PointSource      = types.PointSource
	PointWatcher     = types.PointWatcher
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export constants from the types package.
const (
	ThemeNormal = types.ThemeNormal
	ThemeDark   = types.ThemeDark

	ModeInstant  = types.ModeInstant
	ModeAnimated = types.ModeAnimated

	PhaseWaitingSurface = types.PhaseWaitingSurface
	PhaseIdle           = types.PhaseIdle
	PhaseTransitioning  = types.PhaseTransitioning
	PhaseShutdown       = types.PhaseShutdown

	BadgeSmall      = types.BadgeSmall
	BadgeMedium     = types.BadgeMedium
	BadgeLarge      = types.BadgeLarge
	BadgeExtraLarge = types.BadgeExtraLarge
)

// At builds a Point with a position.
func At(id string, lat, lng float64, label string) Point {
	return types.At(id, lat, lng, label)
}

// ParseTheme converts "normal" or "dark" into a Theme.
func ParseTheme(s string) (Theme, error) {
	return types.ParseTheme(s)
}
