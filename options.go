package pinmark

// Option configures an Engine with optional dependencies.
type Option func(*engineOptions)

// engineOptions holds optional Engine configuration.
type engineOptions struct {
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger
	clock   Clock
	theme   *Theme
}

// WithHooks sets event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions; nil callbacks are ignored
//
// Returns:
//   - Option: Functional option for NewEngine
//
// Example:
//
//	hooks := &pinmark.Hooks{
//	    OnMarkerActivated: func(ctx context.Context, p pinmark.Point) error {
//	        return showDetails(ctx, p.ID)
//	    },
//	}
//	eng, err := pinmark.NewEngine(&cfg, surface, pinmark.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *engineOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewEngine
//
// Example:
//
//	eng, err := pinmark.NewEngine(&cfg, surface,
//	    pinmark.WithMetrics(pinmark.NewPrometheusMetrics(prometheus.DefaultRegisterer, "")))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *engineOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewEngine
//
// Example:
//
//	logger := zap.NewExample().Sugar()
//	eng, err := pinmark.NewEngine(&cfg, surface, pinmark.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithClock sets the animation clock.
//
// The clock stamps animation start times and is read by the background tick
// loop. Tests inject a fake clock and drive Engine.Tick directly.
//
// Parameters:
//   - clock: Clock implementation (default: system clock)
//
// Returns:
//   - Option: Functional option for NewEngine
func WithClock(clock Clock) Option {
	return func(o *engineOptions) {
		o.clock = clock
	}
}

// WithTheme overrides Config.InitialTheme.
func WithTheme(theme Theme) Option {
	return func(o *engineOptions) {
		o.theme = &theme
	}
}
