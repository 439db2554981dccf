package pinmark

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/arloliu/pinmark/internal/logger"
	"github.com/arloliu/pinmark/internal/logging"
	"github.com/arloliu/pinmark/internal/metrics"
)

// NewSlogLogger wraps a *slog.Logger as a Logger.
//
// Parameters:
//   - l: slog logger; slog.Default() is used when nil
//
// Returns:
//   - Logger: Logger for WithLogger
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		return logging.NewSlogDefault()
	}

	return logging.NewSlog(l)
}

// NewZerologLogger wraps a zerolog.Logger as a Logger.
//
// Example:
//
//	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	eng, err := pinmark.NewEngine(&cfg, surface, pinmark.WithLogger(pinmark.NewZerologLogger(zl)))
func NewZerologLogger(l zerolog.Logger) Logger {
	return logging.NewZerolog(l)
}

// NewConsoleLogger returns a human-readable zerolog console logger.
//
// Parameters:
//   - w: Destination writer
//   - level: "trace", "debug", "info", "warn" or "error"
func NewConsoleLogger(w io.Writer, level string) Logger {
	return logging.NewZerologConsole(w, level, false)
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger {
	return logger.NewNop()
}

// NewPrometheusMetrics returns a MetricsCollector exporting Prometheus metrics.
//
// Parameters:
//   - reg: Registerer; prometheus.DefaultRegisterer when nil
//   - namespace: Metric namespace; "pinmark" when empty
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}
