package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/arloliu/pinmark/types"
)

// ZerologLogger implements types.Logger on top of zerolog.
type ZerologLogger struct {
	logger zerolog.Logger
}

// Compile-time assertion that ZerologLogger implements Logger.
var _ types.Logger = (*ZerologLogger)(nil)

// NewZerolog wraps an existing zerolog.Logger.
//
// Parameters:
//   - logger: The zerolog.Logger to write to
//
// Returns:
//   - *ZerologLogger: Logger forwarding key-value pairs as zerolog fields
func NewZerolog(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger}
}

// NewZerologConsole creates a human-readable zerolog logger writing to w.
//
// Parameters:
//   - w: Destination writer
//   - level: Level name ("debug", "info", "warn", "error", "trace"); unknown names map to info
//   - noColor: Disable ANSI colors, for files and pipes
//
// Returns:
//   - *ZerologLogger: Console logger with RFC3339 UTC timestamps
func NewZerologConsole(w io.Writer, level string, noColor bool) *ZerologLogger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}
	logger := zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()

	return &ZerologLogger{logger: logger}
}

// ParseLevel maps a case-insensitive level name to a zerolog level.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(name) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug logs a debug-level message with optional key-value pairs.
func (l *ZerologLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(toFields(keysAndValues)).Msg(msg)
}

// Info logs an info-level message with optional key-value pairs.
func (l *ZerologLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info().Fields(toFields(keysAndValues)).Msg(msg)
}

// Warn logs a warning-level message with optional key-value pairs.
func (l *ZerologLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn().Fields(toFields(keysAndValues)).Msg(msg)
}

// Error logs an error-level message with optional key-value pairs.
func (l *ZerologLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error().Fields(toFields(keysAndValues)).Msg(msg)
}

// Fatal logs a fatal-level message and exits the process.
func (l *ZerologLogger) Fatal(msg string, keysAndValues ...any) {
	l.logger.Fatal().Fields(toFields(keysAndValues)).Msg(msg)
}

// toFields converts key-value pairs to a field map. Non-string keys and a
// trailing key without value are dropped.
func toFields(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}

	return fields
}
