package logger

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/arloliu/pinmark/types"
)

// TestLogger implements types.Logger using testing.T for output and keeps
// every entry so tests can assert on what the engine reported.
type TestLogger struct {
	t *testing.T

	mu      sync.Mutex
	entries []Entry
}

// Entry is one recorded log call.
type Entry struct {
	Level  string
	Msg    string
	Fields string
}

// Compile-time assertion that TestLogger implements Logger.
var _ types.Logger = (*TestLogger)(nil)

// NewTest creates a new test logger that writes to testing.T.
//
// Parameters:
//   - t: The testing.T instance to write logs to
//
// Returns:
//   - *TestLogger: A new logger instance that uses t.Logf()
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    log := logger.NewTest(t)
//	    eng, _ := pinmark.NewEngine(&cfg, surface, pinmark.WithLogger(log))
//	    ...
//	    require.True(t, log.Has("WARN", "skipping malformed point"))
//	}
func NewTest(t *testing.T) *TestLogger {
	return &TestLogger{t: t}
}

// Debug logs a debug-level message with optional key-value pairs.
func (l *TestLogger) Debug(msg string, keysAndValues ...any) {
	l.log("DEBUG", msg, keysAndValues)
}

// Info logs an info-level message with optional key-value pairs.
func (l *TestLogger) Info(msg string, keysAndValues ...any) {
	l.log("INFO", msg, keysAndValues)
}

// Warn logs a warning-level message with optional key-value pairs.
func (l *TestLogger) Warn(msg string, keysAndValues ...any) {
	l.log("WARN", msg, keysAndValues)
}

// Error logs an error-level message with optional key-value pairs.
func (l *TestLogger) Error(msg string, keysAndValues ...any) {
	l.log("ERROR", msg, keysAndValues)
}

// Fatal logs a fatal-level message and fails the test.
func (l *TestLogger) Fatal(msg string, keysAndValues ...any) {
	l.t.Fatalf("FATAL: %s %s", msg, formatKeyValues(keysAndValues))
}

// Entries returns a copy of the recorded entries.
func (l *TestLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)

	return out
}

// Has reports whether an entry with the given level and a message containing
// substr was recorded.
func (l *TestLogger) Has(level, substr string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && strings.Contains(e.Msg, substr) {
			return true
		}
	}

	return false
}

// Count returns the number of entries at level.
func (l *TestLogger) Count(level string) int {
	n := 0
	for _, e := range l.Entries() {
		if e.Level == level {
			n++
		}
	}

	return n
}

func (l *TestLogger) log(level, msg string, keysAndValues []any) {
	fields := formatKeyValues(keysAndValues)

	l.mu.Lock()
	l.entries = append(l.entries, Entry{Level: level, Msg: msg, Fields: fields})
	l.mu.Unlock()

	l.t.Logf("%s: %s %s", level, msg, fields)
}

// formatKeyValues formats key-value pairs for logging.
func formatKeyValues(keysAndValues []any) string {
	if len(keysAndValues) == 0 {
		return ""
	}

	var b strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&b, "%v=%v ", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&b, "%v=<missing> ", keysAndValues[i])
		}
	}

	return b.String()
}
