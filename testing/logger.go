package testing

import (
	"testing"

	"github.com/arloliu/pinmark/internal/logger"
)

// TestLogger writes to the test log and records every entry for assertions.
type TestLogger = logger.TestLogger

// NewTestLogger creates a logger that writes to t and keeps its entries.
//
// Example:
//
//	log := pinmarktest.NewTestLogger(t)
//	eng, _ := pinmark.NewEngine(&cfg, surf, pinmark.WithLogger(log))
//	eng.Update(points)
//	require.False(t, log.Has("WARN", "skipping malformed point"))
func NewTestLogger(t *testing.T) *TestLogger {
	return logger.NewTest(t)
}
