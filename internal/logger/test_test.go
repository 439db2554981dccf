package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTestLogger_Records(t *testing.T) {
	log := NewTest(t)

	log.Info("ready", "markers", 3)
	log.Warn("skipping malformed point", "reason", "empty_id")
	log.Warn("surface call failed")

	require.Len(t, log.Entries(), 3)
	require.True(t, log.Has("WARN", "malformed"))
	require.False(t, log.Has("ERROR", "malformed"))
	require.Equal(t, 2, log.Count("WARN"))
	require.Equal(t, "markers=3 ", log.Entries()[0].Fields)
}

func TestFormatKeyValues(t *testing.T) {
	require.Empty(t, formatKeyValues(nil))
	require.Equal(t, "a=1 b=<missing> ", formatKeyValues([]any{"a", 1, "b"}))
}
