package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger_Fields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewZerolog(zerolog.New(buf).Level(zerolog.DebugLevel))

	logger.Info("marker created", "id", "m-1", "opacity", 0.5)

	output := buf.String()
	assert.Contains(t, output, `"message":"marker created"`)
	assert.Contains(t, output, `"id":"m-1"`)
	assert.Contains(t, output, `"opacity":0.5`)
	assert.Contains(t, output, `"level":"info"`)
}

func TestZerologLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewZerolog(zerolog.New(buf).Level(zerolog.WarnLevel))

	logger.Debug("debug message")
	logger.Info("info message")
	require.Empty(t, buf.String())

	logger.Warn("warn message")
	logger.Error("error message")
	assert.Contains(t, buf.String(), "warn message")
	assert.Contains(t, buf.String(), "error message")
}

func TestZerologConsole(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewZerologConsole(buf, "debug", true)

	logger.Debug("tick", "active", 3)

	assert.Contains(t, buf.String(), "tick")
	assert.Contains(t, buf.String(), "active=3")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"Error":   zerolog.ErrorLevel,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, want, ParseLevel(name))
		})
	}
}

func TestToFields(t *testing.T) {
	fields := toFields([]any{"a", 1, 2, "skipped", "dangling"})

	require.Equal(t, map[string]any{"a": 1}, fields)
}
