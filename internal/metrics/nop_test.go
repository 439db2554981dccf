package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pinmark/types"
)

func TestNewNop(t *testing.T) {
	metrics := NewNop()

	require.NotNil(t, metrics)
	require.IsType(t, &NopMetrics{}, metrics)
}

func TestNopMetrics_DoesNotPanic(t *testing.T) {
	metrics := NewNop()

	require.NotPanics(t, func() {
		metrics.RecordReconcile(5, 3, types.ModeAnimated)
		metrics.RecordReconcile(0, 0, types.Mode(99))
		metrics.RecordSkippedPoint("missing_coordinates")
		metrics.RecordMarkerCount(-1)
		metrics.RecordSurfaceError("")
		metrics.RecordAnimationStarted("fade_in")
		metrics.RecordAnimationFinished("fade_out", true)
		metrics.RecordActiveAnimations(0)
		metrics.RecordClusterOperation("rebuild", 100)
		metrics.RecordClusterOperationCoalesced()
	})
}

func BenchmarkNopMetrics_RecordReconcile(b *testing.B) {
	metrics := NewNop()
	for b.Loop() {
		metrics.RecordReconcile(5, 3, types.ModeInstant)
	}
}
