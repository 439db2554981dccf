package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/pinmark/types"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.RecordReconcile(3, 1, types.ModeAnimated)
	p.RecordReconcile(1, 0, types.ModeInstant)
	p.RecordSkippedPoint("missing_coordinates")
	p.RecordMarkerCount(7)
	p.RecordAnimationStarted("fade_in")
	p.RecordAnimationFinished("fade_in", false)
	p.RecordAnimationFinished("fade_out", true)
	p.RecordClusterOperation("rebuild", 7)
	p.RecordClusterOperationCoalesced()

	require.InDelta(t, 1, testutil.ToFloat64(p.reconciles.WithLabelValues("animated")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.reconciles.WithLabelValues("instant")), 0)
	require.InDelta(t, 4, testutil.ToFloat64(p.pointsChanged.WithLabelValues("added")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.pointsChanged.WithLabelValues("removed")), 0)
	require.InDelta(t, 7, testutil.ToFloat64(p.markers), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.animationsFinished.WithLabelValues("fade_out", "cancelled")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.clusterCoalesced), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestNewPrometheus_Defaults(t *testing.T) {
	p := NewPrometheus(nil, "")

	require.Equal(t, "pinmark", p.namespace)
	require.Equal(t, prometheus.DefaultRegisterer, p.reg)
}
