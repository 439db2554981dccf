package metrics

import "github.com/arloliu/pinmark/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	metrics := metrics.NewNop()
//	eng, err := pinmark.NewEngine(&cfg, surface, pinmark.WithMetrics(metrics))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// ReconcileMetrics implementation

// RecordReconcile discards the reconcile metric.
func (n *NopMetrics) RecordReconcile(_ /* added */, _ /* removed */ int, _ /* mode */ types.Mode) {
	// No-op
}

// RecordSkippedPoint discards the skipped point metric.
func (n *NopMetrics) RecordSkippedPoint(_ /* reason */ string) {
	// No-op
}

// RecordMarkerCount discards the marker count metric.
func (n *NopMetrics) RecordMarkerCount(_ /* count */ int) {
	// No-op
}

// RecordSurfaceError discards the surface error metric.
func (n *NopMetrics) RecordSurfaceError(_ /* operation */ string) {
	// No-op
}

// AnimationMetrics implementation

// RecordAnimationStarted discards the animation start metric.
func (n *NopMetrics) RecordAnimationStarted(_ /* kind */ string) {
	// No-op
}

// RecordAnimationFinished discards the animation finish metric.
func (n *NopMetrics) RecordAnimationFinished(_ /* kind */ string, _ /* cancelled */ bool) {
	// No-op
}

// RecordActiveAnimations discards the active animation gauge.
func (n *NopMetrics) RecordActiveAnimations(_ /* count */ int) {
	// No-op
}

// ClusterMetrics implementation

// RecordClusterOperation discards the cluster operation metric.
func (n *NopMetrics) RecordClusterOperation(_ /* operation */ string, _ /* members */ int) {
	// No-op
}

// RecordClusterOperationCoalesced discards the coalesced operation metric.
func (n *NopMetrics) RecordClusterOperationCoalesced() {
	// No-op
}
