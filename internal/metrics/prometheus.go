// Package metrics provides MetricsCollector implementations.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/pinmark/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use so that
// constructing an engine with Prometheus metrics never panics at import time.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	reconciles         *prometheus.CounterVec
	pointsChanged      *prometheus.CounterVec
	skippedPoints      *prometheus.CounterVec
	markers            prometheus.Gauge
	surfaceErrors      *prometheus.CounterVec
	animationsStarted  *prometheus.CounterVec
	animationsFinished *prometheus.CounterVec
	animationsActive   prometheus.Gauge
	clusterOps         *prometheus.CounterVec
	clusterOpMembers   *prometheus.HistogramVec
	clusterCoalesced   prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "pinmark" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "pinmark"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.reconciles = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "reconcile",
			Name:      "diffs_total",
			Help:      "Total applied diffs by commit mode (instant, animated).",
		}, []string{"mode"})

		p.pointsChanged = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "reconcile",
			Name:      "points_changed_total",
			Help:      "Total points added or removed by kind (added, removed).",
		}, []string{"kind"})

		p.skippedPoints = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "reconcile",
			Name:      "skipped_points_total",
			Help:      "Total malformed points skipped by reason.",
		}, []string{"reason"})

		p.markers = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "markers",
			Help:      "Current number of live marker handles.",
		})

		p.surfaceErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "surface",
			Name:      "errors_total",
			Help:      "Total failed rendering surface calls by operation.",
		}, []string{"op"})

		p.animationsStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "animation",
			Name:      "started_total",
			Help:      "Total opacity tasks scheduled by kind.",
		}, []string{"kind"})

		p.animationsFinished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "animation",
			Name:      "finished_total",
			Help:      "Total opacity tasks that left the active set by kind and outcome (completed, cancelled).",
		}, []string{"kind", "outcome"})

		p.animationsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "animation",
			Name:      "active",
			Help:      "Current number of in-flight opacity tasks.",
		})

		p.clusterOps = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "cluster",
			Name:      "operations_total",
			Help:      "Total clustering layer operations by kind (create, add, remove, rebuild).",
		}, []string{"op"})

		p.clusterOpMembers = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "cluster",
			Name:      "operation_members",
			Help:      "Number of markers involved per clustering layer operation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		}, []string{"op"})

		p.clusterCoalesced = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "cluster",
			Name:      "coalesced_total",
			Help:      "Total queued clustering operations superseded by a rebuild.",
		})

		p.reg.MustRegister(p.reconciles)
		p.reg.MustRegister(p.pointsChanged)
		p.reg.MustRegister(p.skippedPoints)
		p.reg.MustRegister(p.markers)
		p.reg.MustRegister(p.surfaceErrors)
		p.reg.MustRegister(p.animationsStarted)
		p.reg.MustRegister(p.animationsFinished)
		p.reg.MustRegister(p.animationsActive)
		p.reg.MustRegister(p.clusterOps)
		p.reg.MustRegister(p.clusterOpMembers)
		p.reg.MustRegister(p.clusterCoalesced)
	})
}

// ReconcileMetrics implementation

// RecordReconcile counts an applied diff and the points it changed.
func (p *PrometheusCollector) RecordReconcile(added, removed int, mode types.Mode) {
	p.ensureRegistered()
	p.reconciles.WithLabelValues(mode.String()).Inc()
	p.pointsChanged.WithLabelValues("added").Add(float64(added))
	p.pointsChanged.WithLabelValues("removed").Add(float64(removed))
}

// RecordSkippedPoint counts a malformed point.
func (p *PrometheusCollector) RecordSkippedPoint(reason string) {
	p.ensureRegistered()
	p.skippedPoints.WithLabelValues(reason).Inc()
}

// RecordMarkerCount sets the live marker gauge.
func (p *PrometheusCollector) RecordMarkerCount(count int) {
	p.ensureRegistered()
	p.markers.Set(float64(count))
}

// RecordSurfaceError counts a failed surface call.
func (p *PrometheusCollector) RecordSurfaceError(operation string) {
	p.ensureRegistered()
	p.surfaceErrors.WithLabelValues(operation).Inc()
}

// AnimationMetrics implementation

// RecordAnimationStarted counts a scheduled task.
func (p *PrometheusCollector) RecordAnimationStarted(kind string) {
	p.ensureRegistered()
	p.animationsStarted.WithLabelValues(kind).Inc()
}

// RecordAnimationFinished counts a task leaving the active set.
func (p *PrometheusCollector) RecordAnimationFinished(kind string, cancelled bool) {
	p.ensureRegistered()
	outcome := "completed"
	if cancelled {
		outcome = "cancelled"
	}
	p.animationsFinished.WithLabelValues(kind, outcome).Inc()
}

// RecordActiveAnimations sets the in-flight task gauge.
func (p *PrometheusCollector) RecordActiveAnimations(count int) {
	p.ensureRegistered()
	p.animationsActive.Set(float64(count))
}

// ClusterMetrics implementation

// RecordClusterOperation counts a clustering layer operation.
func (p *PrometheusCollector) RecordClusterOperation(operation string, members int) {
	p.ensureRegistered()
	p.clusterOps.WithLabelValues(operation).Inc()
	p.clusterOpMembers.WithLabelValues(operation).Observe(float64(members))
}

// RecordClusterOperationCoalesced counts a superseded queued operation.
func (p *PrometheusCollector) RecordClusterOperationCoalesced() {
	p.ensureRegistered()
	p.clusterCoalesced.Inc()
}
