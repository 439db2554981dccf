package types

// MetricsCollector defines methods for recording engine metrics.
//
// Implementations should be non-blocking. Methods are called with the engine
// lock held, from whatever goroutine drives the engine.
//
// This interface composes smaller, component-focused interfaces.
type MetricsCollector interface {
	ReconcileMetrics
	AnimationMetrics
	ClusterMetrics
}

// ReconcileMetrics defines metrics for diff and commit operations.
type ReconcileMetrics interface {
	// RecordReconcile records one applied diff.
	//
	// Parameters:
	//   - added: Number of points added
	//   - removed: Number of points removed
	//   - mode: Commit mode chosen by the transition policy
	RecordReconcile(added, removed int, mode Mode)

	// RecordSkippedPoint records a point dropped before diffing.
	//
	// Parameters:
	//   - reason: "empty_id", "missing_coordinates", "invalid_coordinates" or "duplicate_id"
	RecordSkippedPoint(reason string)

	// RecordMarkerCount sets the number of live marker handles (gauge).
	RecordMarkerCount(count int)

	// RecordSurfaceError records a failed rendering surface call.
	//
	// Parameters:
	//   - operation: "create_marker", "remove_marker", "set_icon", "set_opacity", "fit_bounds", ...
	RecordSurfaceError(operation string)
}

// AnimationMetrics defines metrics for the animation scheduler.
type AnimationMetrics interface {
	// RecordAnimationStarted records a newly scheduled opacity task.
	RecordAnimationStarted(kind string)

	// RecordAnimationFinished records a task that left the active set.
	//
	// Parameters:
	//   - kind: Task kind ("fade_in", "fade_out")
	//   - cancelled: true if the task was superseded or cancelled
	RecordAnimationFinished(kind string, cancelled bool)

	// RecordActiveAnimations sets the number of in-flight tasks (gauge).
	RecordActiveAnimations(count int)
}

// ClusterMetrics defines metrics for the cluster coordinator.
type ClusterMetrics interface {
	// RecordClusterOperation records one operation applied to the clustering layer.
	//
	// Parameters:
	//   - operation: "add", "remove", "rebuild" or "create"
	//   - members: Number of markers involved
	RecordClusterOperation(operation string, members int)

	// RecordClusterOperationCoalesced records a queued operation superseded by a rebuild.
	RecordClusterOperationCoalesced()
}
