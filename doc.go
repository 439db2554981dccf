// Package pinmark reconciles a changing set of geographic points onto an
// interactive map as clustered markers.
//
// The engine diffs each new point set against what is already rendered,
// decides whether the change is a small incremental edit or a wholesale
// "surface switch", and either applies it instantly or cross-fades it. All
// markers belong to a single clustering layer that renders count badges,
// follows the light or dark theme and zooms to a cluster's members when it is
// clicked.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import "github.com/arloliu/pinmark"
//
//	cfg := pinmark.DefaultConfig()
//	eng, err := pinmark.NewEngine(&cfg, mapSurface)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := eng.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Stop(context.Background())
//
//	eng.Update([]pinmark.Point{
//	    pinmark.At("berlin", 52.52, 13.405, "Berlin"),
//	    pinmark.At("paris", 48.8566, 2.3522, "Paris"),
//	})
//
// # Key Features
//
//   - Identity-based diffing: a point keeps its marker as long as it keeps its id
//   - Surface switches: wholesale changes fade out (300ms) before removal and fade in (400ms)
//   - First paint is always instant, whatever its size
//   - Cluster badges in four size buckets, recolored on theme change
//   - Readiness gating: input that arrives before the surface is ready is buffered
//
// # Architecture
//
// The engine progresses through these phases:
//
//	WaitingSurface → Idle ⇄ Transitioning → Shutdown
//
// Update runs Diff → Transition Policy → Registry. The registry is the only
// component that creates or destroys markers; the animation scheduler moves
// opacities once per Tick; the cluster coordinator owns the clustering layer
// and applies its operations one at a time.
//
// # Point Sources
//
// Sync pulls a PointSource once. Watch keeps the surface in step with a
// PointWatcher such as source.Static or source.KV (a JSON point list stored
// in a NATS JetStream key-value bucket):
//
//	src, err := source.NewKV(kv, "fleet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	go src.Run(ctx)
//	go eng.Watch(ctx, src)
//
// # Testing
//
// surface.Memory is a complete in-memory Surface with deferred readiness,
// click simulation and pixel-grid clustering. Inject a fake clock with
// WithClock and drive Tick directly for deterministic animations.
package pinmark
