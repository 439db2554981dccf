// Package source provides built-in point source implementations.
//
// Point sources deliver the complete ordered point set the engine renders.
// The package includes:
//
//   - Static: In-memory list, updated by the application
//   - KV: JSON point list stored under a NATS JetStream key-value key
//
// Both implement types.PointWatcher, so Engine.Watch re-syncs after every
// change. Custom sources can be implemented by satisfying types.PointSource.
package source
