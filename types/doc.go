// Package types provides core type definitions and interfaces for the pinmark library.
//
// This package contains shared types that are used across multiple packages in the
// pinmark library. By keeping these types in a separate package, we avoid import cycles
// between the root pinmark package and its internal components.
//
// Key types:
//   - Point: A geographic item with stable identity supplied by a point source
//   - MarkerHandle: The live rendered representation of one Point
//   - Surface: Narrow capability interface over the external map renderer
//   - Theme, Mode, Phase: Engine-level enumerations
//   - Logger, MetricsCollector, Hooks: Ambient collaborators
package types
