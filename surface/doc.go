// Package surface provides rendering surfaces for the engine.
//
// Memory is an in-process surface that keeps markers and the clustering
// layer in memory. It computes clusters on a pixel grid for a given zoom
// level, simulates marker and cluster clicks, and exports its state as
// GeoJSON. It is intended for tests, headless replay and as a reference for
// adapters wrapping a real map renderer.
package surface
