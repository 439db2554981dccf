// Package testing provides test utilities for pinmark users.
//
// It follows Go's convention of providing testing utilities in a dedicated
// package (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - CreatePointsKV: In-memory KV bucket for point documents
//   - NewFakeClock: Manually advanced clock for animation tests
//   - NewTestLogger: Logger that records entries for assertions
//
// Example usage:
//
//	import (
//	    "testing"
//	    pinmarktest "github.com/arloliu/pinmark/testing"
//	)
//
//	func TestMapView(t *testing.T) {
//	    clk := pinmarktest.NewFakeClock(time.Now())
//	    surf := surface.NewMemory()
//	    eng, _ := pinmark.NewEngine(&cfg, surf, pinmark.WithClock(clk))
//	    // ...
//	}
package testing
