// Package clock provides a manually advanced types.Clock for deterministic tests.
package clock

import (
	"sync"
	"time"

	"github.com/arloliu/pinmark/types"
)

// Fake is a types.Clock that only moves when told to.
//
// Fake is safe for concurrent use.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

var _ types.Clock = (*Fake)(nil)

// NewFake creates a fake clock reading start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the current fake time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

// Advance moves the clock forward by d and returns the new reading.
func (f *Fake) Advance(d time.Duration) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)

	return f.now
}

// Set moves the clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}
