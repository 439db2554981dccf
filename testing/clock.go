package testing

import (
	"time"

	"github.com/arloliu/pinmark/internal/clock"
)

// FakeClock is a manually advanced clock for deterministic animation tests.
//
// Pass it to pinmark.WithClock and call Engine.Tick with the value returned
// by Advance.
type FakeClock = clock.Fake

// NewFakeClock returns a FakeClock reading start.
//
// Example:
//
//	clk := pinmarktest.NewFakeClock(time.Now())
//	eng, _ := pinmark.NewEngine(&cfg, surf, pinmark.WithClock(clk))
//	eng.Update(points)
//	eng.Tick(clk.Advance(300 * time.Millisecond))
func NewFakeClock(start time.Time) *FakeClock {
	return clock.NewFake(start)
}
