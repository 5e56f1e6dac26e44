package state

import (
	"sync/atomic"
)

// Clock hands out strictly increasing stamps for history entries.
type Clock struct {
	counter uint64
}

// Tick advances the clock and returns the new value.
func (c *Clock) Tick() uint64 {
	return atomic.AddUint64(&c.counter, 1)
}
