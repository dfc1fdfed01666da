// Package timer provides the tick timer the HAL hands to firmware: a free
// running counter with start/stop/read plus optional interrupt delivery to a
// core on each tick.
package timer

import (
	"sync"
	"sync/atomic"
	"time"

	"omibyte.io/xtlx/hw"
)

// Timer counts ticks at a fixed nominal frequency. On the host a ticker
// goroutine advances the count while the timer runs; tests can advance it
// deterministically with Advance instead.
type Timer struct {
	freq  uint32
	ticks atomic.Uint64

	mu   sync.Mutex
	stop chan struct{}

	attached *hw.Core
	irq      int
}

// New returns a stopped timer counting at freqHz.
func New(freqHz uint32) *Timer {
	if freqHz == 0 {
		freqHz = 1
	}
	return &Timer{freq: freqHz, irq: -1}
}

// Frequency returns the nominal tick frequency in Hz.
func (t *Timer) Frequency() uint32 { return t.freq }

// Attach routes a tick interrupt to the given core's interrupt line. Attach
// before Start; the handler itself is installed separately via the core's
// vector table. Ticks raised from the Start ticker goroutine (or any other
// goroutine not bound to the core) latch pending and deliver at the core's
// next delivery point.
func (t *Timer) Attach(c *hw.Core, irq int) {
	t.mu.Lock()
	t.attached = c
	t.irq = irq
	t.mu.Unlock()
}

// Start begins counting. Starting a running timer has no effect.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}
	interval := time.Second / time.Duration(t.freq)
	if interval <= 0 {
		interval = time.Microsecond
	}
	stop := make(chan struct{})
	t.stop = stop
	go func() {
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tick.C:
				t.Advance(1)
			}
		}
	}()
}

// Stop halts counting. The count is retained. Stopping a stopped timer has
// no effect.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
}

// Count returns the number of ticks elapsed since the last Reset.
func (t *Timer) Count() uint64 {
	return t.ticks.Load()
}

// Reset zeroes the tick count.
func (t *Timer) Reset() {
	t.ticks.Store(0)
}

// Advance adds n ticks, raising the attached interrupt line once per tick.
// This is the deterministic path for tests; the Start ticker goes through
// it too.
func (t *Timer) Advance(n uint64) {
	t.mu.Lock()
	c, irq := t.attached, t.irq
	t.mu.Unlock()

	for ; n > 0; n-- {
		t.ticks.Add(1)
		if c != nil && irq >= 0 {
			c.Raise(irq)
		}
	}
}
