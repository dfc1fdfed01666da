package mutex

import (
	"runtime"
	"sync/atomic"
)

// Spinlock is a busy-wait mutual-exclusion flag shared by all cores. The
// zero value is an unlocked lock. There is no queueing and no fairness:
// release makes the lock available to whichever acquirer's exchange lands
// first, and starvation under heavy contention is possible.
type Spinlock struct {
	state atomic.Uint32
}

// Acquire spins until the lock is taken. Re-acquiring a lock already held
// by the current execution context deadlocks.
func (l *Spinlock) Acquire() {
	for !l.state.CompareAndSwap(0, 1) {
		cpuRelax()
	}
}

// TryAcquire attempts to take the lock without spinning and reports whether
// it succeeded.
func (l *Spinlock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release frees the lock. Releasing an unheld lock has no effect.
func (l *Spinlock) Release() {
	l.state.Store(0)
}

// Held reports whether the lock is currently taken by someone.
func (l *Spinlock) Held() bool {
	return l.state.Load() != 0
}

// cpuRelax is the spin-wait hint. The real part would sit in a tight
// load/compare loop; on the host the simulated cores share OS threads, so
// yield to keep a spinning core from starving the holder.
func cpuRelax() {
	runtime.Gosched()
}
