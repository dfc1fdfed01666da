// Package mutex provides the locking primitives of the HAL: a common Mutex
// capability and three implementations with different exclusion domains.
//
// Callers pick the weakest variant that is still sound for how the protected
// value is shared:
//
//   - CriticalSection: value touched by one core only, possibly from
//     interrupt handlers on that core.
//   - CriticalSectionSpinLock: value touched by multiple cores, possibly
//     from interrupt handlers.
//   - SpinLock: value touched by multiple cores, never from an interrupt
//     handler on a core that also locks it.
//
// All variants are non-reentrant: locking a mutex again from inside its own
// callback is a logic error. The spinlock-bearing variants deadlock on it;
// the pure critical-section variant would hand out a second alias to the
// data instead. Neither case is detected.
//
// A mutex is legal to use as a channel between thread context and interrupt
// handlers, so the protected value must be safe to touch from both; don't
// smuggle references out of the callback.
package mutex

import (
	"omibyte.io/xtlx/lx6/interrupt"
)

// Mutex grants exclusive, non-reentrant access to a value of type T for the
// duration of a callback. At most one callback body runs against a given
// mutex's data at any instant, within the exclusion domain of the concrete
// variant.
type Mutex[T any] interface {
	Lock(fn func(*T))
}

// With locks m around fn and returns fn's result. Methods cannot carry
// their own type parameters, so the result-returning form lives here.
func With[T, R any](m Mutex[T], fn func(*T) R) (r R) {
	m.Lock(func(v *T) {
		r = fn(v)
	})
	return r
}

// CriticalSection protects T by masking interrupts on the current core for
// the duration of the callback. No spinlock is taken, so locking never
// busy-waits and runs in bounded time.
//
// Only sound on data owned by a single core: nothing stops another core
// from running its own callback concurrently.
//
// The zero value protects the zero value of T.
type CriticalSection[T any] struct {
	data T
}

// NewCriticalSection returns a CriticalSection mutex protecting data.
func NewCriticalSection[T any](data T) *CriticalSection[T] {
	return &CriticalSection[T]{data: data}
}

func (m *CriticalSection[T]) Lock(fn func(*T)) {
	interrupt.Free(func(interrupt.CriticalSection) {
		fn(&m.data)
	})
}

// CriticalSectionSpinLock protects T with interrupt masking and a spinlock.
// The spinlock serializes cores against each other; the interrupt mask
// serializes the owning core against its own handlers. Interrupts are masked
// before the spin so the core cannot be interrupted while holding the lock;
// otherwise a handler spinning on the same lock on the same core would never
// see it released.
//
// The zero value protects the zero value of T.
type CriticalSectionSpinLock[T any] struct {
	lock Spinlock
	data T
}

// NewCriticalSectionSpinLock returns a CriticalSectionSpinLock mutex
// protecting data.
func NewCriticalSectionSpinLock[T any](data T) *CriticalSectionSpinLock[T] {
	return &CriticalSectionSpinLock[T]{data: data}
}

func (m *CriticalSectionSpinLock[T]) Lock(fn func(*T)) {
	interrupt.Free(func(interrupt.CriticalSection) {
		m.lock.Acquire()
		defer m.lock.Release()
		fn(&m.data)
	})
}

// SpinLock protects T with a spinlock alone, leaving interrupts enabled.
// Cheapest cross-core variant and the only one that keeps interrupts
// serviceable during the callback, but unsound if any handler on a locking
// core touches the same mutex: a handler arriving while the lock is held
// spins on a lock its own core holds.
//
// The zero value protects the zero value of T.
type SpinLock[T any] struct {
	lock Spinlock
	data T
}

// NewSpinLock returns a SpinLock mutex protecting data.
func NewSpinLock[T any](data T) *SpinLock[T] {
	return &SpinLock[T]{data: data}
}

func (m *SpinLock[T]) Lock(fn func(*T)) {
	m.lock.Acquire()
	defer m.lock.Release()
	fn(&m.data)
}
