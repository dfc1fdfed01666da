package hw

import (
	"runtime"
	"sync"
)

// bindings maps goroutine ids to the core they execute on. On hardware the
// association is implicit; the simulation has to carry it explicitly so that
// package-level operations like interrupt masking act on the right core.
var bindings sync.Map

// Bind associates the calling goroutine with the given core until the
// returned release function runs. Goroutines that never bind execute on
// core 0, which keeps single-core code and sequential tests free of
// boilerplate.
func Bind(c *Core) (release func()) {
	id := goid()
	bindings.Store(id, c)
	return func() { bindings.Delete(id) }
}

// boundTo reports whether the calling goroutine is explicitly bound to c.
// Unlike CurrentCore it does not fall back to core 0, so it answers "may I
// act as this core" rather than "which core do I read as".
func boundTo(c *Core) bool {
	v, ok := bindings.Load(goid())
	return ok && v.(*Core) == c
}

// CurrentCore returns the core the calling goroutine executes on.
func CurrentCore() *Core {
	if v, ok := bindings.Load(goid()); ok {
		return v.(*Core)
	}
	return mach.cores[0]
}

// RunOn runs fn on its own goroutine bound to the given core and returns
// once fn does.
func RunOn(c *Core, fn func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		release := Bind(c)
		defer release()
		fn()
	}()
	<-done
}

// goid extracts the current goroutine id from the runtime stack header
// ("goroutine N [running]:"). Slow, but the simulation is a test vehicle,
// not a cycle-accurate model.
func goid() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	const prefix = len("goroutine ")
	var id uint64
	for _, b := range buf[prefix:n] {
		if b < '0' || b > '9' {
			break
		}
		id = id*10 + uint64(b-'0')
	}
	return id
}
