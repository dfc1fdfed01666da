// Package interrupt controls the maskable-interrupt state of the current
// core and runs code inside interrupt-free critical sections.
package interrupt

import (
	"omibyte.io/xtlx/hw"
)

// State is an opaque snapshot of the core's interrupt-enable state, as
// returned by Disable. It belongs to the call frame that captured it and
// must be passed to Restore exactly once.
type State uint32

// CriticalSection is the token handed to a Free callback. Holding one
// proves that maskable interrupts are masked on the current core for the
// lifetime of the callback. It says nothing about other cores.
type CriticalSection struct {
	_ [0]byte
}

// Disable masks all maskable interrupts on the current core and returns the
// prior enable state. Raw primitive: no nesting bookkeeping, the caller owns
// pairing it with Restore. Prefer Free.
func Disable() State {
	return State(hw.CurrentCore().DisableInterrupts())
}

// Restore writes back a state captured by Disable. Re-enabling delivers any
// interrupts raised while masked.
func Restore(s State) {
	hw.CurrentCore().RestoreInterrupts(uint32(s))
}

// Free runs fn with all maskable interrupts masked on the current core.
//
// Entries nest: the enable state is captured at the outermost entry only and
// restored only when the outermost call exits, so an inner section can never
// re-enable interrupts an outer section still needs masked. The restore is
// guaranteed on every exit path out of fn.
//
// Free serializes fn against interrupt handlers on the current core only;
// other cores keep running.
func Free(fn func(CriticalSection)) {
	c := hw.CurrentCore()
	c.EnterCritical()
	defer c.ExitCritical()
	fn(CriticalSection{})
}

// SetVector installs fn as the handler for irq on the current core.
func SetVector(irq int, fn func()) {
	hw.CurrentCore().SetVector(irq, fn)
}

// ClearVector removes the handler for irq on the current core. The line can
// still latch pending, it just no longer delivers anywhere.
func ClearVector(irq int) {
	hw.CurrentCore().SetVector(irq, nil)
}

// Enabled reports whether maskable interrupts are currently enabled on the
// current core.
func Enabled() bool {
	return hw.CurrentCore().InterruptsEnabled()
}
