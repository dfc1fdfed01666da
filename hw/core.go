package hw

import (
	"sync/atomic"
)

// Core models one LX6 processor: its identification register, stack and
// vector-base registers, the interrupt-enable state and the pending lines of
// its interrupt matrix.
//
// Fields below the atomics are core-local in the hardware sense: they are
// only ever touched from the goroutine bound to the core (interrupt handlers
// included, since those are delivered on that goroutine). They need no
// further synchronization, exactly like the PS special register needs none.
type Core struct {
	id   int
	prid uint32

	sp      uintptr
	vecbase uintptr

	intEnable atomic.Bool
	pending   atomic.Uint32

	depth     int32
	saved     uint32
	servicing bool
	vectors   [NumIRQ]func()
}

func newCore(id int) *Core {
	c := &Core{id: id, prid: PRIDApp}
	if id == 0 {
		c.prid = PRIDPro
	}
	c.intEnable.Store(true)
	return c
}

// ID returns the index of the core within the machine.
func (c *Core) ID() int { return c.id }

// PRID returns the value of the processor identification register.
func (c *Core) PRID() uint32 { return c.prid }

// SP returns the core stack pointer register.
func (c *Core) SP() uintptr { return c.sp }

// SetSP writes the core stack pointer register. No alignment checking is
// performed here; callers own that contract.
func (c *Core) SetSP(sp uintptr) { c.sp = sp }

// VecBase returns the vector base register.
func (c *Core) VecBase() uintptr { return c.vecbase }

// SetVecBase writes the vector base register.
func (c *Core) SetVecBase(base uintptr) { c.vecbase = base }

// InterruptsEnabled reports whether maskable interrupts are currently
// enabled on the core.
func (c *Core) InterruptsEnabled() bool {
	return c.intEnable.Load()
}

// DisableInterrupts masks all maskable interrupts on the core and returns
// the prior enable state (1 if interrupts were enabled). This is the raw
// masking instruction; it carries no nesting bookkeeping.
func (c *Core) DisableInterrupts() uint32 {
	if c.intEnable.Swap(false) {
		return 1
	}
	return 0
}

// RestoreInterrupts writes back an enable state previously returned by
// DisableInterrupts. Re-enabling services any interrupts that were raised
// while masked.
func (c *Core) RestoreInterrupts(state uint32) {
	if state&1 == 0 {
		c.intEnable.Store(false)
		return
	}
	c.intEnable.Store(true)
	c.Service()
}

// EnterCritical masks interrupts and increments the critical-section nesting
// depth. The prior enable state is captured only at the outermost entry.
// Must run on the goroutine bound to the core.
func (c *Core) EnterCritical() {
	if c.depth == 0 {
		c.saved = c.DisableInterrupts()
	}
	c.depth++
}

// ExitCritical decrements the nesting depth and, only when it returns to
// zero, restores the enable state captured by the outermost EnterCritical.
// Inner sections therefore can never re-enable interrupts an outer section
// still needs masked.
func (c *Core) ExitCritical() {
	c.depth--
	if c.depth == 0 {
		c.RestoreInterrupts(c.saved)
	}
}

// CriticalDepth returns the current critical-section nesting depth.
func (c *Core) CriticalDepth() int32 { return c.depth }

// SetVector installs fn as the handler for the given interrupt line. A nil
// fn leaves the line pending-capable but undelivered. Install handlers from
// the owning core's goroutine, or before raising traffic on the line.
func (c *Core) SetVector(irq int, fn func()) {
	if irq < 0 || irq >= NumIRQ {
		return
	}
	c.vectors[irq] = fn
}

// Raise asserts an interrupt line on the core. The line latches in the
// pending mask; if the calling goroutine is bound to this core and
// interrupts are enabled it is taken immediately, otherwise it is delivered
// at the core's next delivery point (interrupt re-enable or an explicit
// Service call). Only bound goroutines ever take the immediate path:
// handlers run on the core they interrupt, never on the raiser.
func (c *Core) Raise(irq int) {
	if irq < 0 || irq >= NumIRQ {
		return
	}
	bit := uint32(1) << irq
	for {
		old := c.pending.Load()
		if c.pending.CompareAndSwap(old, old|bit) {
			break
		}
	}
	if boundTo(c) && c.InterruptsEnabled() {
		c.Service()
	}
}

// Pending returns the mask of interrupt lines raised but not yet taken.
func (c *Core) Pending() uint32 {
	return c.pending.Load()
}

// Service delivers pending interrupts on the core. Each handler runs inside
// its own critical section, as the hardware masks interrupts for the
// duration of a handler; handlers may nest further critical sections. A
// no-op while interrupts are masked. Must run on the goroutine bound to the
// core.
func (c *Core) Service() {
	if c.servicing || !c.InterruptsEnabled() {
		return
	}
	c.servicing = true
	defer func() { c.servicing = false }()

	for {
		p := c.pending.Swap(0)
		if p == 0 {
			return
		}
		for irq := 0; irq < NumIRQ; irq++ {
			if p&(1<<irq) == 0 {
				continue
			}
			if fn := c.vectors[irq]; fn != nil {
				c.EnterCritical()
				func() {
					defer c.ExitCritical()
					fn()
				}()
			}
		}
	}
}
