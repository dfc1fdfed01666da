// Package lx6 exposes the core special registers of the Xtensa LX6 as plain
// functions. These are privileged one-instruction operations on the real
// part; none of them validate their inputs.
package lx6

import (
	"runtime"

	"omibyte.io/xtlx/hw"
)

// Debug control register of the on-chip debug module.
const (
	xdmOCDDCRSet = 0x10200C
	dcrEnableOCD = 0x01
)

// ProcessorID returns the PRID special register of the current core
// (0xCDCD on the PRO core, 0xABAB on the APP core).
func ProcessorID() uint32 {
	return hw.CurrentCore().PRID()
}

// StackPointer returns the core stack pointer.
func StackPointer() uintptr {
	return hw.CurrentCore().SP()
}

// SetStackPointer writes the core stack pointer.
//
// This is highly unsafe. It is meant for program start or for building a
// task switcher. stack must point at the non-inclusive end of the stack and
// be 16-byte aligned; neither is checked, and getting it wrong corrupts the
// call stack.
func SetStackPointer(stack uintptr) {
	hw.CurrentCore().SetSP(stack)
}

// ProgramCounter returns the address of the instruction at the call site.
func ProgramCounter() uintptr {
	pc, _, _, _ := runtime.Caller(1)
	return pc
}

// SetVectorBase moves the interrupt vector table. base must be the
// non-inclusive base address the hardware expects; not checked.
func SetVectorBase(base uintptr) {
	hw.CurrentCore().SetVecBase(base)
}

// VectorBase returns the current vector base register.
func VectorBase() uintptr {
	return hw.CurrentCore().VecBase()
}

// IsDebuggerAttached reports whether an OCD debugger is attached, by reading
// the debug control register and testing the ENABLEOCD bit.
func IsDebuggerAttached() bool {
	return hw.LoadUint32(xdmOCDDCRSet)&dcrEnableOCD != 0
}

// DebugBreak emits a software breakpoint trap. Without a debugger attached
// the trap has no meaningful outcome.
func DebugBreak() {
	runtime.Breakpoint()
}
