// Package hw simulates the memory and core complex of an Xtensa LX6 class
// part on the host, so that HAL code and the synchronization primitives built
// on it can run under ordinary Go tests.
//
// The package keeps a single process-wide machine, mirroring how firmware
// sees exactly one SoC. Configure replaces it; tests that need a particular
// core count call Configure (or ConfigureTarget) up front.
package hw

import (
	"sync"

	"omibyte.io/xtlx/targets"
)

// NumIRQ is the number of interrupt lines each core decodes.
const NumIRQ = 32

// PRID values of the LX6 cores as reported by the real part.
const (
	PRIDPro = 0xCDCD
	PRIDApp = 0xABAB
)

type Machine struct {
	cores []*Core

	mu   sync.RWMutex
	regs map[uint32]uint32
}

var mach = newMachine(2)

func newMachine(cores int) *Machine {
	m := &Machine{
		cores: make([]*Core, cores),
		regs:  make(map[uint32]uint32),
	}
	for i := range m.cores {
		m.cores[i] = newCore(i)
	}
	return m
}

// Configure replaces the simulated machine with a fresh one carrying the
// given number of cores. All registers reset to zero, interrupts come up
// enabled and all goroutine bindings are dropped.
//
// Not safe to call concurrently with any other use of this package.
func Configure(cores int) {
	if cores < 1 {
		cores = 1
	}
	mach = newMachine(cores)
	bindings.Range(func(k, _ any) bool {
		bindings.Delete(k)
		return true
	})
}

// ConfigureTarget builds the simulated machine from a catalog entry.
func ConfigureTarget(t targets.TargetInfo) {
	Configure(t.Cores)
}

// NumCores returns the core count of the simulated machine.
func NumCores() int {
	return len(mach.cores)
}

// Cores returns the cores of the simulated machine, processor 0 first.
func Cores() []*Core {
	return mach.cores
}

// LoadUint32 performs a memory-mapped register read. Unwritten addresses
// read as zero, as the blocks of interest reset to zero on the real part.
func LoadUint32(addr uint32) uint32 {
	mach.mu.RLock()
	v := mach.regs[addr]
	mach.mu.RUnlock()
	return v
}

// StoreUint32 performs a memory-mapped register write.
func StoreUint32(addr uint32, v uint32) {
	mach.mu.Lock()
	mach.regs[addr] = v
	mach.mu.Unlock()
}

// SetBits sets the given bits of a memory-mapped register.
func SetBits(addr uint32, bits uint32) {
	mach.mu.Lock()
	mach.regs[addr] |= bits
	mach.mu.Unlock()
}

// ClearBits clears the given bits of a memory-mapped register.
func ClearBits(addr uint32, bits uint32) {
	mach.mu.Lock()
	mach.regs[addr] &^= bits
	mach.mu.Unlock()
}
