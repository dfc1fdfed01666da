package mutex

import (
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"

	"omibyte.io/xtlx/hw"
	"omibyte.io/xtlx/lx6/interrupt"
)

func TestCriticalSectionSequentialIncrements(t *testing.T) {
	hw.Configure(1)

	m := NewCriticalSection(0)
	for i := 0; i < 5; i++ {
		m.Lock(func(v *int) { *v++ })
	}
	if got := With(m, func(v *int) int { return *v }); got != 5 {
		t.Errorf("counter: got %d, wanted 5", got)
	}
}

func TestCriticalSectionMasksInterrupts(t *testing.T) {
	hw.Configure(1)

	m := NewCriticalSection(0)
	m.Lock(func(v *int) {
		if interrupt.Enabled() {
			t.Error("interrupts enabled inside CriticalSection lock")
		}
	})
	if !interrupt.Enabled() {
		t.Error("interrupts not restored after lock")
	}
}

func TestReadAfterWriteVisibility(t *testing.T) {
	hw.Configure(1)

	muxes := map[string]Mutex[int]{
		"CriticalSection":         NewCriticalSection(0),
		"CriticalSectionSpinLock": NewCriticalSectionSpinLock(0),
		"SpinLock":                NewSpinLock(0),
	}
	for name, m := range muxes {
		m.Lock(func(v *int) { *v = 42 })
		if got := With(m, func(v *int) int { return *v }); got != 42 {
			t.Errorf("%s: read back %d, wanted 42", name, got)
		}
	}
}

func TestWithReturnsResult(t *testing.T) {
	hw.Configure(1)

	m := NewSpinLock("lx6")
	got := With(m, func(v *string) int { return len(*v) })
	if got != 3 {
		t.Errorf("With: got %d, wanted 3", got)
	}
}

func TestCriticalSectionSpinLockCrossCore(t *testing.T) {
	hw.Configure(2)

	m := NewCriticalSectionSpinLock(0)
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		core := hw.Cores()[i]
		g.Go(func() error {
			release := hw.Bind(core)
			defer release()
			for j := 0; j < 1000; j++ {
				m.Lock(func(v *int) { *v++ })
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if got := With(m, func(v *int) int { return *v }); got != 2000 {
		t.Errorf("counter: got %d, wanted 2000 (lost updates)", got)
	}
}

func TestSpinLockCrossCore(t *testing.T) {
	hw.Configure(2)

	m := NewSpinLock(0)
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		core := hw.Cores()[i]
		g.Go(func() error {
			release := hw.Bind(core)
			defer release()
			for j := 0; j < 1000; j++ {
				m.Lock(func(v *int) { *v++ })
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if got := With(m, func(v *int) int { return *v }); got != 2000 {
		t.Errorf("counter: got %d, wanted 2000 (lost updates)", got)
	}
}

func TestSpinLockLeavesInterruptsEnabled(t *testing.T) {
	hw.Configure(1)

	m := NewSpinLock(0)
	m.Lock(func(v *int) {
		if !interrupt.Enabled() {
			t.Error("SpinLock masked interrupts")
		}
	})
}

func TestSpinlockMutualExclusion(t *testing.T) {
	var l Spinlock
	var inside atomic.Int32

	var g errgroup.Group
	for w := 0; w < 8; w++ {
		g.Go(func() error {
			for i := 0; i < 500; i++ {
				l.Acquire()
				if n := inside.Add(1); n != 1 {
					t.Errorf("mutual exclusion violated: %d holders", n)
				}
				inside.Add(-1)
				l.Release()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestSpinlockTryAcquire(t *testing.T) {
	var l Spinlock

	if !l.TryAcquire() {
		t.Fatal("TryAcquire on a free lock failed")
	}
	if l.TryAcquire() {
		t.Error("TryAcquire on a held lock succeeded")
	}
	if !l.Held() {
		t.Error("Held: got false, wanted true")
	}
	l.Release()
	if !l.TryAcquire() {
		t.Error("TryAcquire after Release failed")
	}
	l.Release()
}

// A handler raised against the holding core must not run while the spinlock
// is held: the interrupt mask has to cover the entire hold, otherwise the
// handler could spin on a lock its own core already owns.
func TestCriticalSectionSpinLockMasksWholeHold(t *testing.T) {
	hw.Configure(2)
	pro := hw.Cores()[0]

	var fired atomic.Int32
	pro.SetVector(5, func() { fired.Add(1) })

	m := NewCriticalSectionSpinLock(0)
	inLock := make(chan struct{})
	raised := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		release := hw.Bind(pro)
		defer release()
		m.Lock(func(v *int) {
			close(inLock)
			<-raised
			if pro.InterruptsEnabled() {
				t.Error("interrupts enabled while spinlock held")
			}
			if got := fired.Load(); got != 0 {
				t.Errorf("handler ran while lock held: fired %d times", got)
			}
		})
		return nil
	})
	g.Go(func() error {
		release := hw.Bind(hw.Cores()[1])
		defer release()
		<-inLock
		pro.Raise(5)
		close(raised)
		return nil
	})
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if got := fired.Load(); got != 1 {
		t.Errorf("after unlock: handler fired %d times, wanted 1", got)
	}
}

func BenchmarkCriticalSectionLock(b *testing.B) {
	hw.Configure(1)
	m := NewCriticalSection(0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Lock(func(v *int) { *v++ })
	}
}

func BenchmarkSpinLockUncontended(b *testing.B) {
	hw.Configure(1)
	m := NewSpinLock(0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Lock(func(v *int) { *v++ })
	}
}
