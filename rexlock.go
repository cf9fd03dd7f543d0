package ucommon

import (
	"log/slog"
	"time"

	"github.com/aberaud/ucommon/internal/goid"
)

// RecursiveMutex is an exclusive lock its holder may take again without
// blocking. It is released once Unlock has been called as many times as it
// was locked.
type RecursiveMutex struct {
	c       Conditional
	locker  int64
	lockers uint
	waiting uint
}

func (m *RecursiveMutex) Lock() { m.LockTimeout(Inf) }

func (m *RecursiveMutex) Exlock() { m.LockTimeout(Inf) }

// LockTimeout takes the lock, waiting up to timeout for another holder to
// release it.
func (m *RecursiveMutex) LockTimeout(timeout time.Duration) bool {
	d := NewDeadline(timeout)
	self := goid.Get()

	m.c.Lock()
	defer m.c.Unlock()

	for m.lockers > 0 && m.locker != self {
		m.waiting++
		ok := m.c.Wait(d)
		m.waiting--
		if !ok {
			return false
		}
	}

	if m.lockers == 0 {
		m.locker = self
	}
	m.lockers++
	return true
}

// Unlock drops one hold. It panics if the caller does not hold the lock.
func (m *RecursiveMutex) Unlock() {
	self := goid.Get()

	m.c.Lock()
	defer m.c.Unlock()

	if m.lockers == 0 || m.locker != self {
		fatal("rexlock", ErrNotHeld, slog.Int64("goroutine", self), slog.Uint64("lockers", uint64(m.lockers)))
	}

	m.lockers--
	if m.lockers == 0 {
		m.locker = 0
		if m.waiting > 0 {
			m.c.Signal()
		}
	}
}

// Locking returns the current hold count.
func (m *RecursiveMutex) Locking() int {
	m.c.Lock()
	defer m.c.Unlock()
	return int(m.lockers)
}

// Waiting returns the number of goroutines blocked in Lock.
func (m *RecursiveMutex) Waiting() int {
	m.c.Lock()
	defer m.c.Unlock()
	return int(m.waiting)
}
