package ucommon

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aberaud/ucommon/internal/goid"
)

var maxSharing atomic.Uint32

// SetMaxSharing caps how many goroutines may hold an RWLock or
// ConditionalLock at once. Going over the cap is a programming error and
// panics. Zero removes the cap.
func SetMaxSharing(n uint32) {
	maxSharing.Store(n)
}

func checkSharing(component string, holders uint) {
	if max := maxSharing.Load(); max > 0 && holders >= uint(max) {
		fatal(component, ErrMaxSharing, slog.Uint64("max", uint64(max)))
	}
}

// RWLock admits any number of readers or a single writer.
//
// A goroutine waiting to write blocks new readers, so writers are not starved
// by a steady stream of readers. Readers already admitted are never
// preempted. The writer may take the lock again without blocking; each
// Modify must be matched by a Release.
type RWLock struct {
	c       ConditionalRW
	writer  int64 // goroutine holding the write role
	writers uint
	reading uint
	pending uint // waiting to modify
	waiting uint // waiting to access
}

// Modify takes the write role, waiting up to timeout for current holders to
// leave.
func (rw *RWLock) Modify(timeout time.Duration) bool {
	d := NewDeadline(timeout)
	self := goid.Get()

	rw.c.Lock()
	defer rw.c.Unlock()

	for rw.writers > 0 || rw.reading > 0 {
		if rw.writers > 0 && rw.writer == self {
			break
		}
		rw.pending++
		ok := rw.c.WaitSignal(d)
		rw.pending--
		if !ok {
			// Readers held back by us may go now.
			if rw.pending == 0 && rw.writers == 0 && rw.waiting > 0 {
				rw.c.Broadcast()
			}
			return false
		}
	}

	checkSharing("rwlock", rw.writers)
	if rw.writers == 0 {
		rw.writer = self
	}
	rw.writers++
	return true
}

// Access takes a read share, waiting up to timeout while a writer holds or
// is waiting for the lock.
func (rw *RWLock) Access(timeout time.Duration) bool {
	d := NewDeadline(timeout)

	rw.c.Lock()
	defer rw.c.Unlock()

	for rw.writers > 0 || rw.pending > 0 {
		rw.waiting++
		ok := rw.c.WaitBroadcast(d)
		rw.waiting--
		if !ok {
			return false
		}
	}

	checkSharing("rwlock", rw.reading)
	rw.reading++
	return true
}

// Release gives up the write role or one read share.
func (rw *RWLock) Release() {
	rw.c.Lock()
	defer rw.c.Unlock()

	switch {
	case rw.writers > 0:
		if rw.reading > 0 {
			fatal("rwlock", ErrBadState, slog.Uint64("reading", uint64(rw.reading)))
		}
		rw.writers--
		if rw.writers > 0 {
			return
		}
		rw.writer = 0
		if rw.pending > 0 {
			rw.c.Signal()
		} else if rw.waiting > 0 {
			rw.c.Broadcast()
		}
	case rw.reading > 0:
		rw.reading--
		if rw.pending > 0 && rw.reading == 0 {
			rw.c.Signal()
		} else if rw.waiting > 0 && rw.pending == 0 {
			rw.c.Broadcast()
		}
	default:
		fatal("rwlock", ErrNotHeld)
	}
}

// Accessing returns the number of read shares held.
func (rw *RWLock) Accessing() int {
	rw.c.Lock()
	defer rw.c.Unlock()
	return int(rw.reading)
}

// Modifying returns the write hold count.
func (rw *RWLock) Modifying() int {
	rw.c.Lock()
	defer rw.c.Unlock()
	return int(rw.writers)
}

// Waiting returns the number of goroutines blocked in Modify or Access.
func (rw *RWLock) Waiting() int {
	rw.c.Lock()
	defer rw.c.Unlock()
	return int(rw.pending + rw.waiting)
}

func (rw *RWLock) Lock()    { rw.Modify(Inf) }
func (rw *RWLock) Unlock()  { rw.Release() }
func (rw *RWLock) RLock()   { rw.Access(Inf) }
func (rw *RWLock) RUnlock() { rw.Release() }
func (rw *RWLock) Exlock()  { rw.Modify(Inf) }
func (rw *RWLock) Shlock()  { rw.Access(Inf) }

// RLocker returns a Locker interface that implements
// the Lock and Unlock methods by calling rw.RLock and rw.RUnlock.
func (rw *RWLock) RLocker() sync.Locker {
	return (*rlocker)(rw)
}

type rlocker RWLock

func (r *rlocker) Lock()   { (*RWLock)(r).RLock() }
func (r *rlocker) Unlock() { (*RWLock)(r).RUnlock() }
