package ucommon

import (
	"log/slog"
	"time"
)

// ConditionalLock is a shared lock whose holders can convert their share
// into exclusive access and back.
//
// Goroutines waiting for exclusive access, whether through Modify or through
// converting a share, block new shares but never preempt shares already
// granted. A pending conversion goes before a pending Modify, so a holder
// that converts never sees another writer between its shared and exclusive
// phases, unless another sharer converts concurrently and wins. No order is
// promised among several waiters of the same kind.
type ConditionalLock struct {
	c          ConditionalRW
	upgrade    waitQueue
	reclaim    waitQueue
	sharing    uint
	writing    bool
	pending    uint   // waiting to modify
	upgrading  uint   // sharers waiting to convert to exclusive
	waiting    uint   // waiting to share
	reclaiming uint   // failed converters waiting for their share back
	round      uint64 // bumped each time exclusive access ends
}

// Access takes a share, waiting up to timeout while anyone holds or waits
// for exclusive access.
func (l *ConditionalLock) Access(timeout time.Duration) bool {
	return l.share(timeout, func() bool {
		return l.writing || l.exclusivePending()
	})
}

// Protect takes a share like Access, except that pending exclusive requests
// only hold it back while no share is held. A goroutine that already shares
// the lock can therefore nest Protect without deadlocking against a writer
// queued behind it.
func (l *ConditionalLock) Protect(timeout time.Duration) bool {
	return l.share(timeout, func() bool {
		return l.writing || (l.exclusivePending() && l.sharing == 0)
	})
}

func (l *ConditionalLock) share(timeout time.Duration, blocked func() bool) bool {
	d := NewDeadline(timeout)

	l.c.Lock()
	defer l.c.Unlock()

	for blocked() {
		l.waiting++
		ok := l.c.WaitBroadcast(d)
		l.waiting--
		if !ok {
			return false
		}
	}

	checkSharing("condlock", l.sharing)
	l.sharing++
	return true
}

// Modify takes exclusive access from the unlocked state, waiting up to
// timeout for every share to be released. It is ended with Commit.
func (l *ConditionalLock) Modify(timeout time.Duration) bool {
	d := NewDeadline(timeout)

	l.c.Lock()
	defer l.c.Unlock()

	for l.writing || l.sharing > 0 || l.upgrading > 0 {
		l.pending++
		ok := l.c.WaitSignal(d)
		l.pending--
		if !ok {
			l.wakeSharers()
			return false
		}
	}

	l.writing = true
	return true
}

// Commit ends exclusive access taken with Modify or Exclusive.
func (l *ConditionalLock) Commit() {
	l.c.Lock()
	defer l.c.Unlock()

	if !l.writing {
		fatal("condlock", ErrNotHeld)
	}
	l.writing = false
	l.readmit()
	if l.sharing == 0 {
		l.wake()
	} else {
		l.wakeSharers()
	}
}

// Exclusive converts the caller's share into exclusive access, blocking
// until every other share has been released.
func (l *ConditionalLock) Exclusive() {
	l.ExclusiveTimeout(Inf)
}

// ExclusiveTimeout is Exclusive bounded by timeout. On failure the caller
// still holds its share. The bound covers the conversion only: if another
// sharer converted first and holds exclusive access, the caller gets its
// share back once that access ends.
func (l *ConditionalLock) ExclusiveTimeout(timeout time.Duration) bool {
	d := NewDeadline(timeout)

	l.c.Lock()
	defer l.c.Unlock()

	if l.sharing == 0 {
		fatal("condlock", ErrNotHeld)
	}

	l.sharing--
	l.upgrading++
	for l.sharing > 0 || l.writing {
		if !l.upgrade.Wait(&l.c.mu, d) {
			l.upgrading--
			l.restore()
			return false
		}
	}
	l.upgrading--
	l.writing = true
	return true
}

// Share converts exclusive access back into a share.
func (l *ConditionalLock) Share() {
	l.c.Lock()
	defer l.c.Unlock()

	if !l.writing {
		fatal("condlock", ErrBadState, slog.Uint64("sharing", uint64(l.sharing)))
	}
	l.writing = false
	l.sharing++
	l.readmit()
	l.wakeSharers()
}

// Release gives up a share.
func (l *ConditionalLock) Release() {
	l.c.Lock()
	defer l.c.Unlock()

	if l.sharing == 0 {
		fatal("condlock", ErrNotHeld)
	}
	l.sharing--
	if l.sharing == 0 {
		l.wake()
	} else {
		l.wakeSharers()
	}
}

// Sharing returns the number of shares held.
func (l *ConditionalLock) Sharing() int {
	l.c.Lock()
	defer l.c.Unlock()
	return int(l.sharing)
}

// Waiters returns the number of goroutines blocked on the lock.
func (l *ConditionalLock) Waiters() int {
	l.c.Lock()
	defer l.c.Unlock()
	return int(l.pending + l.upgrading + l.waiting + l.reclaiming)
}

func (l *ConditionalLock) Shlock() { l.Access(Inf) }
func (l *ConditionalLock) Unlock() { l.Release() }

// restore gives a failed converter its share back, waiting out any
// exclusive access granted while it was queued.
func (l *ConditionalLock) restore() {
	if !l.writing {
		l.sharing++
		l.wakeSharers()
		return
	}

	l.reclaiming++
	for round := l.round; l.round == round; {
		l.reclaim.Wait(&l.c.mu, NewDeadline(Inf))
	}
}

// readmit ends an exclusive section by handing shares back to the
// converters that lost to it. Their shares are granted before anyone else
// can take the lock.
func (l *ConditionalLock) readmit() {
	l.round++
	if l.reclaiming == 0 {
		return
	}
	l.sharing += l.reclaiming
	l.reclaiming = 0
	l.reclaim.Broadcast()
}

func (l *ConditionalLock) exclusivePending() bool {
	return l.pending > 0 || l.upgrading > 0
}

// wake hands the lock on once it has been fully released.
func (l *ConditionalLock) wake() {
	switch {
	case l.writing:
	case l.upgrading > 0:
		if l.sharing == 0 {
			l.upgrade.Signal()
		}
	case l.pending > 0:
		if l.sharing == 0 {
			l.c.Signal()
		}
	case l.waiting > 0:
		l.c.Broadcast()
	}
}

func (l *ConditionalLock) wakeSharers() {
	if !l.writing && !l.exclusivePending() && l.waiting > 0 {
		l.c.Broadcast()
	}
}
