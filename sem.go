package ucommon

import (
	"sync"
	"time"
)

/* Wake tokens and wait queues built from channels */

type empty struct{}

// token wakes exactly one waiter. The buffer of one lets a signaller post the
// wakeup without blocking, even if the waiter has not parked yet.
type token chan empty

func newToken() token {
	return make(token, 1)
}

func (t token) wake() {
	t <- empty{}
}

// await blocks until the token is woken or d passes.
func (t token) await(d Deadline) bool {
	if d.Infinite() {
		<-t
		return true
	}

	r := d.Remaining()
	if r <= 0 {
		select {
		case <-t:
			return true
		default:
			return false
		}
	}

	timer := time.NewTimer(r)
	defer timer.Stop()

	select {
	case <-t:
		return true
	case <-timer.C:
		return false
	}
}

// Waiter is the wait/signal contract every primitive in this package is
// built on. Wait is called with mu held, releases it while parked and holds
// it again on return. It reports false only if d passed without a wakeup.
type Waiter interface {
	Wait(mu sync.Locker, d Deadline) bool
	Signal()
	Broadcast()
}

var _ Waiter = (*waitQueue)(nil)

// waitQueue is a Waiter that parks each goroutine on its own token. All
// methods must be called with the owning mutex held.
type waitQueue struct {
	waiters []token
}

func (q *waitQueue) Wait(mu sync.Locker, d Deadline) bool {
	if d.Immediate() {
		return false
	}

	t := newToken()
	q.waiters = append(q.waiters, t)

	mu.Unlock()
	woken := t.await(d)
	mu.Lock()

	if woken {
		return true
	}
	// Still queued means nobody picked us. Otherwise a signal raced the
	// timer and the wakeup belongs to us.
	return !q.remove(t)
}

func (q *waitQueue) Signal() {
	if len(q.waiters) == 0 {
		return
	}
	t := q.waiters[0]
	q.waiters[0] = nil
	q.waiters = q.waiters[1:]
	t.wake()
}

func (q *waitQueue) Broadcast() {
	for i, t := range q.waiters {
		q.waiters[i] = nil
		t.wake()
	}
	q.waiters = q.waiters[:0]
}

func (q *waitQueue) Len() int {
	return len(q.waiters)
}

func (q *waitQueue) remove(t token) bool {
	for i, w := range q.waiters {
		if w == t {
			copy(q.waiters[i:], q.waiters[i+1:])
			q.waiters[len(q.waiters)-1] = nil
			q.waiters = q.waiters[:len(q.waiters)-1]
			return true
		}
	}
	return false
}
