package ucommon

import "time"

// TimedEvent is an auto-reset event bound to its own expiry timer. A Signal
// with nobody waiting is kept until the next Wait consumes it.
type TimedEvent struct {
	c         Conditional
	deadline  Deadline
	signalled bool
}

// NewTimedEvent returns an event whose timer expires after timeout. Use Inf
// for an event without a timer.
func NewTimedEvent(timeout time.Duration) *TimedEvent {
	return &TimedEvent{deadline: NewDeadline(timeout)}
}

// Set rearms the timer and clears a pending signal.
func (e *TimedEvent) Set(timeout time.Duration) {
	e.c.Lock()
	defer e.c.Unlock()

	e.deadline = NewDeadline(timeout)
	e.signalled = false
}

func (e *TimedEvent) Signal() {
	e.c.Lock()
	defer e.c.Unlock()

	e.signalled = true
	e.c.Signal()
}

// Wait blocks until the event is signalled or its timer expires, and reports
// whether it was signalled.
func (e *TimedEvent) Wait() bool {
	e.c.Lock()
	defer e.c.Unlock()

	for !e.signalled {
		if !e.c.Wait(e.deadline) {
			return false
		}
	}
	e.signalled = false
	return true
}

// Expire blocks until the timer runs out, unless the event is signalled
// first. It reports whether the timer expired.
func (e *TimedEvent) Expire() bool {
	return !e.Wait()
}

// Remaining returns the time left on the timer, or Inf if there is none.
func (e *TimedEvent) Remaining() time.Duration {
	e.c.Lock()
	defer e.c.Unlock()
	return e.deadline.Remaining()
}
