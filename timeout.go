package ucommon

import "time"

// Inf waits forever. Any negative timeout is treated the same way.
const Inf time.Duration = -1

// Deadline is the absolute end of a bounded wait. It is computed once at the
// start of a blocking call and reused across wakeups inside that call.
type Deadline struct {
	at       time.Time
	infinite bool
	now      bool
}

// NewDeadline converts a relative timeout into a Deadline. A zero timeout
// yields a deadline that has already passed.
func NewDeadline(timeout time.Duration) Deadline {
	switch {
	case timeout < 0:
		return Deadline{infinite: true}
	case timeout == 0:
		return Deadline{now: true}
	}
	return Deadline{at: time.Now().Add(timeout)}
}

func (d Deadline) Infinite() bool  { return d.infinite }
func (d Deadline) Immediate() bool { return d.now }

func (d Deadline) Expired() bool {
	switch {
	case d.infinite:
		return false
	case d.now:
		return true
	}
	return !time.Now().Before(d.at)
}

// Remaining returns the time left before the deadline, Inf for an infinite
// deadline, and 0 once it has passed.
func (d Deadline) Remaining() time.Duration {
	switch {
	case d.infinite:
		return Inf
	case d.now:
		return 0
	}
	if r := time.Until(d.at); r > 0 {
		return r
	}
	return 0
}
