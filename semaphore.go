package ucommon

import "time"

// Semaphore admits up to a fixed number of holders at once.
type Semaphore struct {
	c     Conditional
	count uint
	used  uint
	waits uint
}

// NewSemaphore returns a semaphore with limit permits.
func NewSemaphore(limit uint) *Semaphore {
	return &Semaphore{count: limit}
}

// Acquire takes a permit, waiting up to timeout for one to be released.
func (s *Semaphore) Acquire(timeout time.Duration) bool {
	d := NewDeadline(timeout)

	s.c.Lock()
	defer s.c.Unlock()

	for s.used >= s.count {
		s.waits++
		ok := s.c.Wait(d)
		s.waits--
		if !ok {
			return false
		}
	}
	s.used++
	return true
}

// Wait takes a permit, blocking as long as needed.
func (s *Semaphore) Wait() { s.Acquire(Inf) }

// Release returns a permit and wakes one waiter.
func (s *Semaphore) Release() {
	s.c.Lock()
	defer s.c.Unlock()

	if s.used == 0 {
		fatal("semaphore", ErrNotHeld)
	}
	s.used--
	if s.waits > 0 {
		s.c.Signal()
	}
}

// Set changes the number of permits. Waiters that fit under the new limit
// are woken.
func (s *Semaphore) Set(limit uint) {
	s.c.Lock()
	defer s.c.Unlock()

	s.count = limit
	if s.used >= s.count || s.waits == 0 {
		return
	}
	for range min(s.count-s.used, s.waits) {
		s.c.Signal()
	}
}

// Used returns the number of permits held.
func (s *Semaphore) Used() int {
	s.c.Lock()
	defer s.c.Unlock()
	return int(s.used)
}

// Count returns the number of permits.
func (s *Semaphore) Count() int {
	s.c.Lock()
	defer s.c.Unlock()
	return int(s.count)
}

func (s *Semaphore) Shlock() { s.Wait() }
func (s *Semaphore) Unlock() { s.Release() }

// Waiting returns the number of goroutines blocked in Acquire.
func (s *Semaphore) Waiting() int {
	s.c.Lock()
	defer s.c.Unlock()
	return int(s.waits)
}
