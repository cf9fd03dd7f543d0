package ucommon

import "sync"

// Conditional pairs a mutex with a single wait queue.
//
// The zero value is ready to use. Wait must be called with the lock held.
type Conditional struct {
	mu   sync.Mutex
	cond waitQueue
}

func (c *Conditional) Lock()   { c.mu.Lock() }
func (c *Conditional) Unlock() { c.mu.Unlock() }

// Wait parks the caller until Signal or Broadcast wakes it or d passes.
func (c *Conditional) Wait(d Deadline) bool {
	return c.cond.Wait(&c.mu, d)
}

func (c *Conditional) Signal()    { c.cond.Signal() }
func (c *Conditional) Broadcast() { c.cond.Broadcast() }

// ConditionalRW adds a second queue to Conditional: Signal wakes one
// goroutine parked with WaitSignal, Broadcast wakes every goroutine parked
// with WaitBroadcast.
type ConditionalRW struct {
	Conditional
	bcast waitQueue
}

func (c *ConditionalRW) WaitSignal(d Deadline) bool {
	return c.cond.Wait(&c.mu, d)
}

func (c *ConditionalRW) WaitBroadcast(d Deadline) bool {
	return c.bcast.Wait(&c.mu, d)
}

func (c *ConditionalRW) Broadcast() { c.bcast.Broadcast() }
