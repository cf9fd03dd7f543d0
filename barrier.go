package ucommon

import "time"

// Barrier releases a group of goroutines once a fixed number of them have
// arrived. It resets itself after each release and can be reused.
type Barrier struct {
	c     Conditional
	count uint
	waits uint
	round uint64
}

// NewBarrier returns a barrier for parties goroutines. A barrier for zero
// parties never blocks.
func NewBarrier(parties uint) *Barrier {
	return &Barrier{count: parties}
}

// Wait arrives at the barrier and waits up to timeout for the rest of the
// parties. A timed-out arrival is withdrawn and does not release anyone.
func (b *Barrier) Wait(timeout time.Duration) bool {
	d := NewDeadline(timeout)

	b.c.Lock()
	defer b.c.Unlock()

	if b.count == 0 {
		return true
	}

	b.waits++
	if b.waits >= b.count {
		b.release()
		return true
	}

	round := b.round
	for b.round == round {
		if !b.c.Wait(d) {
			if b.round != round {
				return true
			}
			b.waits--
			return false
		}
	}
	return true
}

// Set changes the party size. If enough goroutines are already waiting they
// are released at once.
func (b *Barrier) Set(parties uint) {
	b.c.Lock()
	defer b.c.Unlock()

	b.count = parties
	if b.count <= b.waits {
		b.release()
	}
}

// Count returns the party size.
func (b *Barrier) Count() int {
	b.c.Lock()
	defer b.c.Unlock()
	return int(b.count)
}

// Arrived returns the number of goroutines waiting in the current round.
func (b *Barrier) Arrived() int {
	b.c.Lock()
	defer b.c.Unlock()
	return int(b.waits)
}

func (b *Barrier) release() {
	b.waits = 0
	b.round++
	b.c.Broadcast()
}
