package ucommon

import "time"

// pool is the bounded blocking list behind Queue and Stack. Consumers park
// on c while the list is empty, producers park on full while it is at its
// limit.
type pool[T comparable] struct {
	c     Conditional
	full  waitQueue
	nodes nodePool[T]
	list  nodeList
	limit int
}

func newPool[T comparable](alloc Allocator, limit int) pool[T] {
	return pool[T]{
		nodes: newNodePool[T](alloc),
		list:  newNodeList(),
		limit: max(limit, 0),
	}
}

func (p *pool[T]) post(obj T, timeout time.Duration) bool {
	d := NewDeadline(timeout)

	p.c.Lock()
	defer p.c.Unlock()

	for p.limit > 0 && p.list.count >= p.limit {
		if !p.full.Wait(&p.c.mu, d) {
			return false
		}
	}

	retain(obj)
	i := p.nodes.get()
	p.nodes.at(i).obj = obj
	p.nodes.pushBack(&p.list, i)
	p.c.Signal()
	return true
}

// pull takes the oldest node, or the newest when back is set. The reference
// held on the payload passes to the caller.
func (p *pool[T]) pull(timeout time.Duration, back bool) (T, bool) {
	d := NewDeadline(timeout)

	p.c.Lock()
	defer p.c.Unlock()

	for p.list.count == 0 {
		if !p.c.Wait(d) {
			var zero T
			return zero, false
		}
	}

	i := p.list.head
	if back {
		i = p.list.tail
	}
	obj := p.nodes.at(i).obj
	p.nodes.unlink(&p.list, i)
	p.nodes.put(i)
	p.full.Signal()
	return obj, true
}

func (p *pool[T]) remove(obj T) bool {
	p.c.Lock()
	defer p.c.Unlock()

	for i := p.list.head; i != nilNode; i = p.nodes.at(i).next {
		if p.nodes.at(i).obj != obj {
			continue
		}
		p.nodes.unlink(&p.list, i)
		p.nodes.put(i)
		release(obj)
		p.full.Signal()
		return true
	}
	return false
}

func (p *pool[T]) count() int {
	p.c.Lock()
	defer p.c.Unlock()
	return p.list.count
}

func (p *pool[T]) free() int {
	if p.limit == 0 {
		return -1
	}
	p.c.Lock()
	defer p.c.Unlock()
	return p.limit - p.list.count
}

func (p *pool[T]) spare() int {
	p.c.Lock()
	defer p.c.Unlock()
	return p.nodes.spare
}

// Queue is a bounded blocking queue that can be drained from either end.
// Posting blocks while the queue holds limit items; a limit of 0 leaves it
// unbounded. Nodes come from alloc, or from the heap when alloc is nil.
//
// Payloads implementing Object are retained when posted. A payload taken
// out with Fifo or Lifo hands that reference to the caller; Remove releases
// it.
type Queue[T comparable] struct {
	p pool[T]
}

func NewQueue[T comparable](alloc Allocator, limit int) *Queue[T] {
	return &Queue[T]{p: newPool[T](alloc, limit)}
}

// Post appends obj, waiting up to timeout for room.
func (q *Queue[T]) Post(obj T, timeout time.Duration) bool {
	return q.p.post(obj, timeout)
}

// Fifo takes the oldest item, waiting up to timeout for one.
func (q *Queue[T]) Fifo(timeout time.Duration) (T, bool) {
	return q.p.pull(timeout, false)
}

// Lifo takes the most recently posted item, waiting up to timeout for one.
func (q *Queue[T]) Lifo(timeout time.Duration) (T, bool) {
	return q.p.pull(timeout, true)
}

// Remove takes obj out of the queue wherever it is.
func (q *Queue[T]) Remove(obj T) bool {
	return q.p.remove(obj)
}

func (q *Queue[T]) Count() int { return q.p.count() }

// Free returns how many more items fit, or -1 for an unbounded queue.
func (q *Queue[T]) Free() int { return q.p.free() }

// Spare returns the number of recycled nodes ready for reuse.
func (q *Queue[T]) Spare() int { return q.p.spare() }
