package ucommon

import (
	"log/slog"
	"time"
	"unsafe"
)

// ReusePool hands out up to limit objects of type T. Objects are carved out
// of slabs charged to alloc and recycled on Release; Create blocks while all
// of them are in use. A limit of 0 leaves the pool unbounded.
type ReusePool[T any] struct {
	c     Conditional
	alloc Allocator
	init  func(*T)
	limit int
	slab  *[slabSize]T
	next  int // first unused object in slab
	free  []*T
	live  map[*T]struct{} // handed out and not yet released
	count int             // objects created
}

// NewReusePool returns a pool calling init, if not nil, on every object it
// hands out.
func NewReusePool[T any](alloc Allocator, limit int, init func(*T)) *ReusePool[T] {
	return &ReusePool[T]{
		alloc: alloc,
		init:  init,
		limit: max(limit, 0),
		live:  make(map[*T]struct{}),
	}
}

// Create returns a zeroed object, waiting up to timeout for one to be
// released if the pool is at its limit.
func (p *ReusePool[T]) Create(timeout time.Duration) (*T, bool) {
	d := NewDeadline(timeout)

	p.c.Lock()
	defer p.c.Unlock()

	for p.limit > 0 && len(p.live) >= p.limit {
		if !p.c.Wait(d) {
			return nil, false
		}
	}

	var obj *T
	if n := len(p.free); n > 0 {
		obj = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		var zero T
		*obj = zero
	} else {
		obj = p.carve()
	}
	p.live[obj] = struct{}{}

	if p.init != nil {
		p.init(obj)
	}
	return obj, true
}

// Release returns obj to the pool and wakes one waiting Create. Releasing an
// object the pool did not hand out, or releasing it twice, panics.
func (p *ReusePool[T]) Release(obj *T) {
	p.c.Lock()
	defer p.c.Unlock()

	if _, ok := p.live[obj]; !ok {
		fatal("reuse", ErrOverRelease, slog.Int("used", len(p.live)))
	}
	delete(p.live, obj)
	p.free = append(p.free, obj)
	p.c.Signal()
}

// Count returns the number of objects the pool has created.
func (p *ReusePool[T]) Count() int {
	p.c.Lock()
	defer p.c.Unlock()
	return p.count
}

// Used returns the number of objects handed out and not yet released.
func (p *ReusePool[T]) Used() int {
	p.c.Lock()
	defer p.c.Unlock()
	return len(p.live)
}

func (p *ReusePool[T]) carve() *T {
	if p.slab == nil || p.next == slabSize {
		p.slab = new([slabSize]T)
		p.next = 0
		if p.alloc != nil {
			p.alloc.Hold(p.slab, unsafe.Sizeof(*p.slab))
		}
	}
	obj := &p.slab[p.next]
	p.next++
	p.count++
	return obj
}
