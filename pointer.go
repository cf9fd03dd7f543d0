package ucommon

import "sync"

// LockedPointer holds one reference to an Object. Readers never borrow the
// occupant: Dup hands out a reference of their own, which stays valid however
// often the pointer is replaced afterwards.
type LockedPointer[T Object] struct {
	mu  sync.Mutex
	ptr T
	set bool
}

// Replace installs obj and drops the reference held on the previous
// occupant.
func (p *LockedPointer[T]) Replace(obj T) {
	obj.Retain()

	p.mu.Lock()
	old, had := p.ptr, p.set
	p.ptr, p.set = obj, true
	p.mu.Unlock()

	if had {
		old.Release()
	}
}

// Clear empties the pointer.
func (p *LockedPointer[T]) Clear() {
	var zero T

	p.mu.Lock()
	old, had := p.ptr, p.set
	p.ptr, p.set = zero, false
	p.mu.Unlock()

	if had {
		old.Release()
	}
}

// Dup returns a new reference to the occupant. The caller must Release it.
func (p *LockedPointer[T]) Dup() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.set {
		p.ptr.Retain()
	}
	return p.ptr, p.set
}

// Get returns a guard holding a reference to the occupant.
func (p *LockedPointer[T]) Get() *LockedRelease[T] {
	g := &LockedRelease[T]{}
	g.obj, g.ok = p.Dup()
	return g
}

// LockedRelease owns one reference taken from a LockedPointer. Release it
// with defer so the reference is dropped on every exit path.
type LockedRelease[T Object] struct {
	obj T
	ok  bool
}

func (g *LockedRelease[T]) Object() (T, bool) {
	return g.obj, g.ok
}

func (g *LockedRelease[T]) Release() {
	if !g.ok {
		return
	}
	obj := g.obj
	var zero T
	g.obj, g.ok = zero, false
	obj.Release()
}

// Assign drops the current reference and takes one on p's occupant.
func (g *LockedRelease[T]) Assign(p *LockedPointer[T]) {
	g.Release()
	g.obj, g.ok = p.Dup()
}

// Copy returns a second guard with its own reference.
func (g *LockedRelease[T]) Copy() *LockedRelease[T] {
	if g.ok {
		g.obj.Retain()
	}
	return &LockedRelease[T]{obj: g.obj, ok: g.ok}
}

// SharedObject is a payload owned outright by a SharedPointer.
type SharedObject interface {
	// Commit is called under exclusive access once the object is installed.
	Commit()
	// Dealloc is called under exclusive access once the object is replaced.
	Dealloc()
}

// SharedPointer guards a SharedObject with a ConditionalLock. Readers hold a
// share for as long as they look at the object; Replace waits for all of
// them to leave and then destroys the old object.
type SharedPointer[T SharedObject] struct {
	lock ConditionalLock
	ptr  T
	set  bool
}

// Replace installs obj, deallocating the previous occupant.
func (p *SharedPointer[T]) Replace(obj T) {
	p.lock.Modify(Inf)
	defer p.lock.Commit()

	if p.set {
		p.ptr.Dealloc()
	}
	p.ptr, p.set = obj, true
	obj.Commit()
}

// Clear deallocates the occupant and leaves the pointer empty.
func (p *SharedPointer[T]) Clear() {
	p.lock.Modify(Inf)
	defer p.lock.Commit()

	if p.set {
		p.ptr.Dealloc()
	}
	var zero T
	p.ptr, p.set = zero, false
}

// Share returns a guard holding a share of the pointer.
func (p *SharedPointer[T]) Share() *SharedRelease[T] {
	p.lock.Access(Inf)
	return &SharedRelease[T]{ptr: p}
}

// SharedRelease holds a share of a SharedPointer. The object it exposes is
// valid until Release.
type SharedRelease[T SharedObject] struct {
	ptr *SharedPointer[T]
}

func (g *SharedRelease[T]) Object() (T, bool) {
	if g.ptr == nil {
		var zero T
		return zero, false
	}
	return g.ptr.ptr, g.ptr.set
}

func (g *SharedRelease[T]) Release() {
	if g.ptr == nil {
		return
	}
	p := g.ptr
	g.ptr = nil
	p.lock.Release()
}

// Assign releases the current share and takes one on p.
func (g *SharedRelease[T]) Assign(p *SharedPointer[T]) {
	g.Release()
	p.lock.Access(Inf)
	g.ptr = p
}
