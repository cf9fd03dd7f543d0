package ucommon

import (
	"log/slog"
	"sync/atomic"
)

// Object is a reference counted payload.
type Object interface {
	Retain()
	Release()
}

// CountedObject is an embeddable reference count. The dealloc callback set
// with OnDealloc runs exactly once, when the last reference is released.
type CountedObject struct {
	refs    atomic.Int64
	done    atomic.Bool
	dealloc func()
}

// OnDealloc sets the callback run when the count drops to zero. It must be
// called before the object is shared.
func (o *CountedObject) OnDealloc(fn func()) {
	o.dealloc = fn
}

func (o *CountedObject) Retain() {
	o.refs.Add(1)
}

func (o *CountedObject) Release() {
	n := o.refs.Add(-1)
	switch {
	case n > 0:
	case n == 0:
		if o.done.CompareAndSwap(false, true) && o.dealloc != nil {
			o.dealloc()
		}
	default:
		fatal("object", ErrOverRelease, slog.Int64("refs", n))
	}
}

// Copied returns the number of live references.
func (o *CountedObject) Copied() int {
	return int(o.refs.Load())
}

// retain and release apply reference counting to container payloads that
// support it and ignore everything else.
func retain(v any) {
	if o, ok := v.(Object); ok {
		o.Retain()
	}
}

func release(v any) {
	if o, ok := v.(Object); ok {
		o.Release()
	}
}
