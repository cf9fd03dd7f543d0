package ucommon

import (
	"bytes"
	"log/slog"
	"time"

	"github.com/smallnest/ringbuffer"
)

// Buffer is a blocking ring of limit fixed-size elements. Put blocks while
// the ring is full, Get and Copy block while it is empty.
type Buffer struct {
	c       Conditional
	full    waitQueue
	ring    *ringbuffer.RingBuffer
	objsize int
	limit   int
	head    []byte // element staged by Get
	held    bool
}

// NewBuffer returns a ring of limit elements of objsize bytes each, charged
// to alloc when it is not nil.
func NewBuffer(alloc Allocator, objsize, limit int) *Buffer {
	if objsize <= 0 || limit <= 0 {
		fatal("buffer", ErrBadState, slog.Int("objsize", objsize), slog.Int("limit", limit))
	}
	b := &Buffer{
		ring:    ringbuffer.New(objsize * limit),
		objsize: objsize,
		limit:   limit,
		head:    make([]byte, objsize),
	}
	if alloc != nil {
		alloc.Hold(b.ring, uintptr(objsize*limit))
	}
	return b
}

// Put appends the first Size bytes of data, waiting up to timeout for a free
// slot.
func (b *Buffer) Put(data []byte, timeout time.Duration) bool {
	if len(data) < b.objsize {
		fatal("buffer", ErrBadState, slog.Int("len", len(data)), slog.Int("objsize", b.objsize))
	}
	d := NewDeadline(timeout)

	b.c.Lock()
	defer b.c.Unlock()

	for b.count() >= b.limit {
		if !b.full.Wait(&b.c.mu, d) {
			return false
		}
	}

	if _, err := b.ring.Write(data[:b.objsize]); err != nil {
		fatal("buffer", ErrBadState, slog.Any("error", err))
	}
	b.c.Signal()
	return true
}

// Get returns a copy of the element at the head without consuming it,
// waiting up to timeout for one.
func (b *Buffer) Get(timeout time.Duration) ([]byte, bool) {
	d := NewDeadline(timeout)

	b.c.Lock()
	defer b.c.Unlock()

	if !b.await(d) {
		return nil, false
	}
	b.stage()
	return bytes.Clone(b.head), true
}

// Release consumes the head element. It does nothing on an empty buffer.
func (b *Buffer) Release() {
	b.c.Lock()
	defer b.c.Unlock()

	if b.count() == 0 {
		return
	}
	b.stage()
	b.held = false
	b.full.Signal()
}

// Copy copies the head element into dst and consumes it, waiting up to
// timeout for one. The slot is only freed once the copy is complete.
func (b *Buffer) Copy(dst []byte, timeout time.Duration) bool {
	if len(dst) < b.objsize {
		fatal("buffer", ErrBadState, slog.Int("len", len(dst)), slog.Int("objsize", b.objsize))
	}
	d := NewDeadline(timeout)

	b.c.Lock()
	defer b.c.Unlock()

	if !b.await(d) {
		return false
	}
	b.stage()
	copy(dst, b.head)
	b.held = false
	b.full.Signal()
	return true
}

// Count returns the number of elements in the buffer.
func (b *Buffer) Count() int {
	b.c.Lock()
	defer b.c.Unlock()
	return b.count()
}

// Size returns the element size.
func (b *Buffer) Size() int { return b.objsize }

func (b *Buffer) Empty() bool { return b.Count() == 0 }

func (b *Buffer) count() int {
	n := b.ring.Length() / b.objsize
	if b.held {
		n++
	}
	return n
}

func (b *Buffer) await(d Deadline) bool {
	for b.count() == 0 {
		if !b.c.Wait(d) {
			return false
		}
	}
	return true
}

// stage moves the head element out of the ring into head.
func (b *Buffer) stage() {
	if b.held {
		return
	}
	if _, err := b.ring.Read(b.head); err != nil {
		fatal("buffer", ErrBadState, slog.Any("error", err))
	}
	b.held = true
}
