package ucommon

import "time"

// Stack is a bounded blocking stack with the same limit and ownership rules
// as Queue.
type Stack[T comparable] struct {
	p pool[T]
}

func NewStack[T comparable](alloc Allocator, limit int) *Stack[T] {
	return &Stack[T]{p: newPool[T](alloc, limit)}
}

func (s *Stack[T]) Push(obj T, timeout time.Duration) bool {
	return s.p.post(obj, timeout)
}

// Pull takes the top of the stack, waiting up to timeout for it.
func (s *Stack[T]) Pull(timeout time.Duration) (T, bool) {
	return s.p.pull(timeout, true)
}

func (s *Stack[T]) Remove(obj T) bool { return s.p.remove(obj) }
func (s *Stack[T]) Count() int        { return s.p.count() }
func (s *Stack[T]) Free() int         { return s.p.free() }
