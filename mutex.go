package ucommon

import "sync"

// Mutex is a plain, non-reentrant exclusive lock.
type Mutex struct {
	mu sync.Mutex
}

func (m *Mutex) Lock()         { m.mu.Lock() }
func (m *Mutex) Unlock()       { m.mu.Unlock() }
func (m *Mutex) TryLock() bool { return m.mu.TryLock() }
func (m *Mutex) Exlock()       { m.mu.Lock() }
