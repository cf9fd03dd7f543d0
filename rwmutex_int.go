package ucommon

// ExclusiveLocker is implemented by locks that can be taken exclusively.
type ExclusiveLocker interface {
	Exlock()
	Unlock()
}

// SharedLocker is implemented by locks that admit several holders at once.
type SharedLocker interface {
	Shlock()
	Unlock()
}

// ConvertibleLocker is a SharedLocker whose holders can convert their share
// into exclusive access and back again while keeping the lock.
type ConvertibleLocker interface {
	SharedLocker
	Exclusive()
	Share()
}

// RTWLocker is an extended version of classic RWMutex that lets you acquire a read-to-write lock which could be
// upgraded to an exclusive write lock when needed.
type RTWLocker interface {
	RTWLock()
	RTWUnlock()
	Upgrade()
	RTWUpgradeUnlock()

	RLock()
	RUnlock()

	Lock()
	Unlock()
}

var (
	_ ExclusiveLocker   = (*Mutex)(nil)
	_ ExclusiveLocker   = (*RWLock)(nil)
	_ SharedLocker      = (*RWLock)(nil)
	_ ExclusiveLocker   = (*RecursiveMutex)(nil)
	_ SharedLocker      = (*Semaphore)(nil)
	_ ConvertibleLocker = (*ConditionalLock)(nil)
	_ RTWLocker         = (*RTWMutex)(nil)
)
