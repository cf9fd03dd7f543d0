package ucommon

import (
	"sync"
)

// RTWMutex is a reader/writer mutex with a third, read-to-write mode. A
// read-to-write holder shares the lock with plain readers and can later
// upgrade to exclusive access. No writer can get in between its read and its
// upgrade, so whatever it read is still current once the upgrade returns.
//
// Only one read-to-write holder is admitted at a time.
type RTWMutex struct {
	rtw  sync.Mutex // held by the read-to-write holder
	lock ConditionalLock
}

func NewRWMutex() *RTWMutex {
	return &RTWMutex{}
}

func (rw *RTWMutex) RTWLock() {
	rw.rtw.Lock()
	rw.lock.Access(Inf)
}

func (rw *RTWMutex) RTWUnlock() {
	rw.lock.Release()
	rw.rtw.Unlock()
}

// Upgrade turns the read-to-write share into exclusive access. It waits for
// the remaining readers to leave.
func (rw *RTWMutex) Upgrade() {
	rw.lock.Exclusive()
}

func (rw *RTWMutex) RTWUpgradeUnlock() {
	rw.lock.Commit()
	rw.rtw.Unlock()
}

func (rw *RTWMutex) RLock()   { rw.lock.Access(Inf) }
func (rw *RTWMutex) RUnlock() { rw.lock.Release() }
func (rw *RTWMutex) Lock()    { rw.lock.Modify(Inf) }
func (rw *RTWMutex) Unlock()  { rw.lock.Commit() }

// RLocker returns a Locker interface that implements
// the Lock and Unlock methods by calling rw.RLock and rw.RUnlock.
func (rw *RTWMutex) RLocker() sync.Locker {
	return (*rtwRLocker)(rw)
}

type rtwRLocker RTWMutex

func (r *rtwRLocker) Lock()   { (*RTWMutex)(r).RLock() }
func (r *rtwRLocker) Unlock() { (*RTWMutex)(r).RUnlock() }
