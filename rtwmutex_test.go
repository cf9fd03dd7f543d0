package ucommon

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func rtwReader(rwm RTWLocker, iterations int, activity *int32) error {
	for range iterations {
		rwm.RLock()
		n := atomic.AddInt32(activity, 1)
		if n < 1 || n >= 10000 {
			rwm.RUnlock()
			return fmt.Errorf("rlock(%d)", n)
		}
		for range 100 {
		}
		atomic.AddInt32(activity, -1)
		rwm.RUnlock()
	}
	return nil
}

func rtwWriter(rwm RTWLocker, iterations int, activity *int32, incr *int32) error {
	for range iterations {
		rwm.Lock()
		*incr = *incr + 1
		n := atomic.AddInt32(activity, 10000)
		if n != 10000 {
			rwm.Unlock()
			return fmt.Errorf("wlock(%d)", n)
		}
		for range 100 {
		}
		atomic.AddInt32(activity, -10000)
		rwm.Unlock()
	}
	return nil
}

func readToWriter(rwm RTWLocker, iterations int, activity *int32, incr *int32) error {
	for range iterations {
		rwm.RTWLock()
		firstRead := *incr
		n := atomic.AddInt32(activity, 1)
		if n < 1 || n >= 10000 {
			rwm.RTWUnlock()
			return fmt.Errorf("rtwlock(%d)", n)
		}

		// upgrade or continue with read lock
		if rand.Intn(2) == 0 {
			rwm.Upgrade()
			n := atomic.AddInt32(activity, 10000)
			if n != 10001 {
				rwm.RTWUpgradeUnlock()
				return fmt.Errorf("upgrade(%d)", n)
			}
			for range 100 {
			}
			if firstRead != *incr {
				rwm.RTWUpgradeUnlock()
				return fmt.Errorf("rwt lock priority violated")
			}
			*incr = *incr + 1
			atomic.AddInt32(activity, -10001)
			rwm.RTWUpgradeUnlock()
		} else {
			for range 100 {
			}
			atomic.AddInt32(activity, -1)
			rwm.RTWUnlock()
		}
	}
	return nil
}

func hammerRTWMutex(t *testing.T, gomaxprocs, numReaders, iterations int) {
	runtime.GOMAXPROCS(gomaxprocs)

	// Number of active readers + 10000 * number of active writers.
	var activity, incr int32
	rwm := NewRWMutex()
	var g errgroup.Group

	g.Go(func() error { return rtwWriter(rwm, iterations, &activity, &incr) })
	var i int
	for i = 0; i < numReaders/2; i++ {
		g.Go(func() error { return rtwReader(rwm, iterations, &activity) })
	}
	g.Go(func() error { return rtwWriter(rwm, iterations, &activity, &incr) })
	for ; i < numReaders; i++ {
		g.Go(func() error { return readToWriter(rwm, iterations, &activity, &incr) })
	}

	require.NoError(t, g.Wait())
}

func TestRTWMutexHammer(t *testing.T) {
	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(-1))
	n := 1000
	if testing.Short() {
		n = 5
	}
	hammerRTWMutex(t, 1, 1, n)
	hammerRTWMutex(t, 1, 3, n)
	hammerRTWMutex(t, 1, 10, n)
	hammerRTWMutex(t, 4, 1, n)
	hammerRTWMutex(t, 4, 3, n)
	hammerRTWMutex(t, 4, 10, n)
	hammerRTWMutex(t, 10, 1, n)
	hammerRTWMutex(t, 10, 3, n)
	hammerRTWMutex(t, 10, 10, n)
	hammerRTWMutex(t, 10, 5, n)
	hammerRTWMutex(t, 100, 5, n)
	hammerRTWMutex(t, 1000, 5, n)
	hammerRTWMutex(t, 1000, 50, n)
	hammerRTWMutex(t, 100, 100, n)
}

func TestRTWMutexStress(t *testing.T) {
	n := 10
	if testing.Short() {
		n = 1
	}
	for range n {
		TestRTWMutexHammer(t)
	}
}

func TestRTWMutexRLocker(t *testing.T) {
	rwm := NewRWMutex()
	l := rwm.RLocker()

	l.Lock()
	require.Equal(t, 1, rwm.lock.Sharing())
	l.Unlock()
	require.Zero(t, rwm.lock.Sharing())
}
