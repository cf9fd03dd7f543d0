package ucommon

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func reader(rwm *RWLock, iterations int, activity *int32) error {
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

func writer(rwm *RWLock, iterations int, activity *int32) error {
	for range iterations {
		rwm.Lock()
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

func hammerRWLock(t *testing.T, gomaxprocs, numReaders, iterations int) {
	runtime.GOMAXPROCS(gomaxprocs)

	// Number of active readers + 10000 * number of active writers.
	var activity int32
	var rwm RWLock
	var g errgroup.Group

	g.Go(func() error { return writer(&rwm, iterations, &activity) })
	for range numReaders {
		g.Go(func() error { return reader(&rwm, iterations, &activity) })
	}
	g.Go(func() error { return writer(&rwm, iterations, &activity) })

	require.NoError(t, g.Wait())
}

func TestRWLockHammer(t *testing.T) {
	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(-1))
	n := 1000
	if testing.Short() {
		n = 5
	}
	hammerRWLock(t, 1, 1, n)
	hammerRWLock(t, 1, 10, n)
	hammerRWLock(t, 4, 3, n)
	hammerRWLock(t, 10, 10, n)
	hammerRWLock(t, 100, 5, n)
}

func TestRWLockWriterReentrant(t *testing.T) {
	var rw RWLock

	require.True(t, rw.Modify(0))
	require.True(t, rw.Modify(0), "writer must re-enter")
	assert.Equal(t, 2, rw.Modifying())

	rw.Release()
	assert.Equal(t, 1, rw.Modifying())
	assert.False(t, rw.Access(0))

	rw.Release()
	assert.True(t, rw.Access(0))
	rw.Release()
}

func TestRWLockReadersShare(t *testing.T) {
	var rw RWLock

	require.True(t, rw.Access(0))
	require.True(t, rw.Access(0))
	assert.Equal(t, 2, rw.Accessing())
	assert.False(t, rw.Modify(0))

	rw.Release()
	rw.Release()
	assert.True(t, rw.Modify(0))
	rw.Release()
}

// A reader arriving after a pending writer waits until the writer has been
// served.
func TestRWLockWriterPrecedence(t *testing.T) {
	var rw RWLock
	var g errgroup.Group
	var order []string

	require.True(t, rw.Access(Inf))

	g.Go(func() error {
		rw.Lock()
		order = append(order, "writer")
		rw.Unlock()
		return nil
	})
	waitFor(t, func() bool { return rw.Waiting() == 1 })

	assert.False(t, rw.Access(0), "new reader admitted past a pending writer")
	assert.False(t, rw.Access(10*time.Millisecond))

	g.Go(func() error {
		rw.RLock()
		order = append(order, "reader")
		rw.RUnlock()
		return nil
	})
	waitFor(t, func() bool { return rw.Waiting() == 2 })

	rw.Release()
	require.NoError(t, g.Wait())
	assert.Equal(t, []string{"writer", "reader"}, order)
}

// Readers held back by a writer that gives up are let in.
func TestRWLockWriterTimeoutWakesReaders(t *testing.T) {
	var rw RWLock
	var g errgroup.Group

	require.True(t, rw.Access(Inf))

	g.Go(func() error {
		if rw.Modify(30 * time.Millisecond) {
			return fmt.Errorf("writer got in past a reader")
		}
		return nil
	})
	waitFor(t, func() bool { return rw.Waiting() == 1 })

	g.Go(func() error {
		if !rw.Access(Inf) {
			return fmt.Errorf("reader failed")
		}
		rw.Release()
		return nil
	})

	require.NoError(t, g.Wait())
	rw.Release()
	assert.Zero(t, rw.Accessing())
}

func TestRWLockRLocker(t *testing.T) {
	var rw RWLock
	l := rw.RLocker()

	l.Lock()
	assert.Equal(t, 1, rw.Accessing())
	l.Unlock()
	assert.Zero(t, rw.Accessing())
}

func TestRWLockContract(t *testing.T) {
	var rw RWLock
	requireContract(t, ErrNotHeld, rw.Release)
}

func TestRWLockMaxSharing(t *testing.T) {
	SetMaxSharing(2)
	defer SetMaxSharing(0)

	var rw RWLock
	require.True(t, rw.Access(0))
	require.True(t, rw.Access(0))
	requireContract(t, ErrMaxSharing, func() { rw.Access(0) })

	rw.Release()
	rw.Release()
}
