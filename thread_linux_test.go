//go:build linux

package ucommon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestSetPriorityLowers(t *testing.T) {
	var nice int
	var err error

	th := NewJoinableThread(func() {
		err = setPriority(-1)
		if err == nil {
			var prio int
			prio, err = unix.Getpriority(unix.PRIO_PROCESS, unix.Gettid())
			nice = 20 - prio
		}
	}, 0)

	th.Start(0)
	th.Join()

	require.NoError(t, err)
	assert.Equal(t, 19, nice)
}
