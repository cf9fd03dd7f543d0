//go:build linux

package ucommon

import "golang.org/x/sys/unix"

// setPriority adjusts the niceness of the calling OS thread. A positive
// adjustment raises priority by that many steps, a negative one drops the
// thread to the lowest priority.
func setPriority(adj int) error {
	tid := unix.Gettid()

	// The raw syscall reports 20 - nice.
	prio, err := unix.Getpriority(unix.PRIO_PROCESS, tid)
	if err != nil {
		return err
	}
	nice := 20 - prio

	if adj > 0 {
		nice = max(nice-adj, -20)
	} else {
		nice = 19
	}
	return unix.Setpriority(unix.PRIO_PROCESS, tid, nice)
}
