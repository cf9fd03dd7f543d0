// Package goid reads the identifier of the calling goroutine.
//
// The identifier is parsed from the header line of runtime.Stack, which is
// portable across Go versions and architectures. It is used to record lock
// ownership, never for scheduling decisions.
package goid

import "runtime"

const prefix = "goroutine "

// Get returns the current goroutine ID, or 0 if it cannot be determined.
func Get() int64 {
	// "goroutine 123 [running]:" fits easily.
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parse(buf[:n])
}

func parse(buf []byte) int64 {
	if len(buf) < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}

	var id int64
	for _, c := range buf[len(prefix):] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
