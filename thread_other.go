//go:build !linux

package ucommon

func setPriority(int) error { return nil }
