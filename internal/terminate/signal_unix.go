//go:build unix

package terminate

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// UnixSignaler signals processes with kill(2).
type UnixSignaler struct{}

func (UnixSignaler) Signal(pid int, sig syscall.Signal) error {
	return unix.Kill(pid, sig)
}

// Exists probes pid with signal 0. EPERM means the process exists but belongs
// to someone else.
func (UnixSignaler) Exists(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
