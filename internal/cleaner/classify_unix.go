//go:build unix

package cleaner

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

func isBusy(err error) bool {
	return errors.Is(err, unix.EBUSY) || errors.Is(err, unix.ETXTBSY)
}

// errorCode returns the symbolic errno name (ENOENT, EACCES, …) wrapped in
// err, or "" if there is none.
func errorCode(err error) string {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return ""
	}
	return unix.ErrnoName(errno)
}
