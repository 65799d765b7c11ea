//go:build windows

package cleaner

import (
	"errors"
	"strconv"
	"syscall"

	"golang.org/x/sys/windows"
)

func isBusy(err error) bool {
	return errors.Is(err, windows.ERROR_SHARING_VIOLATION) || errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}

func errorCode(err error) string {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return ""
	}
	return "WIN" + strconv.FormatUint(uint64(errno), 10)
}
