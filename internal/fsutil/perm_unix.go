//go:build unix

package fsutil

import "golang.org/x/sys/unix"

// CanWrite reports whether the current process may write to path.
// It is a pure access(2) probe; nothing is created on disk.
func CanWrite(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}
