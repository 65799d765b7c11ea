//go:build !unix

package fsutil

import "os"

// CanWrite reports whether the current process may write to path.
// Without access(2) the owner write bit is the best available signal.
func CanWrite(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0o200 != 0
}
