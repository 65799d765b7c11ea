//go:build unix

package trash

import (
	"path/filepath"

	"golang.org/x/sys/unix"
)

// mountTop returns the topmost ancestor of path that lives on the same
// device as path's parent directory.
func mountTop(path string) (string, error) {
	dir := filepath.Dir(path)

	var st unix.Stat_t
	if err := unix.Stat(dir, &st); err != nil {
		return "", err
	}
	dev := st.Dev

	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir, nil
		}
		if err := unix.Stat(parent, &st); err != nil || st.Dev != dev {
			return dir, nil
		}
		dir = parent
	}
}
