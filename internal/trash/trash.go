// Package trash moves directories to the platform trash instead of deleting
// them, so a removal can be undone by hand from the desktop's trash UI.
//
// Errors keep the underlying errno (ENOENT, EACCES, EXDEV, …) reachable via
// errors.Is / errors.As.
package trash

import (
	"fmt"
	"os"
	"path/filepath"
)

// maxNameAttempts bounds the search for a free name inside the trash.
const maxNameAttempts = 1000

// Move sends path to the trash.
func Move(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}
	return move(abs)
}

// candidateName returns the i-th name to try for base inside a trash directory.
func candidateName(base string, i int) string {
	if i == 0 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, i+1)
}
