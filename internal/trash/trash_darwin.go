//go:build darwin

package trash

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
)

// move renames path into ~/.Trash, or into the volume's .Trashes/<uid> when
// path lives on another volume.
func move(path string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %w", err)
	}

	err = moveInto(filepath.Join(home, ".Trash"), path)
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	top, terr := mountTop(path)
	if terr != nil {
		return err
	}
	return moveInto(filepath.Join(top, ".Trashes", strconv.Itoa(os.Getuid())), path)
}

func moveInto(trashDir, path string) error {
	if err := os.MkdirAll(trashDir, 0o700); err != nil {
		return err
	}

	base := filepath.Base(path)
	for i := 0; i < maxNameAttempts; i++ {
		dest := filepath.Join(trashDir, candidateName(base, i))
		if _, err := os.Lstat(dest); err == nil {
			continue
		}
		if err := os.Rename(path, dest); err != nil {
			if errors.Is(err, fs.ErrExist) || errors.Is(err, syscall.ENOTEMPTY) {
				continue
			}
			return err
		}
		return nil
	}

	return fmt.Errorf("no free name in %s for %s", trashDir, base)
}
