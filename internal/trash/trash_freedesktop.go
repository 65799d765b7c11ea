//go:build unix && !darwin

package trash

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"time"
)

// move implements the freedesktop.org Trash specification: the home trash
// first, then a per-user trash at the top of the path's own mount when the
// home trash lives on another device.
func move(path string) error {
	home, err := homeTrash()
	if err != nil {
		return err
	}

	err = moveInto(home, path, path)
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	top, terr := mountTop(path)
	if terr != nil {
		return err
	}
	rel, terr := filepath.Rel(top, path)
	if terr != nil {
		return err
	}
	return moveInto(filepath.Join(top, ".Trash-"+strconv.Itoa(os.Getuid())), path, rel)
}

// homeTrash returns $XDG_DATA_HOME/Trash, defaulting to ~/.local/share/Trash.
func homeTrash() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "Trash"), nil
}

// moveInto reserves a name with an O_EXCL .trashinfo file, then renames path
// into files/. recorded is the Path= value written to the info file.
func moveInto(trashDir, path, recorded string) error {
	filesDir := filepath.Join(trashDir, "files")
	infoDir := filepath.Join(trashDir, "info")
	for _, d := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}

	info := trashInfo(recorded, time.Now())
	base := filepath.Base(path)

	for i := 0; i < maxNameAttempts; i++ {
		name := candidateName(base, i)
		infoPath := filepath.Join(infoDir, name+".trashinfo")

		f, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return err
		}
		_, werr := f.WriteString(info)
		cerr := f.Close()
		if werr != nil || cerr != nil {
			os.Remove(infoPath)
			return errors.Join(werr, cerr)
		}

		if err := os.Rename(path, filepath.Join(filesDir, name)); err != nil {
			os.Remove(infoPath)
			if errors.Is(err, fs.ErrExist) || errors.Is(err, syscall.ENOTEMPTY) {
				continue
			}
			return err
		}
		return nil
	}

	return fmt.Errorf("no free name in %s for %s", trashDir, base)
}

func trashInfo(recorded string, at time.Time) string {
	escaped := (&url.URL{Path: recorded}).EscapedPath()
	return fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n", escaped, at.Format("2006-01-02T15:04:05"))
}
