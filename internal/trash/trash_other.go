//go:build !unix && !windows

package trash

import (
	"errors"
	"os"
)

func move(path string) error {
	return &os.PathError{Op: "trash", Path: path, Err: errors.ErrUnsupported}
}
