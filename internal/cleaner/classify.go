package cleaner

import (
	"errors"
	"io/fs"
)

// classify maps a removal error to a human-readable skip reason.
func classify(err error) string {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return ReasonPermission
	case isBusy(err):
		return ReasonBusy
	case errors.Is(err, fs.ErrNotExist):
		return ReasonNotFound
	default:
		return ReasonUnknown
	}
}
