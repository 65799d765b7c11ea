// Package restorelog reads and writes the restore log: the audit file
// recording the outcome of every path in a deletion batch.
//
// Wire format, one line per path, UTF-8, newline-delimited:
//
//	DELETED<TAB>/abs/path
//	SKIPPED<TAB>/abs/path<TAB>(reason)
//
// There is no header or trailer.
package restorelog

import (
	"errors"
	"fmt"
	"strings"
)

// Kind tags a log entry.
type Kind string

const (
	KindDeleted Kind = "DELETED"
	KindSkipped Kind = "SKIPPED"
)

// ErrMalformed is wrapped by every parse failure.
var ErrMalformed = errors.New("malformed restore log line")

// Entry is one processed path. Reason is set only for KindSkipped.
type Entry struct {
	Kind   Kind   `json:"type"`
	Path   string `json:"path"`
	Reason string `json:"reason,omitempty"`
}

// Deleted returns an entry for a removed path.
func Deleted(path string) Entry {
	return Entry{Kind: KindDeleted, Path: path}
}

// Skipped returns an entry for a path that was left in place.
func Skipped(path, reason string) Entry {
	return Entry{Kind: KindSkipped, Path: path, Reason: reason}
}

// String renders e as a single log line without the trailing newline.
func (e Entry) String() string {
	if e.Kind == KindSkipped {
		return fmt.Sprintf("%s\t%s\t(%s)", e.Kind, e.Path, e.Reason)
	}
	return fmt.Sprintf("%s\t%s", e.Kind, e.Path)
}

// ParseLine decodes a single log line. The type ends at the first tab. A
// DELETED path is the rest of the line, so paths may contain tabs. A SKIPPED
// reason is taken from the last tab-separated field only when it is wrapped in
// parentheses.
func ParseLine(line string) (Entry, error) {
	line = strings.TrimSuffix(line, "\r")
	kind, rest, ok := strings.Cut(line, "\t")
	if !ok || rest == "" {
		return Entry{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}

	e := Entry{Kind: Kind(kind), Path: rest}
	switch e.Kind {
	case KindDeleted:
	case KindSkipped:
		if i := strings.LastIndexByte(rest, '\t'); i > 0 {
			if field := rest[i+1:]; len(field) >= 2 && field[0] == '(' && field[len(field)-1] == ')' {
				e.Path = rest[:i]
				e.Reason = field[1 : len(field)-1]
			}
		}
	default:
		return Entry{}, fmt.Errorf("%w: unknown type %q", ErrMalformed, kind)
	}

	return e, nil
}
