package cleaner

// Skip reasons recorded for paths that were not removed.
const (
	ReasonDryRun     = "dry-run mode"
	ReasonPermission = "permission denied"
	ReasonBusy       = "file in use"
	ReasonNotFound   = "path not found"
	ReasonUnknown    = "unknown error"
)

// Options controls a deletion batch.
type Options struct {
	// DryRun records every path as skipped without touching the filesystem.
	DryRun bool

	// Permanent removes directories recursively instead of moving them to
	// the trash.
	Permanent bool

	// RestoreLogPath overrides the default temp-directory log location.
	RestoreLogPath string

	// Concurrency is the number of paths removed in parallel. Values <= 1
	// process paths one at a time in input order.
	Concurrency int

	// Observer is notified once per settled path. Nil means no notifications.
	Observer Observer
}

// SkippedPath is a path that was not removed and why.
type SkippedPath struct {
	Path      string `json:"path"`
	Reason    string `json:"reason"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// DeleteResult is the outcome of a deletion batch. Every input path appears in
// exactly one of Deleted or Skipped, in input order.
type DeleteResult struct {
	// Success reports that the batch ran to completion, not that every path
	// was removed.
	Success        bool          `json:"success"`
	FreedBytes     int64         `json:"freedBytes"`
	Deleted        []string      `json:"deleted"`
	Skipped        []SkippedPath `json:"skipped"`
	RestoreLogPath string        `json:"restoreLogPath"`
}

// Observer receives per-path progress. Calls are serialized.
type Observer interface {
	OnSettled(path string, deleted bool, done, total int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(path string, deleted bool, done, total int)

// OnSettled calls f.
func (f ObserverFunc) OnSettled(path string, deleted bool, done, total int) {
	f(path, deleted, done, total)
}

// Remover performs the actual filesystem removal.
type Remover interface {
	Trash(path string) error
	RemoveAll(path string) error
}
