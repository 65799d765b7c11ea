package store

import (
	"time"

	"github.com/blackwell-systems/modkill/internal/restorelog"
)

// Run records one deletion batch.
type Run struct {
	ID             int64     `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	Root           string    `json:"root"`
	RestoreLogPath string    `json:"restoreLogPath"`
	Trashed        bool      `json:"trashed"` // false for permanent deletion
	DeletedCount   int       `json:"deletedCount"`
	SkippedCount   int       `json:"skippedCount"`
	FreedBytes     int64     `json:"freedBytes"`
}

// RunEntry is the outcome of one path in a run.
type RunEntry struct {
	Kind      restorelog.Kind
	Path      string
	Reason    string
	ErrorCode string
}
