// Package history records deletion runs and reads them back for the restore
// and history commands.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/blackwell-systems/modkill/internal/cleaner"
	"github.com/blackwell-systems/modkill/internal/restorelog"
	"github.com/blackwell-systems/modkill/internal/store"
)

// ErrNoRuns is returned by Latest when nothing has been recorded yet.
var ErrNoRuns = errors.New("no runs recorded")

// Manager records and loads runs.
type Manager struct {
	store *store.Store
}

// New creates a new history Manager.
func New(store *store.Store) *Manager {
	return &Manager{store: store}
}

// Record stores the outcome of a deletion batch and returns the run ID.
func (m *Manager) Record(root string, res cleaner.DeleteResult, trashed bool) (int64, error) {
	entries := make([]store.RunEntry, 0, len(res.Deleted)+len(res.Skipped))
	for _, p := range res.Deleted {
		entries = append(entries, store.RunEntry{Kind: restorelog.KindDeleted, Path: p})
	}
	for _, s := range res.Skipped {
		entries = append(entries, store.RunEntry{
			Kind:      restorelog.KindSkipped,
			Path:      s.Path,
			Reason:    s.Reason,
			ErrorCode: s.ErrorCode,
		})
	}

	run := &store.Run{
		Root:           root,
		RestoreLogPath: res.RestoreLogPath,
		Trashed:        trashed,
		DeletedCount:   len(res.Deleted),
		SkippedCount:   len(res.Skipped),
		FreedBytes:     res.FreedBytes,
	}

	id, err := m.store.InsertRun(run, entries)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all.
func (m *Manager) List(limit int) ([]*store.Run, error) {
	runs, err := m.store.ListRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with the given ID.
func (m *Manager) Get(id int64) (*store.Run, error) {
	return m.store.GetRun(id)
}

// Latest returns the most recent run, or ErrNoRuns.
func (m *Manager) Latest() (*store.Run, error) {
	run, err := m.store.LatestRun()
	if errors.Is(err, store.ErrRunNotFound) {
		return nil, ErrNoRuns
	}
	return run, err
}

// Entries returns a run's outcomes. The restore log on disk is preferred;
// if it has been removed or cannot be parsed the copy kept in the database is
// used instead.
func (m *Manager) Entries(run *store.Run) ([]restorelog.Entry, error) {
	if run.RestoreLogPath != "" {
		entries, err := restorelog.Read(run.RestoreLogPath)
		if err == nil {
			return entries, nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, restorelog.ErrMalformed) {
			return nil, err
		}
	}

	stored, err := m.store.GetRunEntries(run.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]restorelog.Entry, 0, len(stored))
	for _, e := range stored {
		entries = append(entries, restorelog.Entry{Kind: e.Kind, Path: e.Path, Reason: e.Reason})
	}
	return entries, nil
}

// Prune keeps the newest keep runs and deletes the rest together with their
// restore logs. It returns the number of runs removed.
func (m *Manager) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	runs, err := m.store.ListRuns(0)
	if err != nil {
		return 0, fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) <= keep {
		return 0, nil
	}

	removed := 0
	for _, run := range runs[keep:] {
		if run.RestoreLogPath != "" {
			if err := os.Remove(run.RestoreLogPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return removed, fmt.Errorf("failed to delete restore log %s: %w", run.RestoreLogPath, err)
			}
		}
		if err := m.store.DeleteRun(run.ID); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}
