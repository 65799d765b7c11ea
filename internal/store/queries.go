package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/blackwell-systems/modkill/internal/restorelog"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// InsertRun stores a run and its entries in one transaction and returns the
// new run id. A zero CreatedAt is set to the current time.
func (s *Store) InsertRun(run *Run, entries []RunEntry) (int64, error) {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO runs (created_at, root, restore_log_path, trashed, deleted_count, skipped_count, freed_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		createdAt.Format(time.RFC3339),
		run.Root,
		run.RestoreLogPath,
		run.Trashed,
		run.DeletedCount,
		run.SkippedCount,
		run.FreedBytes,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_entries (run_id, seq, kind, path, reason, error_code)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.Exec(id, i, string(e.Kind), e.Path, e.Reason, e.ErrorCode); err != nil {
			return 0, fmt.Errorf("failed to insert entry %s: %w", e.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	run.ID = id
	run.CreatedAt = createdAt
	return id, nil
}

const runColumns = `id, created_at, root, restore_log_path, trashed, deleted_count, skipped_count, freed_bytes`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var createdAt string
	var logPath sql.NullString

	err := row.Scan(
		&run.ID,
		&createdAt,
		&run.Root,
		&logPath,
		&run.Trashed,
		&run.DeletedCount,
		&run.SkippedCount,
		&run.FreedBytes,
	)
	if err != nil {
		return nil, err
	}
	run.RestoreLogPath = logPath.String

	run.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for run %d: %w", run.ID, err)
	}

	return &run, nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id int64) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %d: %w", id, err)
	}
	return run, nil
}

// LatestRun returns the most recently recorded run.
func (s *Store) LatestRun() (*Run, error) {
	row := s.db.QueryRow(`SELECT ` + runColumns + ` FROM runs ORDER BY id DESC LIMIT 1`)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs newest first. A limit <= 0 returns every run.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetRunEntries returns a run's entries in insertion order.
func (s *Store) GetRunEntries(runID int64) ([]RunEntry, error) {
	rows, err := s.db.Query(`
		SELECT kind, path, reason, error_code
		FROM run_entries
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run entries: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var kind string
		var reason, code sql.NullString

		if err := rows.Scan(&kind, &e.Path, &reason, &code); err != nil {
			return nil, fmt.Errorf("failed to scan run entry row: %w", err)
		}
		e.Kind = restorelog.Kind(kind)
		e.Reason = reason.String
		e.ErrorCode = code.String
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run entries: %w", err)
	}

	return entries, nil
}

// DeleteRun removes a run and its entries.
func (s *Store) DeleteRun(id int64) error {
	result, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}

	return nil
}

// CountRuns returns the number of recorded runs.
func (s *Store) CountRuns() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}
