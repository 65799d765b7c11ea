package store

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL,
    root TEXT NOT NULL,
    restore_log_path TEXT,
    trashed BOOLEAN NOT NULL,
    deleted_count INTEGER NOT NULL,
    skipped_count INTEGER NOT NULL,
    freed_bytes INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_entries (
    run_id INTEGER NOT NULL,
    seq INTEGER NOT NULL,
    kind TEXT NOT NULL,
    path TEXT NOT NULL,
    reason TEXT,
    error_code TEXT,
    PRIMARY KEY (run_id, seq),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`
