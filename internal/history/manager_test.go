package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/modkill/internal/cleaner"
	"github.com/blackwell-systems/modkill/internal/restorelog"
	"github.com/blackwell-systems/modkill/internal/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.CreateSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return New(db)
}

func sampleResult(logPath string) cleaner.DeleteResult {
	return cleaner.DeleteResult{
		Success:    true,
		FreedBytes: 2048,
		Deleted:    []string{"/work/a/node_modules", "/work/c/node_modules"},
		Skipped: []cleaner.SkippedPath{
			{Path: "/work/b/node_modules", Reason: "permission denied", ErrorCode: "EACCES"},
		},
		RestoreLogPath: logPath,
	}
}

func TestRecordAndGet(t *testing.T) {
	m := newTestManager(t)

	id, err := m.Record("/work", sampleResult("/tmp/x.log"), true)
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	run, err := m.Get(id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if run.Root != "/work" {
		t.Errorf("Root = %q, want /work", run.Root)
	}
	if run.DeletedCount != 2 || run.SkippedCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", run.DeletedCount, run.SkippedCount)
	}
	if run.FreedBytes != 2048 {
		t.Errorf("FreedBytes = %d, want 2048", run.FreedBytes)
	}
	if !run.Trashed {
		t.Error("Trashed should be true")
	}
}

func TestLatest_NoRuns(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Latest()
	if !errors.Is(err, ErrNoRuns) {
		t.Errorf("Latest() error = %v, want ErrNoRuns", err)
	}
}

func TestLatest(t *testing.T) {
	m := newTestManager(t)

	m.Record("/first", sampleResult(""), true)
	m.Record("/second", sampleResult(""), false)

	run, err := m.Latest()
	if err != nil {
		t.Fatalf("Latest() failed: %v", err)
	}
	if run.Root != "/second" {
		t.Errorf("Latest().Root = %q, want /second", run.Root)
	}
	if run.Trashed {
		t.Error("second run was permanent")
	}
}

func TestEntries_PrefersLogFile(t *testing.T) {
	m := newTestManager(t)
	logPath := filepath.Join(t.TempDir(), "restore.log")

	onDisk := []restorelog.Entry{restorelog.Deleted("/from/log/node_modules")}
	if err := restorelog.Write(logPath, onDisk); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	id, _ := m.Record("/work", sampleResult(logPath), true)
	run, _ := m.Get(id)

	entries, err := m.Entries(run)
	if err != nil {
		t.Fatalf("Entries() failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "/from/log/node_modules" {
		t.Errorf("Entries() = %+v, want the log file contents", entries)
	}
}

func TestEntries_FallsBackToDatabase(t *testing.T) {
	m := newTestManager(t)
	logPath := filepath.Join(t.TempDir(), "gone.log")

	id, _ := m.Record("/work", sampleResult(logPath), true)
	run, _ := m.Get(id)

	entries, err := m.Entries(run)
	if err != nil {
		t.Fatalf("Entries() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	deleted, skipped := restorelog.Count(entries)
	if deleted != 2 || skipped != 1 {
		t.Errorf("Count = %d/%d, want 2/1", deleted, skipped)
	}
	if entries[2].Reason != "permission denied" {
		t.Errorf("skipped reason = %q", entries[2].Reason)
	}
}

func TestEntries_MalformedLogFallsBackToDatabase(t *testing.T) {
	m := newTestManager(t)
	logPath := filepath.Join(t.TempDir(), "restore.log")
	if err := os.WriteFile(logPath, []byte("MOVED\t/x/node_modules\n"), 0644); err != nil {
		t.Fatalf("failed to write log: %v", err)
	}

	id, _ := m.Record("/work", sampleResult(logPath), true)
	run, _ := m.Get(id)

	entries, err := m.Entries(run)
	if err != nil {
		t.Fatalf("Entries() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want the 3 stored rows", len(entries))
	}
}

func TestPrune(t *testing.T) {
	m := newTestManager(t)
	dir := t.TempDir()

	var logs []string
	for i := 0; i < 4; i++ {
		logPath := filepath.Join(dir, "run"+string(rune('a'+i))+".log")
		if err := os.WriteFile(logPath, []byte("DELETED\t/x\n"), 0644); err != nil {
			t.Fatal(err)
		}
		logs = append(logs, logPath)
		if _, err := m.Record("/work", sampleResult(logPath), true); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}

	removed, err := m.Prune(1)
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("Prune() removed %d, want 3", removed)
	}

	runs, _ := m.List(0)
	if len(runs) != 1 || runs[0].RestoreLogPath != logs[3] {
		t.Errorf("remaining runs = %+v, want only the newest", runs)
	}

	for _, p := range logs[:3] {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("log %s should have been removed", p)
		}
	}
	if _, err := os.Stat(logs[3]); err != nil {
		t.Errorf("newest log should remain: %v", err)
	}
}

func TestPrune_NothingToDo(t *testing.T) {
	m := newTestManager(t)
	m.Record("/work", sampleResult(""), true)

	removed, err := m.Prune(5)
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("Prune() removed %d, want 0", removed)
	}
}
