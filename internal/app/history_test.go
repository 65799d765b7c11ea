package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/modkill/internal/restorelog"
	"github.com/blackwell-systems/modkill/internal/store"
)

func TestHistoryCommand(t *testing.T) {
	if historyCmd.Use != "history" {
		t.Errorf("historyCmd.Use = %q, want %q", historyCmd.Use, "history")
	}
	if historyCmd.RunE == nil {
		t.Error("historyCmd.RunE is nil")
	}

	for name, def := range map[string]string{"limit": "20", "prune": "-1"} {
		flag := historyCmd.Flags().Lookup(name)
		if flag == nil {
			t.Errorf("flag %q not found", name)
			continue
		}
		if flag.DefValue != def {
			t.Errorf("flag %q default = %q, want %q", name, flag.DefValue, def)
		}
	}
}

// seedRuns records n runs, oldest first, each with its own restore log.
func seedRuns(t *testing.T, db string, n int) []string {
	t.Helper()

	st, err := store.Open(db)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	dir := t.TempDir()
	logs := make([]string, n)
	base := time.Now().Add(-time.Duration(n) * time.Hour)

	for i := 0; i < n; i++ {
		path := filepath.Join("/home/u", "p"+string(rune('a'+i)), "node_modules")
		logs[i] = filepath.Join(dir, "run"+string(rune('a'+i))+".log")
		if err := restorelog.Write(logs[i], []restorelog.Entry{restorelog.Deleted(path)}); err != nil {
			t.Fatal(err)
		}

		run := &store.Run{
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
			Root:           "/home/u",
			RestoreLogPath: logs[i],
			Trashed:        true,
			DeletedCount:   1,
			FreedBytes:     1 << 20,
		}
		if _, err := st.InsertRun(run, []store.RunEntry{{Kind: restorelog.KindDeleted, Path: path}}); err != nil {
			t.Fatalf("failed to insert run: %v", err)
		}
	}
	return logs
}

func TestHistory_Empty(t *testing.T) {
	_, db := isolate(t)

	out, err := execute(t, "history", "--db", db)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "No runs recorded.") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = execute(t, "history", "--json", "--db", db)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("expected empty JSON array, got %q", out)
	}
}

func TestHistory_Table(t *testing.T) {
	_, db := isolate(t)
	seedRuns(t, db, 2)

	out, err := execute(t, "history", "--db", db)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	for _, want := range []string{"ID", "trash", "/home/u", "modkill restore <id>"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestHistory_JSONNewestFirst(t *testing.T) {
	_, db := isolate(t)
	seedRuns(t, db, 3)

	out, err := execute(t, "history", "--json", "--db", db, "--limit", "2")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}

	var runs []store.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID <= runs[1].ID {
		t.Errorf("expected newest first, got IDs %d, %d", runs[0].ID, runs[1].ID)
	}
}

func TestHistory_Prune(t *testing.T) {
	_, db := isolate(t)
	logs := seedRuns(t, db, 3)

	out, err := execute(t, "history", "--db", db, "--prune", "1")
	if err != nil {
		t.Fatalf("history --prune failed: %v", err)
	}
	if !strings.Contains(out, "Pruned 2 run(s).") {
		t.Errorf("unexpected output:\n%s", out)
	}

	for _, path := range logs[:2] {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("expected pruned log %s to be removed", path)
		}
	}
	if _, err := os.Stat(logs[2]); err != nil {
		t.Errorf("expected newest log to survive: %v", err)
	}

	st, err := store.Open(db)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()
	if n, _ := st.CountRuns(); n != 1 {
		t.Errorf("CountRuns() = %d, want 1", n)
	}
}

func TestHistory_PruneNegative(t *testing.T) {
	_, db := isolate(t)

	_, err := execute(t, "history", "--db", db, "--prune", "-2")
	if err == nil || !strings.Contains(err.Error(), "non-negative") {
		t.Errorf("expected validation error, got %v", err)
	}
}
