package app

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/modkill/internal/analyzer"
)

func TestScanCommand(t *testing.T) {
	if scanCmd.Use != "scan" {
		t.Errorf("scanCmd.Use = %q, want %q", scanCmd.Use, "scan")
	}
	if scanCmd.Short == "" {
		t.Error("scanCmd.Short is empty")
	}
	if scanCmd.RunE == nil {
		t.Error("scanCmd.RunE is nil")
	}
}

func TestScanJSON(t *testing.T) {
	root, db := isolate(t)
	small := makeProject(t, root, "small", 100, 0)
	big := makeProject(t, root, "big", 5000, 90)

	out, err := execute(t, "scan", "--json", "--db", db, "--path", root)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	var modules []analyzer.AnalyzedModule
	if err := json.Unmarshal([]byte(out), &modules); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	if len(modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(modules))
	}
	if modules[0].Path != big || modules[1].Path != small {
		t.Errorf("expected largest first, got %s, %s", modules[0].Path, modules[1].Path)
	}
	if !modules[0].HasPackageJson {
		t.Error("expected hasPackageJson to be true")
	}
	if modules[0].AgeDays < 89 {
		t.Errorf("AgeDays = %v, want about 90", modules[0].AgeDays)
	}
	if modules[0].SizeBytes < 5000 {
		t.Errorf("SizeBytes = %d, want at least 5000", modules[0].SizeBytes)
	}
}

func TestScanJSON_Filters(t *testing.T) {
	root, db := isolate(t)
	makeProject(t, root, "fresh", 100, 0)
	old := makeProject(t, root, "old", 100, 60)

	out, err := execute(t, "scan", "--json", "--db", db, "--path", root, "--min-age", "30")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	var modules []analyzer.AnalyzedModule
	if err := json.Unmarshal([]byte(out), &modules); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(modules) != 1 || modules[0].Path != old {
		t.Errorf("expected only %s, got %+v", old, modules)
	}
}

func TestScanJSON_Exclude(t *testing.T) {
	root, db := isolate(t)
	makeProject(t, filepath.Join(root, "vendor"), "lib", 100, 0)
	app := makeProject(t, root, "app", 100, 0)

	out, err := execute(t, "scan", "--json", "--db", db, "--path", root, "--exclude", "vendor")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	var modules []analyzer.AnalyzedModule
	if err := json.Unmarshal([]byte(out), &modules); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(modules) != 1 || modules[0].Path != app {
		t.Errorf("expected only %s, got %+v", app, modules)
	}
}

func TestScanJSON_DepthZero(t *testing.T) {
	root, db := isolate(t)
	app := makeProject(t, root, "app", 100, 0)
	project := filepath.Dir(app)

	out, err := execute(t, "scan", "--json", "--db", db, "--path", project, "--depth", "0")
	if err != nil {
		t.Fatalf("scan --depth 0 failed: %v", err)
	}
	var modules []analyzer.AnalyzedModule
	if err := json.Unmarshal([]byte(out), &modules); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(modules) != 1 || modules[0].Path != app {
		t.Errorf("expected only %s, got %+v", app, modules)
	}

	out, err = execute(t, "scan", "--json", "--db", db, "--path", root, "--depth", "0")
	if err != nil {
		t.Fatalf("scan --depth 0 failed: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("expected nothing below depth 0, got %q", out)
	}
}

func TestScanJSON_Empty(t *testing.T) {
	root, db := isolate(t)

	out, err := execute(t, "scan", "--json", "--db", db, "--path", root)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("expected empty JSON array, got %q", out)
	}
}

func TestScanTable(t *testing.T) {
	root, db := isolate(t)
	makeProject(t, root, "app", 100, 0)

	out, err := execute(t, "scan", "--db", db, "--path", root)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	for _, want := range []string{"Size", "app", "Total potential to free", "(1 module)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestScanMissingRoot(t *testing.T) {
	root, db := isolate(t)

	_, err := execute(t, "scan", "--json", "--db", db, "--path", filepath.Join(root, "missing"))
	if err == nil || !strings.Contains(err.Error(), "failed to scan") {
		t.Errorf("expected scan error, got %v", err)
	}
}
