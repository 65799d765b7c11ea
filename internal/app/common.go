package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/modkill/internal/analyzer"
	"github.com/blackwell-systems/modkill/internal/cleaner"
	"github.com/blackwell-systems/modkill/internal/fsutil"
	"github.com/blackwell-systems/modkill/internal/history"
	"github.com/blackwell-systems/modkill/internal/logging"
	"github.com/blackwell-systems/modkill/internal/output"
	"github.com/blackwell-systems/modkill/internal/scanner"
	"github.com/blackwell-systems/modkill/internal/store"
	"github.com/spf13/cobra"
)

// scanAndAnalyze runs the scanner and analyzer with the resolved settings and
// returns the candidates along with the absolute scan root.
func scanAndAnalyze(cmd *cobra.Command) ([]analyzer.AnalyzedModule, string, error) {
	root, err := filepath.Abs(settings.Path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve path %s: %w", settings.Path, err)
	}

	opts := settings.ScanOptions()
	opts.RootPath = root

	var spinner *output.Spinner
	if !settings.JSON {
		spinner = output.NewSpinner(fmt.Sprintf("Scanning %s", root))
		spinner.SetWriter(cmd.ErrOrStderr())
		opts.Progress = spinner
		spinner.Start()
	}

	result, err := scanner.New(logging.Logger).Scan(opts)
	if err != nil {
		if spinner != nil {
			spinner.Stop()
		}
		return nil, "", fmt.Errorf("failed to scan %s: %w", root, err)
	}

	if spinner != nil {
		spinner.UpdateMessage("Analyzing modules...")
	}
	modules := analyzer.New(settings.Scoring).Analyze(result.Modules, settings.AnalyzeOptions())

	if spinner != nil {
		spinner.StopWithMessage(fmt.Sprintf("✓ Scan complete: %d candidate(s)", len(modules)))
		if n := len(result.SkippedNoPermission); n > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %d node_modules skipped (not writable)\n", n)
		}
	}
	for _, p := range result.SkippedNoPermission {
		logging.Debug().Str("path", p).Msg("skipped: no write permission")
	}

	return modules, root, nil
}

// cleanPaths deletes paths with the resolved settings, records the run and
// prints a summary. Failures on individual paths are part of the result, not
// errors.
func cleanPaths(cmd *cobra.Command, root string, paths []string) cleaner.DeleteResult {
	out := cmd.OutOrStdout()

	before := fsutil.TryOrDefault(func() (uint64, error) { return fsutil.FreeBytes(root) }, 0)

	opts := cleaner.Options{
		DryRun:      flagDryRun,
		Permanent:   !settings.UseTrash,
		Concurrency: settings.Concurrency,
	}

	var bar *output.ProgressBar
	if !settings.JSON {
		bar = output.NewProgress(len(paths), "Deleting node_modules")
		bar.SetWriter(cmd.ErrOrStderr())
		opts.Observer = bar
	}

	res := cleaner.New(logging.Logger).Delete(paths, opts)

	if bar != nil {
		bar.Finish()
	}

	if !flagDryRun {
		recordRun(root, res)
	}

	if settings.JSON {
		if err := writeJSON(out, res); err != nil {
			logging.Warn().Err(err).Msg("failed to write result")
		}
		return res
	}

	fmt.Fprint(out, output.RenderDeleteSummary(res))

	after := fsutil.TryOrDefault(func() (uint64, error) { return fsutil.FreeBytes(root) }, 0)
	if before > 0 && after > 0 && !flagDryRun {
		fmt.Fprintln(out, output.RenderFreeSpace(before, after))
	}

	return res
}

// recordRun stores res in the history database. History is best-effort: a
// failure here never fails the deletion that already happened.
func recordRun(root string, res cleaner.DeleteResult) {
	st, err := openStore()
	if err != nil {
		logging.Warn().Err(err).Msg("run not recorded")
		return
	}
	defer st.Close()

	id, err := history.New(st).Record(root, res, settings.UseTrash)
	if err != nil {
		logging.Warn().Err(err).Msg("run not recorded")
		return
	}
	logging.Debug().Int64("run", id).Str("log", res.RestoreLogPath).Msg("recorded run")
}

// openStore opens the history database, creating the schema if needed.
func openStore() (*store.Store, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get database path: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, nil
}

// confirmDeletion prompts the user to confirm deleting count directories.
func confirmDeletion(cmd *cobra.Command, count int) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "Delete %d folders? [y/N]: ", count)

	reader := bufio.NewReader(cmd.InOrStdin())
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
