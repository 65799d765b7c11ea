package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/modkill/internal/fsutil"
	"github.com/blackwell-systems/modkill/internal/output"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose common issues before cleaning",
	Long: `Runs diagnostic checks on the modkill environment.

Checks:
  • Config file in effect
  • History database exists and is accessible
  • Temp directory is writable (restore logs go there)
  • Scan root exists and free space can be read
  • Deletion mode (trash or permanent)`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Running modkill diagnostics...")
	fmt.Fprintln(out)

	criticalIssues := 0
	warningIssues := 0

	// Check 1: Config file
	if settings.Source != "" {
		fmt.Fprintln(out, "✓ Config file:", settings.Source)
	} else {
		fmt.Fprintln(out, "✓ No config file (using defaults and flags)")
	}

	// Check 2: Database accessible
	st, err := openStore()
	if err != nil {
		fmt.Fprintln(out, "✗ Cannot open history database:", err)
		criticalIssues++
	} else {
		defer st.Close()
		fmt.Fprintln(out, "✓ History database is accessible")

		runs, err := st.CountRuns()
		if err != nil {
			fmt.Fprintln(out, "⚠ Cannot read runs:", err)
			warningIssues++
		} else {
			fmt.Fprintf(out, "✓ %d run(s) recorded\n", runs)
		}
	}

	// Check 3: Restore log directory
	tmp := os.TempDir()
	if fsutil.CanWrite(tmp) {
		fmt.Fprintln(out, "✓ Restore logs writable:", tmp)
	} else {
		fmt.Fprintln(out, "✗ Temp directory not writable:", tmp)
		fmt.Fprintln(out, "  Action: set TMPDIR to a writable directory")
		criticalIssues++
	}

	// Check 4: Scan root and free space
	root, err := filepath.Abs(settings.Path)
	if err == nil {
		_, err = os.Stat(root)
	}
	if err != nil {
		fmt.Fprintln(out, "✗ Scan root not accessible:", err)
		criticalIssues++
	} else if free, err := fsutil.FreeBytes(root); err != nil {
		fmt.Fprintln(out, "⚠ Cannot read free space:", err)
		warningIssues++
	} else {
		fmt.Fprintf(out, "✓ Scan root %s (%s free)\n", root, output.FormatSize(int64(min(free, 1<<62))))
	}

	// Check 5: Deletion mode
	if settings.UseTrash {
		fmt.Fprintln(out, "✓ Deleted directories go to the trash")
	} else {
		fmt.Fprintln(out, "⚠ Permanent deletion is enabled; nothing can be restored from the trash")
		warningIssues++
	}

	fmt.Fprintln(out)
	if criticalIssues == 0 && warningIssues == 0 {
		fmt.Fprintln(out, "✓ All checks passed!")
		return nil
	}

	if criticalIssues > 0 {
		fmt.Fprintf(out, "Found %d critical issue(s) and %d warning(s).\n", criticalIssues, warningIssues)
		return fmt.Errorf("diagnostics failed")
	}

	fmt.Fprintf(out, "Found %d warning(s). modkill will still work.\n", warningIssues)
	return nil
}
