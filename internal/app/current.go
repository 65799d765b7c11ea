package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/modkill/internal/fsutil"
	"github.com/blackwell-systems/modkill/internal/output"
	"github.com/blackwell-systems/modkill/internal/scanner"
	"github.com/spf13/cobra"
)

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Delete ./node_modules in the working directory",
	Long: `Delete the node_modules directory of the current working directory only.
No scan is performed; filters and --path are ignored.

With --json the target path is printed and nothing is deleted.`,
	Example: `  modkill current
  modkill current --dry-run
  modkill current --permanent --yes`,
	Args: cobra.NoArgs,
	RunE: runCurrent,
}

func init() {
	RootCmd.AddCommand(currentCmd)
}

func runCurrent(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	out := cmd.OutOrStdout()
	target := filepath.Join(cwd, scanner.ModuleName)

	info, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		fmt.Fprintln(out, "No node_modules in current directory.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", target, err)
	}

	if settings.JSON {
		return writeJSON(out, map[string]string{"path": target})
	}

	size := fsutil.DirSize(target)
	fmt.Fprintf(out, "%s (%s)\n", target, output.FormatSize(size))

	if !settings.Yes && !flagDryRun && !confirmDeletion(cmd, 1) {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	cleanPaths(cmd, cwd, []string{target})
	return nil
}
