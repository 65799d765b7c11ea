package app

import (
	"fmt"

	"github.com/blackwell-systems/modkill/internal/config"
	"github.com/blackwell-systems/modkill/internal/output"
	"github.com/spf13/cobra"
)

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Delete every node_modules that passes the filters",
	Long: `Delete every node_modules directory under the root that passes the age and
size filters, without interactive selection.

Unless --min-age is given (on the command line or in a config file), only
directories untouched for at least 30 days are removed. Directories go to the
trash unless --permanent is set, and a restore log is written for every run.

With --json the candidates are printed and nothing is deleted.`,
	Example: `  # Remove anything older than 30 days
  modkill auto

  # Preview first
  modkill auto --dry-run

  # Permanently remove large, stale directories
  modkill auto --min-age 90 --min-size 500 --permanent`,
	Args: cobra.NoArgs,
	RunE: runAuto,
}

func init() {
	RootCmd.AddCommand(autoCmd)
}

func runAuto(cmd *cobra.Command, args []string) error {
	if !settings.MinAgeSet {
		settings.MinAgeDays = config.DefaultAutoMinAge
	}

	modules, root, err := scanAndAnalyze(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if settings.JSON {
		return writeJSON(out, modules)
	}

	if len(modules) == 0 {
		fmt.Fprintln(out, "Nothing to auto-clean.")
		return nil
	}

	fmt.Fprintln(out, output.RenderTotal(modules))

	paths := make([]string, len(modules))
	for i, m := range modules {
		paths[i] = m.Path
	}

	cleanPaths(cmd, root, paths)
	return nil
}
