package app

import (
	"fmt"

	"github.com/blackwell-systems/modkill/internal/output"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List node_modules that could be removed",
	Long: `Scan the root path for node_modules directories and list them without
deleting anything.

Each row shows the size, age (time since the directory was last modified),
priority score, and the project it belongs to. Directories whose parent has
no package.json are marked as orphans. The total at the bottom is what a
full clean would free.`,
	Example: `  # Everything under the current directory
  modkill scan

  # Old, large directories only
  modkill scan --min-age 60 --min-size 200

  # JSON for scripts, oldest first
  modkill scan --json --sort age`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	RootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	modules, root, err := scanAndAnalyze(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if settings.JSON {
		return writeJSON(out, modules)
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, output.RenderModuleTable(modules, root))
	if len(modules) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, output.RenderTotal(modules))
	}
	return nil
}
