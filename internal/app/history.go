package app

import (
	"fmt"

	"github.com/blackwell-systems/modkill/internal/history"
	"github.com/blackwell-systems/modkill/internal/output"
	"github.com/blackwell-systems/modkill/internal/store"
	"github.com/spf13/cobra"
)

var (
	historyFlagLimit int
	historyFlagPrune int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded deletion runs",
	Long: `List previous deletion runs, newest first, with how many directories each
run removed or skipped and how much space it freed.

Use --prune N to keep only the N newest runs. Pruning also deletes the
restore logs of the removed runs.`,
	Example: `  modkill history
  modkill history --limit 5
  modkill history --prune 10`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyFlagLimit, "limit", 20, "number of runs to show (0 for all)")
	historyCmd.Flags().IntVar(&historyFlagPrune, "prune", -1, "keep only the newest N runs")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	mgr := history.New(st)

	if cmd.Flags().Changed("prune") {
		if historyFlagPrune < 0 {
			return fmt.Errorf("--prune must be a non-negative number")
		}
		removed, err := mgr.Prune(historyFlagPrune)
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
		if !settings.JSON {
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d run(s).\n", removed)
		}
	}

	return listRuns(cmd, mgr, historyFlagLimit)
}

// listRuns prints up to limit recorded runs.
func listRuns(cmd *cobra.Command, mgr *history.Manager, limit int) error {
	runs, err := mgr.List(limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if settings.JSON {
		if runs == nil {
			runs = []*store.Run{}
		}
		return writeJSON(out, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		fmt.Fprintln(out, "\nRuns are recorded each time modkill deletes something.")
		return nil
	}

	fmt.Fprint(out, output.RenderRunTable(runs))
	fmt.Fprintln(out, "\nShow restore steps with: modkill restore <id>")
	return nil
}
