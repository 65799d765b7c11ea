package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/blackwell-systems/modkill/internal/history"
	"github.com/blackwell-systems/modkill/internal/output"
	"github.com/blackwell-systems/modkill/internal/store"
	"github.com/spf13/cobra"
)

var (
	restoreFlagLogFile string
	restoreFlagList    bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore [run-id | latest]",
	Short: "Show how to restore directories from a previous run",
	Long: `Read the restore log of a previous run and explain how to get the deleted
directories back.

Trashed directories cannot be restored automatically; this command lists them
and points at the system trash for your platform. Directories deleted with
--permanent can only be recreated by reinstalling dependencies.

Arguments:
  run-id  The numeric ID of a recorded run (see 'modkill restore --list')
  latest  The most recent run (default)

A restore log written elsewhere can be read directly with --log-file.`,
	Example: `  modkill restore                       # latest run
  modkill restore --list                # list recorded runs
  modkill restore 12                    # run ID 12
  modkill restore --log-file /tmp/modkill-restore-1700000000000.log
  modkill restore latest --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().StringVar(&restoreFlagLogFile, "log-file", "", "read this restore log instead of a recorded run")
	restoreCmd.Flags().BoolVar(&restoreFlagList, "list", false, "list recorded runs")

	RootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if restoreFlagLogFile != "" {
		report, err := history.LoadReport(restoreFlagLogFile)
		if err != nil {
			return err
		}
		return printRestoreReport(cmd, report, true)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	mgr := history.New(st)

	if restoreFlagList {
		return listRuns(cmd, mgr, 0)
	}

	arg := "latest"
	if len(args) > 0 {
		arg = args[0]
	}

	var run *store.Run
	if strings.EqualFold(arg, "latest") {
		run, err = mgr.Latest()
		if errors.Is(err, history.ErrNoRuns) {
			return fmt.Errorf("no runs recorded\n\nRuns are recorded each time modkill deletes something.\nUse --log-file to read a restore log directly")
		}
		if err != nil {
			return fmt.Errorf("failed to load latest run: %w", err)
		}
		if !settings.JSON {
			fmt.Fprintf(out, "Using latest run: ID %d\n", run.ID)
		}
	} else {
		id, parseErr := strconv.ParseInt(arg, 10, 64)
		if parseErr != nil {
			return fmt.Errorf("invalid run ID: %s (must be a number or 'latest')", arg)
		}
		run, err = mgr.Get(id)
		if errors.Is(err, store.ErrRunNotFound) {
			return fmt.Errorf("run %d not found\n\nRun 'modkill restore --list' to see recorded runs", id)
		}
		if err != nil {
			return fmt.Errorf("failed to load run %d: %w", id, err)
		}
	}

	entries, err := mgr.Entries(run)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", run.ID, err)
	}

	return printRestoreReport(cmd, history.NewReport(run.RestoreLogPath, entries), run.Trashed)
}

func printRestoreReport(cmd *cobra.Command, report *history.Report, trashed bool) error {
	if settings.JSON {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	fmt.Fprint(cmd.OutOrStdout(), output.RenderRestoreGuidance(report, trashed))
	return nil
}
