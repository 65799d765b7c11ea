package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/modkill/internal/config"
	"github.com/blackwell-systems/modkill/internal/logging"
	"github.com/blackwell-systems/modkill/internal/output"
	"github.com/blackwell-systems/modkill/internal/selector"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

var (
	dbPath     string
	configPath string

	flagPath           string
	flagDepth          int
	flagExclude        []string
	flagMinAge         float64
	flagMinSize        float64
	flagSort           string
	flagJSON           bool
	flagYes            bool
	flagVerbose        bool
	flagDryRun         bool
	flagFollowSymlinks bool
	flagPermanent      bool
	flagSkipOrphans    bool
	flagConcurrency    int

	// settings is resolved once per invocation in PersistentPreRunE.
	settings config.Settings

	// RootCmd is the root command for modkill
	RootCmd = &cobra.Command{
		Use:   "modkill",
		Short: "Find and remove node_modules to free disk space safely",
		Long: `modkill finds node_modules directories under a root, ranks them by age
and size, and removes the ones you pick. Removal goes to the system trash by
default and every batch writes a restore log listing what happened to each path.

Run without a subcommand to pick directories interactively.

Quick Start:
  1. modkill scan              # see what would be freed
  2. modkill                   # pick and delete
  3. modkill restore latest    # where did it go?

Configuration:
  Settings are read from .modkillrc (or .modkillrc.json) in the scan root or
  any parent, then ~/.config/modkill/config.json. Flags override the file.`,
		Example: `  # Interactive selection under ~/code
  modkill --path ~/code

  # Preview everything older than 90 days and larger than 100 MB
  modkill scan --min-age 90 --min-size 100

  # Delete everything untouched for 30+ days without prompting
  modkill auto --yes

  # Clean only ./node_modules
  modkill current

  # Machine-readable listing
  modkill scan --json --sort age`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: resolveSettings,
		RunE:              runInteractive,
	}
)

func init() {
	pf := RootCmd.PersistentFlags()

	pf.StringVar(&dbPath, "db", "", "database path (default: ~/.modkill/modkill.db)")
	pf.StringVar(&configPath, "config", "", "config file (default: nearest .modkillrc, then ~/.config/modkill/config.json)")

	pf.StringVarP(&flagPath, "path", "p", "", "root path to scan (default: current directory)")
	pf.IntVar(&flagDepth, "depth", 6, "maximum scan depth")
	pf.StringSliceVar(&flagExclude, "exclude", nil, "extra directory name patterns to skip (repeatable)")
	pf.Float64Var(&flagMinAge, "min-age", 0, "minimum age in days")
	pf.Float64Var(&flagMinSize, "min-size", 0, "minimum size in MB")
	pf.StringVar(&flagSort, "sort", "size", "sort by size|age|name|path")
	pf.BoolVar(&flagJSON, "json", false, "output JSON for scripting")
	pf.BoolVarP(&flagYes, "yes", "y", false, "assume yes for prompts")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "verbose diagnostics on stderr")
	pf.BoolVar(&flagDryRun, "dry-run", false, "preview without deleting")
	pf.BoolVar(&flagFollowSymlinks, "follow-symlinks", false, "traverse symlinked directories")
	pf.BoolVar(&flagPermanent, "permanent", false, "delete permanently instead of moving to the trash")
	pf.BoolVar(&flagSkipOrphans, "skip-orphans", false, "ignore node_modules without a package.json next to them")
	pf.IntVar(&flagConcurrency, "concurrency", 1, "number of directories deleted in parallel")

	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// resolveSettings merges defaults, the config file and explicitly set flags.
func resolveSettings(cmd *cobra.Command, args []string) error {
	flags := flagLayer(cmd)
	if err := flags.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	file, source, err := loadConfigFile(cmd)
	if err != nil {
		return err
	}

	settings = config.Resolve(config.Defaults(), file, flags)
	settings.Source = source

	if settings.Verbose {
		logging.SetDebugMode()
	}
	if source != "" {
		logging.Debug().Str("file", source).Msg("loaded config")
	}
	return nil
}

// flagLayer returns a config layer holding only the flags the user set.
func flagLayer(cmd *cobra.Command) *config.Layer {
	f := cmd.Flags()
	l := &config.Layer{}

	if f.Changed("path") {
		l.Path = ptr(flagPath)
	}
	if f.Changed("depth") {
		l.Depth = ptr(flagDepth)
	}
	if f.Changed("exclude") {
		l.Exclude = append([]string(nil), flagExclude...)
	}
	if f.Changed("min-age") {
		l.MinAge = ptr(flagMinAge)
	}
	if f.Changed("min-size") {
		l.MinSize = ptr(flagMinSize)
	}
	if f.Changed("sort") {
		l.Sort = ptr(flagSort)
	}
	if f.Changed("json") {
		l.JSON = ptr(flagJSON)
	}
	if f.Changed("yes") {
		l.Yes = ptr(flagYes)
	}
	if f.Changed("verbose") {
		l.Verbose = ptr(flagVerbose)
	}
	if f.Changed("follow-symlinks") {
		l.FollowSymlinks = ptr(flagFollowSymlinks)
	}
	if f.Changed("permanent") {
		l.UseTrash = ptr(!flagPermanent)
	}
	if f.Changed("skip-orphans") {
		l.IncludeOrphans = ptr(!flagSkipOrphans)
	}
	if f.Changed("concurrency") {
		l.Concurrency = ptr(flagConcurrency)
	}

	return l
}

// loadConfigFile loads --config, or the nearest config file above the scan
// root. A missing file is not an error.
func loadConfigFile(cmd *cobra.Command) (*config.Layer, string, error) {
	path := configPath
	if path == "" {
		start := "."
		if cmd.Flags().Changed("path") && flagPath != "" {
			start = flagPath
		}
		path = config.FindFile(start)
	}
	if path == "" {
		return nil, "", nil
	}

	layer, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return layer, path, nil
}

// runInteractive scans, lets the user pick directories, then deletes them.
func runInteractive(cmd *cobra.Command, args []string) error {
	modules, root, err := scanAndAnalyze(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if settings.JSON {
		return writeJSON(out, modules)
	}

	if len(modules) == 0 {
		fmt.Fprintln(out, "No node_modules found matching criteria.")
		return nil
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return errors.New("interactive selection needs a terminal\n\nUse 'modkill scan' to list candidates or 'modkill auto --yes' to delete without prompting")
	}

	selected, err := selector.Run(modules, root)
	if errors.Is(err, selector.ErrCancelled) {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run selector: %w", err)
	}
	if len(selected) == 0 {
		fmt.Fprintln(out, "Nothing selected.")
		return nil
	}

	sizes := make(map[string]int64, len(modules))
	for _, m := range modules {
		sizes[m.Path] = m.SizeBytes
	}
	var total int64
	for _, p := range selected {
		total += sizes[p]
	}
	fmt.Fprintf(out, "Total to free: %s\n", output.FormatSize(total))

	if !settings.Yes && !confirmDeletion(cmd, len(selected)) {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	cleanPaths(cmd, root, selected)
	return nil
}

// getDBPath returns the database path, using the flag value or default
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	modkillDir := filepath.Join(home, ".modkill")
	if err := os.MkdirAll(modkillDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create modkill directory: %w", err)
	}

	return filepath.Join(modkillDir, "modkill.db"), nil
}

func ptr[T any](v T) *T {
	return &v
}
