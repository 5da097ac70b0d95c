package cli

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tinytest-go/tinytest"
	"github.com/tinytest-go/tinytest/internal/demo"
	"github.com/tinytest-go/tinytest/internal/journal"
)

// RootOptions holds flags shared by all commands plus the root run
// flags. Config, verbose and journal are persistent so the history
// command sees them too.
type RootOptions struct {
	ConfigFile string
	Verbose    bool
	Journal    string

	Color     string
	Locations bool
	Filter    string
}

// NewRootCommand creates the root command for the tinytest CLI.
// Running it without a subcommand executes the example suite.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tinytest",
		Short: "Tiny test harness",
		Long: `Run the tinytest example suite and report results to the console.

Groups run in order, and every test inside a group runs even when
earlier tests fail. Several example tests fail on purpose so the output
demonstrates each failure report form.

Exit codes:
  0 - All groups passed
  1 - One or more groups failed
  2 - Command error (bad config, bad filter, etc.)

Examples:
  tinytest
  tinytest --filter "string*"
  tinytest --color never --locations=false
  tinytest --journal runs.db --verbose
  tinytest history --journal runs.db --limit 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(cmd, opts)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Journal, "journal", "", "path to SQLite run journal (created if missing)")

	// Run flags
	cmd.Flags().StringVar(&opts.Color, "color", "auto", "color output (auto|always|never)")
	cmd.Flags().BoolVar(&opts.Locations, "locations", true, "report the call site of failed checks")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "run only groups whose name matches the glob pattern")

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid usage", err)
	})

	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// resolveConfig merges defaults, the config file and command-line
// flags, in that order of precedence (flags win).
func resolveConfig(cmd *cobra.Command, opts *RootOptions) (Config, error) {
	cfg := DefaultConfig()

	if opts.ConfigFile != "" {
		loaded, err := LoadConfig(opts.ConfigFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("color") {
		cfg.Color = opts.Color
	}
	if flags.Changed("locations") {
		cfg.Locations = opts.Locations
	}
	if flags.Changed("filter") {
		cfg.Filter = opts.Filter
	}
	if flags.Changed("journal") {
		cfg.Journal = opts.Journal
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.Verbose
	}

	return cfg, nil
}

func runSuite(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	mode, err := parseColorMode(cfg.Color)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid config", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)

	groups, err := selectGroups(demo.Groups(), cfg.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}
	if len(groups) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no groups match filter %q", cfg.Filter))
	}

	runner := tinytest.NewRunner(
		tinytest.WithWriter(cmd.OutOrStdout()),
		tinytest.WithColor(mode),
		tinytest.WithLocations(cfg.Locations),
		tinytest.WithLogger(logger),
	)

	var jnl *journal.Journal
	if cfg.Journal != "" {
		jnl, err = journal.Open(cfg.Journal)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := jnl.Close(); closeErr != nil {
				logger.Error("error closing journal", "error", closeErr)
			}
		}()
	}

	runID := uuid.Must(uuid.NewV7()).String()
	logger.Debug("suite starting", "run_id", runID, "groups", len(groups))

	failed := 0
	for _, g := range groups {
		passed := runner.RunGroup(g)
		if !passed {
			failed++
		}

		if jnl != nil {
			if err := jnl.RecordGroup(cmd.Context(), runID, g.Name(), passed); err != nil {
				return WrapExitError(ExitCommandError, "failed to record run", err)
			}
		}
	}

	logger.Debug("suite finished", "run_id", runID, "failed", failed)

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d groups failed", failed, len(groups)))
	}
	return nil
}

// selectGroups filters groups by a glob pattern over their names.
// An empty pattern keeps every group.
func selectGroups(groups []*tinytest.Group, filter string) ([]*tinytest.Group, error) {
	if filter == "" {
		return groups, nil
	}

	var selected []*tinytest.Group
	for _, g := range groups {
		matched, err := filepath.Match(filter, g.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
		if matched {
			selected = append(selected, g)
		}
	}
	return selected, nil
}

// newLogger builds the diagnostic logger. Logs go to stderr so the
// console report stream stays clean.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
