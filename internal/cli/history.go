package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tinytest-go/tinytest/internal/journal"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled run outcomes",
		Long: `Show group outcomes recorded in the run journal, newest first.

The journal is only written when runs are started with --journal (or
the journal config key), so an empty listing usually means no journaled
runs have happened yet.

Examples:
  tinytest history --journal runs.db
  tinytest history --journal runs.db --limit 5
  tinytest history --config tinytest.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum records to show (0 shows all)")

	return cmd
}

func showHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cfg, err := resolveConfig(cmd, opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if cfg.Journal == "" {
		return NewExitError(ExitCommandError, "no journal configured: set --journal or the journal config key")
	}
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid limit %d: must be zero or positive", opts.Limit))
	}

	jnl, err := journal.Open(cfg.Journal)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer jnl.Close()

	records, err := jnl.Runs(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	w := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	for _, rec := range records {
		verdict := "PASS"
		if !rec.Passed {
			verdict = "FAIL"
		}
		fmt.Fprintf(w, "%s  %s  %s  %q\n", rec.CreatedAt.Format(time.RFC3339), rec.RunID, verdict, rec.Group)
	}

	return nil
}
