package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/guard"
	"github.com/roach88/guard/internal/store"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var database string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conformance runs",
		Long: `List runs recorded with 'guardcheck run --db', most recent first.

Example:
  guardcheck history --db runs.db
  guardcheck history --db runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, database, cmd)
		},
	}

	cmd.Flags().StringVar(&database, "db", "", "path to SQLite run database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *RootOptions, database string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open run database", err)
	}
	defer guard.Closing(st).Run()

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if formatter.Format == "json" {
		return formatter.JSON("ok", runs, "")
	}

	if len(runs) == 0 {
		formatter.Textf("no recorded runs")
		return nil
	}
	for _, r := range runs {
		status := "PASS"
		if !r.Pass {
			status = "FAIL"
		}
		formatter.Textf("%s %s %s", status, r.RunToken, r.Scenario)
		for _, msg := range r.Errors {
			formatter.Textf("  - %s", msg)
		}
	}
	return nil
}
