package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/guard"
	"github.com/roach88/guard/internal/store"
	"github.com/roach88/guard/internal/trace"
)

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	var database string

	cmd := &cobra.Command{
		Use:   "trace <run-token>",
		Short: "Print the stored trace of a recorded run",
		Long: `Print the teardown trace of a run recorded with 'guardcheck run --db'.

The trace is emitted in the same canonical serialization used for golden
files, so stored and live traces diff cleanly.

Example:
  guardcheck trace run-scenario-a --db runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(rootOpts, database, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&database, "db", "", "path to SQLite run database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTrace(opts *RootOptions, database, runToken string, cmd *cobra.Command) error {
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

	snap, err := st.ReadTrace(cmd.Context(), runToken)
	if errors.Is(err, store.ErrRunNotFound) {
		return WrapExitError(ExitFailure, "run not recorded", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read trace", err)
	}

	if formatter.Format == "json" {
		return formatter.JSON("ok", snap, "")
	}

	data, err := trace.MarshalCanonical(snap)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to serialize trace", err)
	}
	_, err = formatter.Writer.Write(data)
	return err
}
