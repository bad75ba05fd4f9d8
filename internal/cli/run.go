package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/guard"
	"github.com/roach88/guard/internal/harness"
	"github.com/roach88/guard/internal/scenario"
	"github.com/roach88/guard/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string // optional SQLite database recording run history

	// Tokens allows overriding the run-token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Tokens harness.RunTokenGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml|dir>...",
		Short: "Run conformance scenarios",
		Long: `Run guard conformance scenarios and report pass/fail per scenario.

Each argument is a scenario YAML file or a directory of them. Scenarios
execute against the real guard package; a failing expectation fails the
scenario and the command exits non-zero.

Example:
  guardcheck run scenarios/
  guardcheck run scenarios/lifo.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record runs in a SQLite database")

	return cmd
}

func runScenarios(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenarios, err := collectScenarios(paths)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenarios", err)
	}
	if len(scenarios) == 0 {
		return NewExitError(ExitCommandError, "no scenarios found")
	}
	formatter.VerboseLog("loaded %d scenario(s)", len(scenarios))

	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	hopts := []harness.Option{harness.WithLogger(logger)}
	if opts.Tokens != nil {
		hopts = append(hopts, harness.WithTokenGenerator(opts.Tokens))
	}
	h := harness.New(hopts...)

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open run database", err)
		}
		defer guard.Closing(st).Run()
		formatter.VerboseLog("recording runs in %s", opts.Database)
	}

	results := make([]*harness.Result, 0, len(scenarios))
	failed := 0
	for _, sc := range scenarios {
		result, err := h.Run(sc)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("scenario %s", sc.Name), err)
		}
		if !result.Pass {
			failed++
		}
		results = append(results, result)

		if st != nil {
			rec := store.RunRecord{
				RunToken: result.RunToken,
				Scenario: result.Scenario,
				Pass:     result.Pass,
				Errors:   result.Errors,
				Events:   result.Trace.Events,
			}
			if err := st.WriteRun(cmd.Context(), rec); err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("record run %s", result.RunToken), err)
			}
		}
	}

	if err := outputRunResults(formatter, results, failed); err != nil {
		return err
	}
	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", failed, len(results)))
	}
	return nil
}

// collectScenarios expands each path into scenarios: directories load every
// *.yaml inside, files load directly.
func collectScenarios(paths []string) ([]*scenario.Scenario, error) {
	var scenarios []*scenario.Scenario
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			loaded, err := scenario.LoadDir(path)
			if err != nil {
				return nil, err
			}
			scenarios = append(scenarios, loaded...)
			continue
		}
		sc, err := scenario.Load(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

func outputRunResults(f *OutputFormatter, results []*harness.Result, failed int) error {
	if f.Format == "json" {
		status := "ok"
		if failed > 0 {
			status = "error"
		}
		return f.JSON(status, results, "")
	}

	for _, r := range results {
		if r.Pass {
			f.Textf("PASS %s (run %s)", r.Scenario, r.RunToken)
			continue
		}
		f.Textf("FAIL %s (run %s)", r.Scenario, r.RunToken)
		for _, msg := range r.Errors {
			f.Textf("  - %s", msg)
		}
	}
	f.Textf("%d scenario(s), %d failed", len(results), failed)
	return nil
}
