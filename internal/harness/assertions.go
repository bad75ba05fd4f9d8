package harness

import (
	"fmt"
	"slices"
	"sort"

	"github.com/roach88/guard/internal/scenario"
)

// evaluate compares a finished block run against the scenario's expect
// section. Returns all mismatches, not just the first.
func evaluate(sc *scenario.Scenario, run *blockRun, outcome string) []string {
	var errs []string

	if want := sc.NormalizedOutcome(); outcome != want {
		errs = append(errs, fmt.Sprintf("outcome: got %s, want %s", outcome, want))
	}

	if !slices.Equal(run.teardown, sc.Expect.Teardown) {
		errs = append(errs, fmt.Sprintf("teardown order: got %v, want %v",
			run.teardown, sc.Expect.Teardown))
	}

	if !slices.Equal(run.suppressed, sc.Expect.Suppressed) {
		errs = append(errs, fmt.Sprintf("suppressed failures: got %v, want %v",
			run.suppressed, sc.Expect.Suppressed))
	}

	// Subset match: only listed variables are checked, in sorted order so
	// mismatch reporting is deterministic.
	names := make([]string, 0, len(sc.Expect.Observed))
	for name := range sc.Expect.Observed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		want := sc.Expect.Observed[name]
		got, ok := run.observed[name]
		if !ok {
			errs = append(errs, fmt.Sprintf("observed: var %q was never observed", name))
			continue
		}
		if got != want {
			errs = append(errs, fmt.Sprintf("observed: var %q: got %q, want %q", name, got, want))
		}
	}

	return errs
}
