package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/guard/internal/scenario"
	"github.com/roach88/guard/internal/trace"
)

// RunWithGolden executes a scenario and compares its trace snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// Scenarios used with golden files must pin run_token, otherwise the UUID
// in the snapshot changes every run. Regenerate golden files with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, h *Harness, sc *scenario.Scenario) *Result {
	t.Helper()

	result, err := h.Run(sc)
	if err != nil {
		t.Fatalf("run scenario %s: %v", sc.Name, err)
	}

	AssertGolden(t, sc.Name, result)
	return result
}

// AssertGolden compares an already-obtained result's trace against the
// scenario's golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	data, err := trace.MarshalCanonical(result.Trace)
	if err != nil {
		t.Fatalf("marshal trace for %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
