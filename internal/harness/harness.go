package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/guard"
	"github.com/roach88/guard/internal/scenario"
	"github.com/roach88/guard/internal/trace"
)

// Harness runs conformance scenarios.
type Harness struct {
	logger *slog.Logger
	tokens RunTokenGenerator
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the harness logger. The default discards everything;
// guard semantics must never depend on logging, so the harness only logs
// step-by-step progress for debugging.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithTokenGenerator replaces the run-token source. Tests use a fixed
// generator for deterministic snapshots.
func WithTokenGenerator(g RunTokenGenerator) Option {
	return func(h *Harness) { h.tokens = g }
}

// New creates a harness. Without options it discards logs and stamps runs
// with UUIDv7 tokens.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tokens: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Result is the outcome of one scenario run.
type Result struct {
	Scenario string         `json:"scenario"`
	RunToken string         `json:"run_token"`
	Pass     bool           `json:"pass"`
	Errors   []string       `json:"errors,omitempty"`
	Trace    trace.Snapshot `json:"trace"`
}

// Run executes a validated scenario and evaluates its expectations.
//
// The returned error covers harness-level problems only (an invalid
// scenario that slipped past validation). Expectation mismatches are not
// errors; they land in Result.Errors with Pass set to false.
func (h *Harness) Run(sc *scenario.Scenario) (*Result, error) {
	if err := scenario.Validate(sc); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	token := sc.RunToken
	if token == "" {
		token = h.tokens.Generate()
	}

	run := newBlockRun(sc)
	h.logger.Info("running scenario", "scenario", sc.Name, "run_token", token)

	outcome := h.execute(sc, run)

	errs := evaluate(sc, run, outcome)
	h.logger.Info("scenario finished",
		"scenario", sc.Name, "pass", len(errs) == 0, "outcome", outcome)

	return &Result{
		Scenario: sc.Name,
		RunToken: token,
		Pass:     len(errs) == 0,
		Errors:   errs,
		Trace:    run.rec.Snapshot(sc.Name, token),
	}, nil
}

// execute plays the scenario's block and reports what the block's caller
// observed. The scope's exit is deferred at declaration, the canonical
// guard pattern, so teardown covers the panic exit mode for real.
func (h *Harness) execute(sc *scenario.Scenario, run *blockRun) (outcome string) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Debug("block panicked", "scenario", sc.Name, "value", fmt.Sprint(r))
			outcome = scenario.OutcomePanicked
		}
	}()

	s := guard.NewScope()
	defer s.Exit()

	for i, step := range sc.Steps {
		switch {
		case step.Declare != nil:
			d := step.Declare
			h.logger.Debug("declare guard", "step", i, "label", d.Label, "action", d.Action)
			run.rec.Record(trace.KindDeclare, d.Label, d.Action)
			s.Defer(run.action(d))
		case step.Set != nil:
			h.logger.Debug("set var", "step", i, "var", step.Set.Var, "value", step.Set.Value)
			run.vars[step.Set.Var] = step.Set.Value
			run.rec.Record(trace.KindMutate, step.Set.Var, step.Set.Value)
		}
	}

	mode := sc.NormalizedExit()
	run.rec.Record(trace.KindExit, "", mode)

	if mode == scenario.ExitEarly {
		// The error-path return: leave before the block's last statement.
		return scenario.OutcomeReturned
	}
	if mode == scenario.ExitPanic {
		panic(fmt.Sprintf("scenario %s: induced block failure", sc.Name))
	}
	return scenario.OutcomeReturned
}

// blockRun accumulates what one block execution observed.
type blockRun struct {
	rec        *trace.Recorder
	vars       map[string]string
	teardown   []string
	suppressed []string
	observed   map[string]string
}

func newBlockRun(sc *scenario.Scenario) *blockRun {
	vars := make(map[string]string, len(sc.Vars))
	for k, v := range sc.Vars {
		vars[k] = v
	}
	return &blockRun{
		rec:      trace.NewRecorder(),
		vars:     vars,
		observed: make(map[string]string),
	}
}

// action builds the guard action for a declare step. Actions close over the
// run's variable table, so observe actions read values at fire time - the
// live-capture semantics the scenarios assert on.
func (b *blockRun) action(d *scenario.DeclareStep) func() {
	label := d.Label
	switch d.Action {
	case scenario.ActionLog:
		return func() {
			b.teardown = append(b.teardown, label)
			b.rec.Record(trace.KindFire, label, "")
		}
	case scenario.ActionFail:
		return func() {
			b.teardown = append(b.teardown, label)
			b.rec.Record(trace.KindFire, label, "")
			defer func() {
				// Runs while the action's own panic unwinds, before the
				// guard discards it. If suppression broke, the panic would
				// escape Scope.Exit and flip the block's outcome.
				b.suppressed = append(b.suppressed, label)
				b.rec.Record(trace.KindSuppressed, label, "induced failure")
			}()
			panic(fmt.Sprintf("induced failure in guard %s", label))
		}
	case scenario.ActionObserve:
		v := d.Var
		return func() {
			value := b.vars[v]
			b.teardown = append(b.teardown, label)
			b.observed[v] = value
			b.rec.Record(trace.KindFire, label, v+"="+value)
		}
	default:
		// Unreachable: Validate rejected the scenario already.
		return nil
	}
}
