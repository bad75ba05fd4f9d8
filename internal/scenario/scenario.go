// Package scenario defines the YAML conformance-scenario format for guard
// teardown behavior.
//
// A scenario describes one lexical block: which guards it declares, which
// variables it mutates after declaration, and how control leaves the block.
// The expect section states the observable outcome - teardown order, values
// seen by live-capturing actions, which actions failed and were suppressed,
// and whether the block's caller saw a return or a panic.
//
//	name: lifo_two_guards
//	description: "Guards fire in reverse declaration order."
//	steps:
//	  - declare: { label: A, action: log }
//	  - declare: { label: B, action: log }
//	exit: normal
//	expect:
//	  teardown: [B, A]
//	  outcome: returned
package scenario

// Exit modes: how control leaves the scenario block.
const (
	// ExitNormal falls through the end of the block.
	ExitNormal = "normal"

	// ExitEarly returns from the block before its normal exit statement
	// (the error-path return).
	ExitEarly = "early"

	// ExitPanic panics out of the block. Guards still fire during the
	// unwind; the panic itself propagates to the block's caller.
	ExitPanic = "panic"
)

// Guard action kinds.
const (
	// ActionLog appends the guard's label to the teardown trace.
	ActionLog = "log"

	// ActionFail panics when fired. The failure must be suppressed at the
	// guard boundary and show up as a suppressed trace event.
	ActionFail = "fail"

	// ActionObserve records the value a named variable holds at fire time,
	// exercising live-capture semantics.
	ActionObserve = "observe"
)

// Outcomes observed by the block's caller.
const (
	OutcomeReturned = "returned"
	OutcomePanicked = "panicked"
)

// Scenario is one conformance test case.
type Scenario struct {
	// Name uniquely identifies the scenario; it names the golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Vars holds initial values of block variables, available to set steps
	// and observe actions.
	Vars map[string]string `yaml:"vars,omitempty"`

	// Steps execute in order inside the block, before the exit.
	Steps []Step `yaml:"steps"`

	// Exit selects how control leaves the block: normal, early, or panic.
	// Empty defaults to normal.
	Exit string `yaml:"exit,omitempty"`

	// Expect states the observable outcome.
	Expect Expectation `yaml:"expect"`

	// RunToken optionally pins the run token for deterministic golden
	// comparison. Empty means the harness generates one.
	RunToken string `yaml:"run_token,omitempty"`
}

// Step is either a guard declaration or a variable mutation. Exactly one
// field is set.
type Step struct {
	Declare *DeclareStep `yaml:"declare,omitempty"`
	Set     *SetStep     `yaml:"set,omitempty"`
}

// DeclareStep declares a guard in the block.
type DeclareStep struct {
	// Label identifies the guard in the trace and in expect.teardown.
	Label string `yaml:"label"`

	// Action is the guard's action kind: log, fail, or observe.
	Action string `yaml:"action"`

	// Var names the variable an observe action reads at fire time.
	// Required for observe, forbidden otherwise.
	Var string `yaml:"var,omitempty"`
}

// SetStep assigns a block variable after declaration. Observe actions
// declared earlier must see the assigned value at fire time.
type SetStep struct {
	Var   string `yaml:"var"`
	Value string `yaml:"value"`
}

// Expectation states what the scenario must observe.
type Expectation struct {
	// Teardown is the exact label order in which guard actions fire.
	Teardown []string `yaml:"teardown"`

	// Observed maps variable names to the values observe actions must see.
	// Subset match over the variables actually observed.
	Observed map[string]string `yaml:"observed,omitempty"`

	// Suppressed lists labels whose actions failed; the failures must be
	// recorded as suppressed and must not reach the caller.
	Suppressed []string `yaml:"suppressed,omitempty"`

	// Outcome is what the block's caller sees: returned or panicked.
	// Empty defaults to returned for normal/early exits and panicked for
	// panic exits.
	Outcome string `yaml:"outcome,omitempty"`
}

// NormalizedExit returns the scenario's exit mode with the default applied.
func (s *Scenario) NormalizedExit() string {
	if s.Exit == "" {
		return ExitNormal
	}
	return s.Exit
}

// NormalizedOutcome returns the expected outcome with the default applied:
// a panic exit panics the caller, everything else returns.
func (s *Scenario) NormalizedOutcome() string {
	if s.Expect.Outcome != "" {
		return s.Expect.Outcome
	}
	if s.NormalizedExit() == ExitPanic {
		return OutcomePanicked
	}
	return OutcomeReturned
}
