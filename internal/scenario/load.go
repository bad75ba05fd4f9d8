package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a scenario YAML file.
// Returns an error if the file is missing, malformed, contains unknown
// fields (typos), or fails structural validation.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes scenario YAML with strict field checking and validates it.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields (catches "teardwon:" typos)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := Validate(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// LoadDir loads every *.yaml scenario under dir, sorted by filename for
// deterministic ordering.
func LoadDir(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios in %s: %w", dir, err)
	}
	sort.Strings(matches)

	scenarios := make([]*Scenario, 0, len(matches))
	for _, path := range matches {
		s, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// Validate checks structural and referential consistency.
func Validate(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch s.NormalizedExit() {
	case ExitNormal, ExitEarly, ExitPanic:
	default:
		return fmt.Errorf("exit %q: must be normal, early, or panic", s.Exit)
	}

	switch s.NormalizedOutcome() {
	case OutcomeReturned, OutcomePanicked:
	default:
		return fmt.Errorf("expect.outcome %q: must be returned or panicked", s.Expect.Outcome)
	}
	// A block panic is never suppressed by its guards, and a returning
	// block has nothing to panic with.
	if s.NormalizedExit() == ExitPanic && s.NormalizedOutcome() != OutcomePanicked {
		return fmt.Errorf("exit panic requires expect.outcome panicked")
	}
	if s.NormalizedExit() != ExitPanic && s.NormalizedOutcome() == OutcomePanicked {
		return fmt.Errorf("expect.outcome panicked requires exit panic")
	}

	labels := make(map[string]bool)
	declares := 0
	for i, step := range s.Steps {
		switch {
		case step.Declare != nil && step.Set != nil:
			return fmt.Errorf("steps[%d]: declare and set are mutually exclusive", i)
		case step.Declare != nil:
			declares++
			if err := validateDeclare(s, step.Declare); err != nil {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
			if labels[step.Declare.Label] {
				return fmt.Errorf("steps[%d]: duplicate guard label %q", i, step.Declare.Label)
			}
			labels[step.Declare.Label] = true
		case step.Set != nil:
			if step.Set.Var == "" {
				return fmt.Errorf("steps[%d]: set requires var", i)
			}
			if _, ok := s.Vars[step.Set.Var]; !ok {
				return fmt.Errorf("steps[%d]: set references undeclared var %q", i, step.Set.Var)
			}
		default:
			return fmt.Errorf("steps[%d]: step must be declare or set", i)
		}
	}
	if declares == 0 {
		return fmt.Errorf("at least one declare step is required")
	}

	for _, label := range s.Expect.Teardown {
		if !labels[label] {
			return fmt.Errorf("expect.teardown references undeclared guard %q", label)
		}
	}
	for _, label := range s.Expect.Suppressed {
		if !labels[label] {
			return fmt.Errorf("expect.suppressed references undeclared guard %q", label)
		}
	}
	for name := range s.Expect.Observed {
		if _, ok := s.Vars[name]; !ok {
			return fmt.Errorf("expect.observed references undeclared var %q", name)
		}
	}
	return nil
}

func validateDeclare(s *Scenario, d *DeclareStep) error {
	if d.Label == "" {
		return fmt.Errorf("declare requires label")
	}
	switch d.Action {
	case ActionLog, ActionFail:
		if d.Var != "" {
			return fmt.Errorf("declare %q: var is only valid with action observe", d.Label)
		}
	case ActionObserve:
		if d.Var == "" {
			return fmt.Errorf("declare %q: action observe requires var", d.Label)
		}
		if _, ok := s.Vars[d.Var]; !ok {
			return fmt.Errorf("declare %q: observe references undeclared var %q", d.Label, d.Var)
		}
	default:
		return fmt.Errorf("declare %q: action %q must be log, fail, or observe", d.Label, d.Action)
	}
	return nil
}
