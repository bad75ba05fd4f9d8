// Package trace records guard lifecycle events during conformance runs.
//
// A Recorder stamps each event with a logical sequence number and normalizes
// labels to NFC, so the resulting snapshot serializes identically across
// runs and platforms. Snapshots are the unit of golden-file comparison in
// the harness.
package trace

import (
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Kind categorizes a trace event.
type Kind string

const (
	// KindDeclare marks a guard declaration (the guard is armed).
	KindDeclare Kind = "declare"

	// KindMutate marks a scenario variable assignment after declaration.
	KindMutate Kind = "mutate"

	// KindFire marks a guard action invocation at scope exit.
	KindFire Kind = "fire"

	// KindSuppressed marks a guard action that failed; the failure was
	// discarded at the guard boundary.
	KindSuppressed Kind = "suppressed"

	// KindExit marks the scope-exit event itself, with the exit mode as
	// detail (normal, early, panic).
	KindExit Kind = "exit"
)

// Event is one entry in a teardown trace.
type Event struct {
	Seq    int64  `json:"seq"`
	Kind   Kind   `json:"kind"`
	Label  string `json:"label,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Snapshot is a complete trace for one scenario run.
type Snapshot struct {
	Scenario string  `json:"scenario"`
	RunToken string  `json:"run_token,omitempty"`
	Events   []Event `json:"events"`
}

// Recorder accumulates events stamped by a shared logical clock.
//
// Thread-safety: Recorder is safe for concurrent use via an internal mutex,
// although a scenario confines recording to one goroutine.
type Recorder struct {
	mu     sync.Mutex
	clock  *Clock
	events []Event
}

// NewRecorder creates a recorder with a fresh clock.
func NewRecorder() *Recorder {
	return &Recorder{clock: NewClock()}
}

// Record appends an event, stamping it with the next sequence number.
// Label and detail are normalized to NFC so that visually identical labels
// produce byte-identical snapshots.
func (r *Recorder) Record(kind Kind, label, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{
		Seq:    r.clock.Next(),
		Kind:   kind,
		Label:  norm.NFC.String(label),
		Detail: norm.NFC.String(detail),
	})
}

// Events returns a copy of the recorded events in stamp order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Snapshot assembles the recorded events into a named snapshot.
func (r *Recorder) Snapshot(scenario, runToken string) Snapshot {
	return Snapshot{
		Scenario: norm.NFC.String(scenario),
		RunToken: runToken,
		Events:   r.Events(),
	}
}
