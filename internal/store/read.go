package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/guard/internal/trace"
)

// ErrRunNotFound reports a lookup for a run token with no stored record.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is one row of the run history listing.
type RunSummary struct {
	RunToken string   `json:"run_token"`
	Scenario string   `json:"scenario"`
	Pass     bool     `json:"pass"`
	Errors   []string `json:"errors,omitempty"`
}

// ListRuns returns all stored runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_token, scenario, pass, errors
		FROM runs
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		summary, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// ReadTrace reconstructs the trace snapshot of a stored run.
// Events come back ordered by seq, so the snapshot serializes identically
// to the one produced at run time.
func (s *Store) ReadTrace(ctx context.Context, runToken string) (trace.Snapshot, error) {
	var scenario string
	err := s.db.QueryRowContext(ctx,
		`SELECT scenario FROM runs WHERE run_token = ?`, runToken,
	).Scan(&scenario)
	if errors.Is(err, sql.ErrNoRows) {
		return trace.Snapshot{}, fmt.Errorf("%w: %s", ErrRunNotFound, runToken)
	}
	if err != nil {
		return trace.Snapshot{}, fmt.Errorf("query run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.seq, e.kind, e.label, e.detail
		FROM run_events e
		JOIN runs r ON r.id = e.run_id
		WHERE r.run_token = ?
		ORDER BY e.seq ASC
	`, runToken)
	if err != nil {
		return trace.Snapshot{}, fmt.Errorf("query run events: %w", err)
	}
	defer rows.Close()

	var events []trace.Event
	for rows.Next() {
		var ev trace.Event
		var kind string
		if err := rows.Scan(&ev.Seq, &kind, &ev.Label, &ev.Detail); err != nil {
			return trace.Snapshot{}, fmt.Errorf("scan run event: %w", err)
		}
		ev.Kind = trace.Kind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return trace.Snapshot{}, fmt.Errorf("iterate run events: %w", err)
	}

	return trace.Snapshot{
		Scenario: scenario,
		RunToken: runToken,
		Events:   events,
	}, nil
}

func scanRun(rows *sql.Rows) (RunSummary, error) {
	var summary RunSummary
	var pass int
	var errsJSON string
	if err := rows.Scan(&summary.RunToken, &summary.Scenario, &pass, &errsJSON); err != nil {
		return RunSummary{}, fmt.Errorf("scan run: %w", err)
	}
	summary.Pass = pass == 1

	var errs []string
	if err := json.Unmarshal([]byte(errsJSON), &errs); err != nil {
		return RunSummary{}, fmt.Errorf("unmarshal run errors: %w", err)
	}
	if len(errs) > 0 {
		summary.Errors = errs
	}
	return summary, nil
}
