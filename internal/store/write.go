package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/guard"
	"github.com/roach88/guard/internal/trace"
)

// RunRecord is one scenario execution to persist.
type RunRecord struct {
	RunToken string
	Scenario string
	Pass     bool
	Errors   []string
	Events   []trace.Event
}

// WriteRun inserts a run and its trace events in one transaction.
// Run tokens are unique; writing the same token twice is idempotent
// (ON CONFLICT DO NOTHING, the original record wins).
func (s *Store) WriteRun(ctx context.Context, rec RunRecord) error {
	if rec.RunToken == "" {
		return fmt.Errorf("write run: run token is required")
	}

	errsJSON, err := json.Marshal(ifNilEmpty(rec.Errors))
	if err != nil {
		return fmt.Errorf("write run: marshal errors: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer guard.RollingBack(tx).Run()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (run_token, scenario, pass, errors)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_token) DO NOTHING
	`, rec.RunToken, rec.Scenario, boolToInt(rec.Pass), string(errsJSON))
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if inserted == 0 {
		// Duplicate token: keep the original record untouched.
		return nil
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	for _, ev := range rec.Events {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_events (run_id, seq, kind, label, detail)
			VALUES (?, ?, ?, ?, ?)
		`, runID, ev.Seq, string(ev.Kind), ev.Label, ev.Detail)
		if err != nil {
			return fmt.Errorf("write run event seq %d: %w", ev.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func ifNilEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
