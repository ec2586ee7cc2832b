package store

import (
	"context"
	"fmt"

	"github.com/roach88/lexsync/internal/instrument"
)

// Run is one ledger entry.
type Run struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	PreviousDate string `json:"previous_date,omitempty"`
	SnapshotPath string `json:"snapshot_path"`
	InForcePath  string `json:"in_force_path"`
	DiffPath     string `json:"diff_path,omitempty"`
	Digest       string `json:"digest"`
	Instruments  int    `json:"instruments"`
	Added        int    `json:"added"`
	Removed      int    `json:"removed"`
	Changed      int    `json:"changed"`
	Seq          int64  `json:"seq"`
}

// StatusEntry is an instrument's recorded state in one run.
type StatusEntry struct {
	RunID         string            `json:"run_id"`
	RunDate       string            `json:"run_date"`
	Title         string            `json:"title"`
	Topic         string            `json:"topic,omitempty"`
	Status        instrument.Status `json:"status"`
	EffectiveFrom string            `json:"effective_from,omitempty"`
	EffectiveTo   string            `json:"effective_to,omitempty"`
	RepealedBy    string            `json:"repealed_by,omitempty"`
	MetaHash      string            `json:"meta_hash,omitempty"`
}

// RecordRun writes a run and its instruments in one transaction.
// Returns the stored run with Seq assigned. Re-recording an existing run ID
// is a no-op that returns the stored row.
func (s *Store) RecordRun(ctx context.Context, run Run, items []instrument.Instrument) (Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, run_date, previous_date, snapshot_path, in_force_path, diff_path, digest,
		 instruments, added, removed, changed, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs))
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID, run.Date, run.PreviousDate, run.SnapshotPath, run.InForcePath, run.DiffPath,
		run.Digest, len(items), run.Added, run.Removed, run.Changed,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return Run{}, fmt.Errorf("record run: rows affected: %w", err)
	}

	if rowsAffected > 0 {
		for _, it := range items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO run_instruments
				(run_id, instrument_id, title, topic, status, effective_from, effective_to, repealed_by, meta_hash)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				run.ID, it.ID, it.Title, it.Topic, string(it.Status),
				it.EffectiveFrom, it.EffectiveTo, it.RepealedBy, it.MetaHash,
			)
			if err != nil {
				return Run{}, fmt.Errorf("record run: instrument %s: %w", it.ID, err)
			}
		}
	}

	stored, err := scanRun(tx.QueryRowContext(ctx, selectRun+` WHERE id = ?`, run.ID))
	if err != nil {
		return Run{}, fmt.Errorf("record run: select: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: commit: %w", err)
	}
	return stored, nil
}

const selectRun = `
	SELECT id, run_date, previous_date, snapshot_path, in_force_path, diff_path, digest,
	       instruments, added, removed, changed, seq
	FROM runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Date, &r.PreviousDate, &r.SnapshotPath, &r.InForcePath, &r.DiffPath,
		&r.Digest, &r.Instruments, &r.Added, &r.Removed, &r.Changed, &r.Seq)
	return r, err
}

// ListRuns returns up to limit runs, most recent first. limit <= 0 means all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := selectRun + ` ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// InstrumentHistory returns an instrument's recorded state per run,
// oldest run first.
func (s *Store) InstrumentHistory(ctx context.Context, instrumentID string) ([]StatusEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.run_date, i.title, i.topic, i.status, i.effective_from,
		       i.effective_to, i.repealed_by, i.meta_hash
		FROM run_instruments i
		JOIN runs r ON r.id = i.run_id
		WHERE i.instrument_id = ?
		ORDER BY r.seq ASC
	`, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("instrument history: %w", err)
	}
	defer rows.Close()

	var out []StatusEntry
	for rows.Next() {
		var e StatusEntry
		var status string
		if err := rows.Scan(&e.RunID, &e.RunDate, &e.Title, &e.Topic, &status,
			&e.EffectiveFrom, &e.EffectiveTo, &e.RepealedBy, &e.MetaHash); err != nil {
			return nil, fmt.Errorf("instrument history: scan: %w", err)
		}
		e.Status = instrument.Status(status)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("instrument history: %w", err)
	}
	return out, nil
}
