package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// BatchResult reports what one committed ingestion batch did.
type BatchResult struct {
	Inserted int
	Updated  int
	Skipped  int
}

// jobRows is the narrow row surface the upsert resolution needs. The
// transaction-backed implementation lives below; tests use an in-memory
// one to exercise the conflict paths without a database.
type jobRows interface {
	findIDByLink(ctx context.Context, link string) (int64, error)
	insert(ctx context.Context, j Job) error
	updateByLink(ctx context.Context, j Job) error
}

type upsertOutcome int

const (
	outcomeInserted upsertOutcome = iota
	outcomeUpdated
	outcomeSkipped
)

// UpsertBatch commits a whole ingestion batch in one transaction: each
// record is resolved against its link, updating in place or inserting.
// Any error rolls the batch back and leaves the store at its pre-run
// state.
func (s *Store) UpsertBatch(ctx context.Context, jobs []Job) (BatchResult, error) {
	var result BatchResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin upsert batch: %w", err)
	}
	rows := &txJobRows{tx: tx}

	for _, j := range jobs {
		if j.Link == "" {
			// Callers discard these already; guard the invariant anyway.
			result.Skipped++
			continue
		}
		outcome, err := resolveJob(ctx, rows, j)
		if err != nil {
			_ = tx.Rollback()
			return BatchResult{}, fmt.Errorf("upsert %s: %w", j.Link, err)
		}
		switch outcome {
		case outcomeInserted:
			result.Inserted++
		case outcomeUpdated:
			result.Updated++
		case outcomeSkipped:
			result.Skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return BatchResult{}, fmt.Errorf("commit upsert batch: %w", err)
	}
	return result, nil
}

// resolveJob makes the upsert idempotent and safe under concurrent
// writers: a uniqueness conflict on insert means someone else inserted
// first, so retry as an update against the now-existing row.
func resolveJob(ctx context.Context, rows jobRows, j Job) (upsertOutcome, error) {
	_, err := rows.findIDByLink(ctx, j.Link)
	if err == nil {
		if err := rows.updateByLink(ctx, j); err != nil {
			return 0, err
		}
		return outcomeUpdated, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	err = rows.insert(ctx, j)
	if err == nil {
		return outcomeInserted, nil
	}
	if !errors.Is(err, ErrDuplicateLink) {
		return 0, err
	}

	if _, err := rows.findIDByLink(ctx, j.Link); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Conflict said the row exists but the lookup disagrees;
			// skip the record rather than fail the batch.
			slog.Warn("upsert: row missing after link conflict, skipping", "link", j.Link)
			return outcomeSkipped, nil
		}
		return 0, err
	}
	if err := rows.updateByLink(ctx, j); err != nil {
		return 0, err
	}
	return outcomeUpdated, nil
}

type txJobRows struct {
	tx *sql.Tx
}

func (r *txJobRows) findIDByLink(ctx context.Context, link string) (int64, error) {
	var id int64
	err := r.tx.QueryRowContext(ctx, `SELECT id FROM jobs WHERE link = $1`, link).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

// insert runs inside a savepoint so a uniqueness conflict aborts only the
// statement, not the surrounding batch transaction.
func (r *txJobRows) insert(ctx context.Context, j Job) error {
	if _, err := r.tx.ExecContext(ctx, `SAVEPOINT upsert_job`); err != nil {
		return err
	}
	_, err := r.tx.ExecContext(ctx, `
INSERT INTO jobs (title, company, location, description, link, source)
VALUES ($1, $2, $3, $4, $5, $6)
`, j.Title, j.Company, j.Location, j.Description, j.Link, j.Source)
	if err != nil {
		if isUniqueViolation(err) {
			if _, rbErr := r.tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT upsert_job`); rbErr != nil {
				return rbErr
			}
			return ErrDuplicateLink
		}
		return err
	}
	_, err = r.tx.ExecContext(ctx, `RELEASE SAVEPOINT upsert_job`)
	return err
}

// updateByLink refreshes the mutable fields; fetched_at keeps its insert
// value.
func (r *txJobRows) updateByLink(ctx context.Context, j Job) error {
	_, err := r.tx.ExecContext(ctx, `
UPDATE jobs
SET title = $1, company = $2, location = $3, description = $4, source = $5, updated_at = NOW()
WHERE link = $6
`, j.Title, j.Company, j.Location, j.Description, j.Source, j.Link)
	return err
}
