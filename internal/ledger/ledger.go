// Package ledger maintains the append-only word-count ledger for each
// project. Every entry stores both the delta submitted and the running
// total at that point, so "current total" is a single-row read and the
// full history doubles as an audit trail. Entries are never edited;
// corrections are appended as signed deltas.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hmarlo/wordtrail/internal/dbx"
)

// ErrNonPositiveDelta is returned by RecordWords for zero or negative
// submissions. Callers treat it as a validation error, not a failure.
var ErrNonPositiveDelta = errors.New("word count must be a positive number")

// ErrNegativeTotal is returned by SetAbsoluteTotal when the restated
// total is below zero.
var ErrNegativeTotal = errors.New("total word count cannot be negative")

// Entry is one row of a project's progress ledger.
type Entry struct {
	ID         int64
	ProjectID  int64
	Words      int64 // delta for this entry, negative for corrections
	TotalWords int64 // running total after this entry
	CreatedAt  time.Time
}

// RecordWords appends a positive delta to the project's ledger and
// returns the new running total. Callers that pair this with other
// writes should pass a transaction handle.
func RecordWords(ctx context.Context, q dbx.DBTX, projectID, delta int64) (int64, error) {
	if delta <= 0 {
		return 0, ErrNonPositiveDelta
	}
	prev, err := CurrentTotal(ctx, q, projectID)
	if err != nil {
		return 0, err
	}
	total := prev + delta
	if err := appendEntry(ctx, q, projectID, delta, total); err != nil {
		return 0, err
	}
	return total, nil
}

// SetAbsoluteTotal reconciles the ledger with a restated current total,
// as entered on the edit form. Equal totals append nothing; anything
// else becomes a signed delta entry, so downward corrections keep the
// history intact.
func SetAbsoluteTotal(ctx context.Context, q dbx.DBTX, projectID, newTotal int64) error {
	if newTotal < 0 {
		return ErrNegativeTotal
	}
	prev, err := CurrentTotal(ctx, q, projectID)
	if err != nil {
		return err
	}
	if newTotal == prev {
		return nil
	}
	return appendEntry(ctx, q, projectID, newTotal-prev, newTotal)
}

// CurrentTotal returns the running total of the most recent entry, or 0
// for a project with no entries.
func CurrentTotal(ctx context.Context, q dbx.DBTX, projectID int64) (int64, error) {
	var total int64
	err := q.QueryRowContext(ctx, `
		SELECT total_words FROM progress_logs
		WHERE project_id = ? ORDER BY id DESC LIMIT 1`, projectID).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return total, nil
}

// History returns the project's entries oldest first.
func History(ctx context.Context, q dbx.DBTX, projectID int64) ([]Entry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, project_id, words, total_words, created_at
		FROM progress_logs WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Words, &e.TotalWords, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func appendEntry(ctx context.Context, q dbx.DBTX, projectID, delta, total int64) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO progress_logs (project_id, words, total_words)
		VALUES (?, ?, ?)`, projectID, delta, total)
	if err != nil {
		return fmt.Errorf("append progress entry: %w", err)
	}
	return nil
}
