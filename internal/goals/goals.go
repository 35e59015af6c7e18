// Package goals manages per-project word-count goals. A project has at
// most one active total-words goal; setting a new goal retires the old
// one rather than stacking actives.
package goals

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hmarlo/wordtrail/internal/dbx"
)

const TypeTotalWords = "total_words"

// Presentation fallbacks for projects without a stored goal. Never
// persisted.
const (
	DefaultTargetWords = 50000
	DefaultDailyTarget = 1000
)

type Goal struct {
	ID          int64
	ProjectID   int64
	GoalType    string
	TargetWords int64
	DailyTarget int64
	StartDate   string // YYYY-MM-DD
	Active      bool
	CreatedAt   time.Time
}

// SetGoal retires any active total-words goal for the project and
// inserts a new active one. The two statements must run under the same
// transaction, so pass a tx handle when pairing with other writes.
func SetGoal(ctx context.Context, q dbx.DBTX, projectID, targetWords, dailyTarget int64, startDate string) (*Goal, error) {
	_, err := q.ExecContext(ctx, `
		UPDATE goals SET active = 0
		WHERE project_id = ? AND goal_type = ? AND active = 1`,
		projectID, TypeTotalWords)
	if err != nil {
		return nil, err
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO goals (project_id, goal_type, target_words, daily_target, start_date, active)
		VALUES (?, ?, ?, ?, ?, 1)`,
		projectID, TypeTotalWords, targetWords, dailyTarget, startDate)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Goal{
		ID:          id,
		ProjectID:   projectID,
		GoalType:    TypeTotalWords,
		TargetWords: targetWords,
		DailyTarget: dailyTarget,
		StartDate:   startDate,
		Active:      true,
	}, nil
}

// ActiveGoal returns the project's active total-words goal, or a
// default-valued Goal (ID 0) when none is stored.
func ActiveGoal(ctx context.Context, q dbx.DBTX, projectID int64) (*Goal, error) {
	var g Goal
	err := q.QueryRowContext(ctx, `
		SELECT id, project_id, goal_type, target_words, daily_target, start_date, active, created_at
		FROM goals
		WHERE project_id = ? AND goal_type = ? AND active = 1`,
		projectID, TypeTotalWords).
		Scan(&g.ID, &g.ProjectID, &g.GoalType, &g.TargetWords, &g.DailyTarget, &g.StartDate, &g.Active, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &Goal{
			ProjectID:   projectID,
			GoalType:    TypeTotalWords,
			TargetWords: DefaultTargetWords,
			DailyTarget: DefaultDailyTarget,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}
