package db

import (
	"context"
	"time"

	"github.com/hmarlo/wordtrail/internal/dbx"
)

type Project struct {
	ID          int64
	UserID      int64
	Title       string
	Genre       string
	Description string
	StartDate   string // YYYY-MM-DD
	CreatedAt   time.Time
}

func CreateProject(ctx context.Context, q dbx.DBTX, userID int64, title, genre, description, startDate string) (*Project, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO projects (user_id, title, genre, description, start_date)
		VALUES (?, ?, ?, ?, ?)`,
		userID, title, genre, description, startDate)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Project{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Genre:       genre,
		Description: description,
		StartDate:   startDate,
	}, nil
}

// GetProjectForUser loads a project only if it belongs to userID. A guessed
// id owned by someone else behaves exactly like a missing row.
func GetProjectForUser(ctx context.Context, q dbx.DBTX, id, userID int64) (*Project, error) {
	var p Project
	err := q.QueryRowContext(ctx, `
		SELECT id, user_id, title, genre, description, start_date, created_at
		FROM projects WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&p.ID, &p.UserID, &p.Title, &p.Genre, &p.Description, &p.StartDate, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func ListProjectsByOwner(ctx context.Context, q dbx.DBTX, userID int64) ([]Project, error) {
	return queryProjects(ctx, q, `
		SELECT id, user_id, title, genre, description, start_date, created_at
		FROM projects WHERE user_id = ? ORDER BY title`, userID)
}

func SearchProjectsByOwner(ctx context.Context, q dbx.DBTX, userID int64, term string) ([]Project, error) {
	return queryProjects(ctx, q, `
		SELECT id, user_id, title, genre, description, start_date, created_at
		FROM projects
		WHERE user_id = ? AND title LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY title`, userID, term)
}

func UpdateProject(ctx context.Context, q dbx.DBTX, id, userID int64, title, genre, description, startDate string) error {
	_, err := q.ExecContext(ctx, `
		UPDATE projects SET title = ?, genre = ?, description = ?, start_date = ?
		WHERE id = ? AND user_id = ?`,
		title, genre, description, startDate, id, userID)
	return err
}

// DeleteProjectForUser removes the project; goals and progress entries go
// with it via ON DELETE CASCADE.
func DeleteProjectForUser(ctx context.Context, q dbx.DBTX, id, userID int64) error {
	_, err := q.ExecContext(ctx,
		"DELETE FROM projects WHERE id = ? AND user_id = ?", id, userID)
	return err
}

func queryProjects(ctx context.Context, q dbx.DBTX, query string, args ...any) ([]Project, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Genre, &p.Description, &p.StartDate, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
