package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/hmarlo/wordtrail/internal/dbx"
)

const (
	RoleManager = "manager"
	RoleMember  = "member"
)

type User struct {
	ID        int64
	Username  string
	Name      string
	Role      string
	CreatedAt time.Time
	LastLogin *time.Time // joined from security for listings
}

func CreateUser(ctx context.Context, q dbx.DBTX, username, name, role, passwordHash string) (*User, error) {
	res, err := q.ExecContext(ctx,
		"INSERT INTO users (username, name, role) VALUES (?, ?, ?)",
		username, name, role)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	_, err = q.ExecContext(ctx,
		"INSERT INTO security (user_id, password_hash) VALUES (?, ?)",
		id, passwordHash)
	if err != nil {
		return nil, err
	}
	return &User{ID: id, Username: username, Name: name, Role: role}, nil
}

func GetUserByID(ctx context.Context, q dbx.DBTX, id int64) (*User, error) {
	var u User
	err := q.QueryRowContext(ctx,
		"SELECT id, username, name, role, created_at FROM users WHERE id = ?", id).
		Scan(&u.ID, &u.Username, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func GetUserByUsername(ctx context.Context, q dbx.DBTX, username string) (*User, error) {
	var u User
	err := q.QueryRowContext(ctx,
		"SELECT id, username, name, role, created_at FROM users WHERE username = ?", username).
		Scan(&u.ID, &u.Username, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetPasswordHash returns the stored bcrypt hash for the user.
func GetPasswordHash(ctx context.Context, q dbx.DBTX, userID int64) (string, error) {
	var hash string
	err := q.QueryRowContext(ctx,
		"SELECT password_hash FROM security WHERE user_id = ?", userID).Scan(&hash)
	return hash, err
}

func UpdatePasswordHash(ctx context.Context, q dbx.DBTX, userID int64, hash string) error {
	_, err := q.ExecContext(ctx,
		"UPDATE security SET password_hash = ? WHERE user_id = ?", hash, userID)
	return err
}

func TouchLastLogin(ctx context.Context, q dbx.DBTX, userID int64) error {
	_, err := q.ExecContext(ctx,
		"UPDATE security SET last_login = CURRENT_TIMESTAMP WHERE user_id = ?", userID)
	return err
}

func UpdateUser(ctx context.Context, q dbx.DBTX, id int64, name, role string) error {
	_, err := q.ExecContext(ctx,
		"UPDATE users SET name = ?, role = ? WHERE id = ?", name, role, id)
	return err
}

func DeleteUser(ctx context.Context, q dbx.DBTX, id int64) error {
	_, err := q.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	return err
}

func ListUsers(ctx context.Context, q dbx.DBTX) ([]User, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT u.id, u.username, u.name, u.role, u.created_at, s.last_login
		FROM users u
		JOIN security s ON s.user_id = u.id
		ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Role, &u.CreatedAt, &u.LastLogin); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Sessions

type Session struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
}

func CreateSession(ctx context.Context, q dbx.DBTX, userID int64, token string, expiresAt time.Time) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token, expires_at) VALUES (?, ?, ?)",
		userID, token, expiresAt)
	return err
}

// GetUserBySession resolves a session token to its user. Expired sessions
// behave like unknown tokens.
func GetUserBySession(ctx context.Context, q dbx.DBTX, token string) (*User, error) {
	var u User
	var expiresAt time.Time
	err := q.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.name, u.role, u.created_at, s.expires_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = ?`, token).
		Scan(&u.ID, &u.Username, &u.Name, &u.Role, &u.CreatedAt, &expiresAt)
	if err != nil {
		return nil, err
	}
	if time.Now().After(expiresAt) {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func DeleteSession(ctx context.Context, q dbx.DBTX, token string) error {
	_, err := q.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}
