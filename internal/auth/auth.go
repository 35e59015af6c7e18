// Package auth handles credentials and sessions. Passwords are stored
// as bcrypt hashes in the security table; sessions are random tokens in
// the sessions table, referenced by an HTTP-only cookie.
package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hmarlo/wordtrail/internal/db"
	"github.com/hmarlo/wordtrail/internal/dbx"
)

const SessionCookie = "wordtrail_session"

// ErrBadCredentials covers both unknown usernames and wrong passwords,
// so the login form leaks nothing about which one it was.
var ErrBadCredentials = errors.New("invalid username or password")

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login verifies the credentials, stamps last_login, and opens a new
// session valid for ttl. Returns the user and the session token.
func Login(ctx context.Context, database *sql.DB, username, password string, ttl time.Duration) (*db.User, string, time.Time, error) {
	user, err := db.GetUserByUsername(ctx, database, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", time.Time{}, ErrBadCredentials
	}
	if err != nil {
		return nil, "", time.Time{}, err
	}

	hash, err := db.GetPasswordHash(ctx, database, user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, "", time.Time{}, ErrBadCredentials
	}

	token := newToken()
	expires := time.Now().Add(ttl)
	err = dbx.WithTx(ctx, database, func(ctx context.Context, tx dbx.DBTX) error {
		if err := db.TouchLastLogin(ctx, tx, user.ID); err != nil {
			return err
		}
		return db.CreateSession(ctx, tx, user.ID, token, expires)
	})
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expires, nil
}

// UserFromRequest resolves the session cookie to a user, or nil when
// the request carries no valid session. With no cookie present the
// database is not touched.
func UserFromRequest(ctx context.Context, q dbx.DBTX, r *http.Request) *db.User {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	user, err := db.GetUserBySession(ctx, q, cookie.Value)
	if err != nil {
		return nil
	}
	return user
}

// Logout deletes the request's session row, if any, and clears the
// cookie.
func Logout(ctx context.Context, q dbx.DBTX, w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		_ = db.DeleteSession(ctx, q, cookie.Value)
	}
	ClearSessionCookie(w)
}

func SetSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func newToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
