package main

import (
	"context"
	"net/http"

	"github.com/hmarlo/wordtrail/internal/auth"
	"github.com/hmarlo/wordtrail/internal/db"
)

type contextKey string

const userKey contextKey = "user"

const loginRequiredMessage = "Please log in to access this page"

func currentUser(r *http.Request) *db.User {
	if u, ok := r.Context().Value(userKey).(*db.User); ok {
		return u
	}
	return nil
}

// authMiddleware gates every route behind a valid session. An
// unauthenticated request gets the login page back, not a redirect.
// Requests without a session cookie never reach the database.
func authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(auth.SessionCookie); err != nil {
			renderTemplate(w, "login.html", map[string]any{"Error": loginRequiredMessage})
			return
		}
		user := auth.UserFromRequest(r.Context(), db.DB, r)
		if user == nil {
			auth.ClearSessionCookie(w)
			renderTemplate(w, "login.html", map[string]any{"Error": loginRequiredMessage})
			return
		}
		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requireManager(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		if u == nil || u.Role != db.RoleManager {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
