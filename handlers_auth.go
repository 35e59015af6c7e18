package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/hmarlo/wordtrail/internal/auth"
	"github.com/hmarlo/wordtrail/internal/db"
)

func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "login.html", map[string]any{})
}

func handleLogin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		renderTemplate(w, "login.html", map[string]any{"Error": "Username and password are required"})
		return
	}

	_, token, expires, err := auth.Login(r.Context(), db.DB, username, password, sessionTTL())
	if errors.Is(err, auth.ErrBadCredentials) {
		renderTemplate(w, "login.html", map[string]any{"Error": "Invalid username or password"})
		return
	}
	if err != nil {
		log.Printf("login failed for %s: %v", username, err)
		renderTemplate(w, "login.html", map[string]any{"Error": "Something went wrong, try again"})
		return
	}

	auth.SetSessionCookie(w, token, expires)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.Logout(r.Context(), db.DB, w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
