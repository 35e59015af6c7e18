package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/hmarlo/wordtrail/internal/db"
	"github.com/hmarlo/wordtrail/internal/dbx"
	"github.com/hmarlo/wordtrail/internal/forms"
	"github.com/hmarlo/wordtrail/internal/ledger"
	"github.com/hmarlo/wordtrail/internal/words"
)

func handleLogWordsForm(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	p, err := db.GetProjectForUser(r.Context(), db.DB, pathID(r), u.ID)
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	renderLogWords(w, r, u, p, "")
}

func renderLogWords(w http.ResponseWriter, r *http.Request, u *db.User, p *db.Project, errMsg string) {
	total, err := ledger.CurrentTotal(r.Context(), db.DB, p.ID)
	if err != nil {
		log.Printf("current total for project %d: %v", p.ID, err)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	history, err := ledger.History(r.Context(), db.DB, p.ID)
	if err != nil {
		log.Printf("history for project %d: %v", p.ID, err)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	// Latest entries first, capped for the sidebar.
	recent := make([]ledger.Entry, 0, 10)
	for i := len(history) - 1; i >= 0 && len(recent) < 10; i-- {
		recent = append(recent, history[i])
	}
	renderTemplate(w, "log_words.html", map[string]any{
		"User":    u,
		"Project": p,
		"Total":   total,
		"Recent":  recent,
		"Error":   errMsg,
	})
}

// handleLogWords accepts either pasted text (counted by whitespace
// tokens) or an explicit count, and appends the delta to the ledger.
func handleLogWords(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	p, err := db.GetProjectForUser(r.Context(), db.DB, pathID(r), u.ID)
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	var delta int64
	text := r.FormValue("text")
	if strings.TrimSpace(text) != "" {
		delta = words.Count(text)
	} else {
		delta, err = forms.PositiveInt("word count", r.FormValue("count"))
		if err != nil {
			renderLogWords(w, r, u, p, err.Error())
			return
		}
	}

	err = dbx.WithTx(r.Context(), db.DB, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := ledger.RecordWords(ctx, tx, p.ID, delta)
		return err
	})
	if errors.Is(err, ledger.ErrNonPositiveDelta) {
		renderLogWords(w, r, u, p, "Word count must be a positive number")
		return
	}
	if err != nil {
		log.Printf("record words for project %d: %v", p.ID, err)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/log-words/"+r.PathValue("id"), http.StatusSeeOther)
}

func handleStats(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	projects, err := db.ListProjectsByOwner(r.Context(), db.DB, u.ID)
	if err != nil {
		log.Printf("list projects for user %d: %v", u.ID, err)
	}
	views, err := annotateProjects(r.Context(), projects)
	if err != nil {
		log.Printf("annotate projects for user %d: %v", u.ID, err)
	}

	var grandTotal int64
	for i := range views {
		history, err := ledger.History(r.Context(), db.DB, views[i].ID)
		if err != nil {
			log.Printf("history for project %d: %v", views[i].ID, err)
			continue
		}
		views[i].Entries = len(history)
		grandTotal += views[i].Total
	}

	renderTemplate(w, "stats.html", map[string]any{
		"User":       u,
		"Projects":   views,
		"GrandTotal": grandTotal,
	})
}
