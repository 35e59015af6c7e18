package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hmarlo/wordtrail/internal/db"
	"github.com/hmarlo/wordtrail/internal/dbx"
	"github.com/hmarlo/wordtrail/internal/forms"
	"github.com/hmarlo/wordtrail/internal/goals"
	"github.com/hmarlo/wordtrail/internal/ledger"
)

// projectView is a project annotated with its current total and active
// goal for the dashboard and stats templates.
type projectView struct {
	db.Project
	Total   int64
	Goal    *goals.Goal
	Entries int
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}

func annotateProjects(ctx context.Context, projects []db.Project) ([]projectView, error) {
	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		total, err := ledger.CurrentTotal(ctx, db.DB, p.ID)
		if err != nil {
			return nil, err
		}
		goal, err := goals.ActiveGoal(ctx, db.DB, p.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, projectView{Project: p, Total: total, Goal: goal})
	}
	return views, nil
}

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	projects, err := db.ListProjectsByOwner(r.Context(), db.DB, u.ID)
	if err != nil {
		log.Printf("list projects for user %d: %v", u.ID, err)
	}
	views, err := annotateProjects(r.Context(), projects)
	if err != nil {
		log.Printf("annotate projects for user %d: %v", u.ID, err)
	}
	renderTemplate(w, "dashboard.html", map[string]any{
		"User":     u,
		"Projects": views,
	})
}

func handleSearch(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	projects, err := db.SearchProjectsByOwner(r.Context(), db.DB, u.ID, query)
	if err != nil {
		log.Printf("search projects for user %d: %v", u.ID, err)
	}
	views, err := annotateProjects(r.Context(), projects)
	if err != nil {
		log.Printf("annotate projects for user %d: %v", u.ID, err)
	}
	renderTemplate(w, "dashboard.html", map[string]any{
		"User":     u,
		"Projects": views,
		"Query":    query,
	})
}

type projectForm struct {
	Title        string
	Genre        string
	Description  string
	StartDate    string
	TargetWords  int64
	DailyTarget  int64
	CurrentWords int64
	HasCurrent   bool
}

func parseProjectForm(r *http.Request) (*projectForm, error) {
	f := &projectForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Genre:       strings.TrimSpace(r.FormValue("genre")),
		Description: strings.TrimSpace(r.FormValue("description")),
		StartDate:   strings.TrimSpace(r.FormValue("start_date")),
	}
	if f.Title == "" {
		return f, &forms.FieldError{Field: "title", Message: "is required"}
	}
	if f.StartDate == "" {
		f.StartDate = time.Now().Format("2006-01-02")
	}

	var err error
	if tw := r.FormValue("target_words"); strings.TrimSpace(tw) == "" {
		f.TargetWords = goals.DefaultTargetWords
	} else if f.TargetWords, err = forms.PositiveInt("target words", tw); err != nil {
		return f, err
	}
	if f.DailyTarget, _, err = forms.OptionalNonNegativeInt("daily target", r.FormValue("daily_target")); err != nil {
		return f, err
	}
	if f.CurrentWords, f.HasCurrent, err = forms.OptionalNonNegativeInt("current words", r.FormValue("current_words")); err != nil {
		return f, err
	}
	return f, nil
}

func handleAddProjectForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "add.html", map[string]any{"User": currentUser(r)})
}

func handleAddProject(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	f, err := parseProjectForm(r)
	if err != nil {
		renderTemplate(w, "add.html", map[string]any{
			"User":  u,
			"Error": err.Error(),
			"Form":  f,
		})
		return
	}

	// Project, goal, and any starting count land together or not at all.
	err = dbx.WithTx(r.Context(), db.DB, func(ctx context.Context, tx dbx.DBTX) error {
		p, err := db.CreateProject(ctx, tx, u.ID, f.Title, f.Genre, f.Description, f.StartDate)
		if err != nil {
			return err
		}
		if _, err := goals.SetGoal(ctx, tx, p.ID, f.TargetWords, f.DailyTarget, f.StartDate); err != nil {
			return err
		}
		if f.HasCurrent && f.CurrentWords > 0 {
			if _, err := ledger.RecordWords(ctx, tx, p.ID, f.CurrentWords); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("create project for user %d: %v", u.ID, err)
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func handleEditProjectForm(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	p, err := db.GetProjectForUser(r.Context(), db.DB, pathID(r), u.ID)
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	renderEditForm(w, r, u, p, "")
}

func renderEditForm(w http.ResponseWriter, r *http.Request, u *db.User, p *db.Project, errMsg string) {
	total, err := ledger.CurrentTotal(r.Context(), db.DB, p.ID)
	if err != nil {
		log.Printf("current total for project %d: %v", p.ID, err)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	goal, err := goals.ActiveGoal(r.Context(), db.DB, p.ID)
	if err != nil {
		log.Printf("active goal for project %d: %v", p.ID, err)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	renderTemplate(w, "edit.html", map[string]any{
		"User":    u,
		"Project": p,
		"Total":   total,
		"Goal":    goal,
		"Error":   errMsg,
	})
}

func handleEditProject(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	p, err := db.GetProjectForUser(r.Context(), db.DB, pathID(r), u.ID)
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	f, err := parseProjectForm(r)
	if err != nil {
		renderEditForm(w, r, u, p, err.Error())
		return
	}

	goal, err := goals.ActiveGoal(r.Context(), db.DB, p.ID)
	if err != nil {
		log.Printf("active goal for project %d: %v", p.ID, err)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	err = dbx.WithTx(r.Context(), db.DB, func(ctx context.Context, tx dbx.DBTX) error {
		if err := db.UpdateProject(ctx, tx, p.ID, u.ID, f.Title, f.Genre, f.Description, f.StartDate); err != nil {
			return err
		}
		// Only retire the goal when the targets actually changed.
		if goal.TargetWords != f.TargetWords || goal.DailyTarget != f.DailyTarget {
			if _, err := goals.SetGoal(ctx, tx, p.ID, f.TargetWords, f.DailyTarget, f.StartDate); err != nil {
				return err
			}
		}
		if f.HasCurrent {
			if err := ledger.SetAbsoluteTotal(ctx, tx, p.ID, f.CurrentWords); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("update project %d: %v", p.ID, err)
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	if _, err := db.GetProjectForUser(r.Context(), db.DB, pathID(r), u.ID); errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if err := db.DeleteProjectForUser(r.Context(), db.DB, pathID(r), u.ID); err != nil {
		log.Printf("delete project %d: %v", pathID(r), err)
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
