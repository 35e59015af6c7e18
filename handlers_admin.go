package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/hmarlo/wordtrail/internal/auth"
	"github.com/hmarlo/wordtrail/internal/db"
	"github.com/hmarlo/wordtrail/internal/dbx"
)

func handleManageUsers(w http.ResponseWriter, r *http.Request) {
	users, err := db.ListUsers(r.Context(), db.DB)
	if err != nil {
		log.Printf("list users: %v", err)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	renderTemplate(w, "manage_users.html", map[string]any{
		"User":  currentUser(r),
		"Users": users,
	})
}

func handleCreateUser(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	name := strings.TrimSpace(r.FormValue("name"))
	role := r.FormValue("role")
	password := r.FormValue("password")
	if role != db.RoleManager {
		role = db.RoleMember
	}
	if username == "" || password == "" {
		users, _ := db.ListUsers(r.Context(), db.DB)
		renderTemplate(w, "manage_users.html", map[string]any{
			"User":  currentUser(r),
			"Users": users,
			"Error": "Username and password are required",
		})
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Printf("hash password for %s: %v", username, err)
		http.Redirect(w, r, "/manage-users", http.StatusSeeOther)
		return
	}
	err = dbx.WithTx(r.Context(), db.DB, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := db.CreateUser(ctx, tx, username, name, role, hash)
		return err
	})
	if err != nil {
		log.Printf("create user %s: %v", username, err)
		users, _ := db.ListUsers(r.Context(), db.DB)
		renderTemplate(w, "manage_users.html", map[string]any{
			"User":  currentUser(r),
			"Users": users,
			"Error": "Could not create user (username taken?)",
		})
		return
	}
	http.Redirect(w, r, "/manage-users", http.StatusSeeOther)
}

func handleEditUserForm(w http.ResponseWriter, r *http.Request) {
	target, err := db.GetUserByID(r.Context(), db.DB, pathID(r))
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	renderTemplate(w, "edit_user.html", map[string]any{
		"User":   currentUser(r),
		"Target": target,
	})
}

func handleEditUser(w http.ResponseWriter, r *http.Request) {
	target, err := db.GetUserByID(r.Context(), db.DB, pathID(r))
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	role := r.FormValue("role")
	if role != db.RoleManager {
		role = db.RoleMember
	}
	password := r.FormValue("password")

	err = dbx.WithTx(r.Context(), db.DB, func(ctx context.Context, tx dbx.DBTX) error {
		if err := db.UpdateUser(ctx, tx, target.ID, name, role); err != nil {
			return err
		}
		if password != "" {
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			return db.UpdatePasswordHash(ctx, tx, target.ID, hash)
		}
		return nil
	})
	if err != nil {
		log.Printf("update user %d: %v", target.ID, err)
	}
	http.Redirect(w, r, "/manage-users", http.StatusSeeOther)
}

func handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	id := pathID(r)
	if id == u.ID {
		http.Error(w, "Cannot delete your own account", http.StatusBadRequest)
		return
	}
	if err := db.DeleteUser(r.Context(), db.DB, id); err != nil {
		log.Printf("delete user %d: %v", id, err)
	}
	http.Redirect(w, r, "/manage-users", http.StatusSeeOther)
}
