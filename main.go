package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"

	"github.com/hmarlo/wordtrail/internal/auth"
	"github.com/hmarlo/wordtrail/internal/db"
	"github.com/hmarlo/wordtrail/internal/dbx"
)

//go:embed static/*
var staticFS embed.FS

func main() {
	configPath := "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	loadConfig(configPath)
	if err := db.Init(cfg.DBPath); err != nil {
		log.Fatal(err)
	}
	initTemplates()

	if err := seedManager(); err != nil {
		log.Fatalf("seed manager: %v", err)
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("WordTrail running on %s", addr)
	log.Fatal(http.ListenAndServe(addr, routes()))
}

func routes() http.Handler {
	mux := http.NewServeMux()

	staticSub, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Public routes
	mux.HandleFunc("GET /{$}", handleLoginPage)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("GET /logout", handleLogout)

	// Authenticated routes
	app := http.NewServeMux()
	app.HandleFunc("GET /dashboard", handleDashboard)
	app.HandleFunc("GET /search", handleSearch)
	app.HandleFunc("GET /add", handleAddProjectForm)
	app.HandleFunc("POST /add", handleAddProject)
	app.HandleFunc("GET /edit/{id}", handleEditProjectForm)
	app.HandleFunc("POST /edit/{id}", handleEditProject)
	app.HandleFunc("POST /delete/{id}", handleDeleteProject)
	app.HandleFunc("GET /log-words/{id}", handleLogWordsForm)
	app.HandleFunc("POST /log-words/{id}", handleLogWords)
	app.HandleFunc("GET /stats", handleStats)

	// Manager-only
	app.HandleFunc("GET /manage-users", requireManager(handleManageUsers))
	app.HandleFunc("POST /manage-users", requireManager(handleCreateUser))
	app.HandleFunc("GET /edit-user/{id}", requireManager(handleEditUserForm))
	app.HandleFunc("POST /edit-user/{id}", requireManager(handleEditUser))
	app.HandleFunc("POST /delete-user/{id}", requireManager(handleDeleteUser))

	mux.Handle("/", authMiddleware(app))
	return mux
}

// seedManager makes sure the configured manager account exists, so a
// fresh database has someone who can log in and create the rest.
func seedManager() error {
	if cfg.ManagerUsername == "" || cfg.ManagerPassword == "" {
		return nil
	}
	ctx := context.Background()
	if _, err := db.GetUserByUsername(ctx, db.DB, cfg.ManagerUsername); err == nil {
		return nil
	}
	hash, err := auth.HashPassword(cfg.ManagerPassword)
	if err != nil {
		return err
	}
	name := cfg.ManagerName
	if name == "" {
		name = cfg.ManagerUsername
	}
	err = dbx.WithTx(ctx, db.DB, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := db.CreateUser(ctx, tx, cfg.ManagerUsername, name, db.RoleManager, hash)
		return err
	})
	if err != nil {
		return err
	}
	log.Printf("Created manager user: %s", cfg.ManagerUsername)
	return nil
}
