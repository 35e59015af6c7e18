package main

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

type Config struct {
	Port            string `json:"port"`
	DBPath          string `json:"db_path"`
	SessionHours    int    `json:"session_hours"`
	ManagerUsername string `json:"manager_username"`
	ManagerName     string `json:"manager_name"`
	ManagerPassword string `json:"manager_password"`
}

var cfg Config

func loadConfig(path string) {
	cfg = Config{
		Port:         "8080",
		DBPath:       "wordtrail.db",
		SessionHours: 8,
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("No config file found at %s, using defaults", path)
		return
	}
	defer f.Close()
	json.NewDecoder(f).Decode(&cfg)

	if cfg.SessionHours <= 0 {
		cfg.SessionHours = 8
	}
}

func sessionTTL() time.Duration {
	return time.Duration(cfg.SessionHours) * time.Hour
}
