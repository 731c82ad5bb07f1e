package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/taskpath/taskpath/internal/server"
	"github.com/taskpath/taskpath/internal/store"
)

const (
	// DefaultDBPath is the default path for project databases.
	DefaultDBPath = ".taskpath/projects"
	// BindEnvVar overrides the listen address when set.
	BindEnvVar = "TASKPATH_BIND"
)

func main() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}
	dbPath := filepath.Join(homeDir, DefaultDBPath)

	manager, err := store.NewManager(dbPath)
	if err != nil {
		log.Fatalf("Failed to create database manager: %v", err)
	}
	defer manager.Close()

	addr := os.Getenv(BindEnvVar)

	srv := server.New(addr, manager)
	if err := srv.Run(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
