package app

import (
	"github.com/thenoetrevino/checklist/internal/access"
	"github.com/thenoetrevino/checklist/internal/database"
	authservice "github.com/thenoetrevino/checklist/internal/services/auth"
	projectservice "github.com/thenoetrevino/checklist/internal/services/project"
	taskservice "github.com/thenoetrevino/checklist/internal/services/task"
	"github.com/thenoetrevino/checklist/internal/session"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	// Repository layer
	repo database.DataStore

	// Process-local session table
	sessions *session.Registry

	// Service layer (business logic)
	AuthService    authservice.Service
	ProjectService projectservice.Service
	TaskService    taskservice.Service
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(repo database.DataStore, opts ...Option) *App {
	cfg := newAppConfig(opts)

	sessions := cfg.sessions
	if sessions == nil {
		sessions = session.NewRegistry()
	}
	guard := access.NewGuard(repo)

	return &App{
		repo:           repo,
		sessions:       sessions,
		AuthService:    authservice.NewService(repo, sessions, cfg.maxUsers, cfg.logger),
		ProjectService: projectservice.NewService(repo, guard, cfg.logger),
		TaskService:    taskservice.NewService(repo, guard, cfg.logger),
	}
}

// Repo returns the underlying store, for health checks and seeding
func (a *App) Repo() database.DataStore {
	return a.repo
}

// Sessions returns the session registry shared by the auth service
func (a *App) Sessions() *session.Registry {
	return a.sessions
}

// Close releases the store
func (a *App) Close() error {
	return a.repo.Close()
}
