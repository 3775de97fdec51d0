package database

import (
	"context"
	"errors"

	"github.com/thenoetrevino/checklist/internal/models"
	"github.com/thenoetrevino/checklist/internal/types"
)

// Store-level errors. Lookups wrap ErrNotFound so callers can use errors.Is.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

// UserRepository defines user persistence. Users are append-only.
type UserRepository interface {
	GetUser(ctx context.Context, id types.UserID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, username, password string) (*models.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// ProjectReader defines read operations for projects.
type ProjectReader interface {
	GetProject(ctx context.Context, id types.ProjectID) (*models.Project, error)
	ListProjectsByUser(ctx context.Context, userID types.UserID) ([]*models.Project, error)
}

// ProjectWriter defines write operations for projects.
type ProjectWriter interface {
	CreateProject(ctx context.Context, userID types.UserID, name string, description *string) (*models.Project, error)
	UpdateProject(ctx context.Context, id types.ProjectID, patch models.ProjectPatch) (*models.Project, error)
	// DeleteProject removes the project and all of its tasks, reporting whether the project existed
	DeleteProject(ctx context.Context, id types.ProjectID) (bool, error)
}

// ProjectRepository combines all project-related operations.
type ProjectRepository interface {
	ProjectReader
	ProjectWriter
}

// TaskReader defines read operations for tasks.
type TaskReader interface {
	GetTask(ctx context.Context, id types.TaskID) (*models.Task, error)
	ListTasksByUser(ctx context.Context, userID types.UserID) ([]*models.Task, error)
	ListTasksByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error)
}

// TaskWriter defines write operations for tasks.
type TaskWriter interface {
	// CreateTask derives the task owner from its project and fails with
	// ErrNotFound when the project does not exist
	CreateTask(ctx context.Context, task models.NewTask) (*models.Task, error)
	UpdateTask(ctx context.Context, id types.TaskID, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id types.TaskID) (bool, error)
}

// TaskRepository combines all task-related operations.
type TaskRepository interface {
	TaskReader
	TaskWriter
}

// DataStore defines the unified interface for all data operations.
// It is composed of smaller, domain-specific interfaces so services can
// depend only on what they use.
type DataStore interface {
	UserRepository
	ProjectRepository
	TaskRepository

	Ping(ctx context.Context) error
	Close() error
}
