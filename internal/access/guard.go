// Package access enforces that callers only see and change what they own.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/thenoetrevino/checklist/internal/database"
	"github.com/thenoetrevino/checklist/internal/models"
	"github.com/thenoetrevino/checklist/internal/types"
)

// Missing and foreign entities produce the same error so that existence is
// never revealed to a non-owner.
var (
	ErrProjectNotFound = models.NewNotFoundError("Project not found")
	ErrTaskNotFound    = models.NewNotFoundError("Task not found")
)

// repository defines the lookups the guard needs
type repository interface {
	GetProject(ctx context.Context, id types.ProjectID) (*models.Project, error)
	GetTask(ctx context.Context, id types.TaskID) (*models.Task, error)
}

// Guard loads entities on behalf of a caller
type Guard struct {
	repo repository
}

// NewGuard creates a Guard over repo
func NewGuard(repo repository) *Guard {
	return &Guard{repo: repo}
}

// Project returns the project if it exists and caller owns it
func (g *Guard) Project(ctx context.Context, caller types.UserID, id types.ProjectID) (*models.Project, error) {
	p, err := g.repo.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project %d: %w", id, err)
	}
	if p.UserID != caller {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// Task returns the task if it exists and caller owns it
func (g *Guard) Task(ctx context.Context, caller types.UserID, id types.TaskID) (*models.Task, error) {
	t, err := g.repo.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to load task %d: %w", id, err)
	}
	if t.UserID != caller {
		return nil, ErrTaskNotFound
	}
	return t, nil
}
