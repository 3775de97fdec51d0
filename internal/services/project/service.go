package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thenoetrevino/checklist/internal/database"
	"github.com/thenoetrevino/checklist/internal/models"
	"github.com/thenoetrevino/checklist/internal/types"
)

// Service defines all project-related business operations.
// Every method acts on behalf of caller and only sees caller's projects.
type Service interface {
	// Read operations
	ListProjects(ctx context.Context, caller types.UserID) ([]*models.ProjectSummary, error)
	GetProject(ctx context.Context, caller types.UserID, id types.ProjectID) (*models.ProjectSummary, error)

	// Write operations
	CreateProject(ctx context.Context, caller types.UserID, req CreateProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, caller types.UserID, req UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, caller types.UserID, id types.ProjectID) error
}

// CreateProjectRequest encapsulates data for creating a project
type CreateProjectRequest struct {
	Name        string
	Description *string
}

// UpdateProjectRequest encapsulates data for updating a project
type UpdateProjectRequest struct {
	ID          types.ProjectID
	Name        models.Nullable[string]
	Description models.Nullable[string]
}

// repository defines the data access methods needed by the project service
// This interface is private to the service layer
type repository interface {
	ListProjectsByUser(ctx context.Context, userID types.UserID) ([]*models.Project, error)
	CreateProject(ctx context.Context, userID types.UserID, name string, description *string) (*models.Project, error)
	UpdateProject(ctx context.Context, id types.ProjectID, patch models.ProjectPatch) (*models.Project, error)
	DeleteProject(ctx context.Context, id types.ProjectID) (bool, error)

	// Task lookups for progress counters
	ListTasksByUser(ctx context.Context, userID types.UserID) ([]*models.Task, error)
	ListTasksByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error)
}

// guard resolves a project id to a project the caller owns
type guard interface {
	Project(ctx context.Context, caller types.UserID, id types.ProjectID) (*models.Project, error)
}

// service implements Service interface with private repository
type service struct {
	repo   repository
	guard  guard
	logger *slog.Logger
}

// NewService creates a new project service with private repository
func NewService(repo repository, guard guard, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:   repo,
		guard:  guard,
		logger: logger,
	}
}

// ListProjects returns the caller's projects with task progress counters
func (s *service) ListProjects(ctx context.Context, caller types.UserID) ([]*models.ProjectSummary, error) {
	projects, err := s.repo.ListProjectsByUser(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	tasks, err := s.repo.ListTasksByUser(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	type counts struct{ total, completed int }
	byProject := make(map[types.ProjectID]counts, len(projects))
	for _, t := range tasks {
		c := byProject[t.ProjectID]
		c.total++
		if t.Completed {
			c.completed++
		}
		byProject[t.ProjectID] = c
	}

	summaries := make([]*models.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		c := byProject[p.ID]
		summaries = append(summaries, &models.ProjectSummary{
			Project:        *p,
			TaskCount:      c.total,
			CompletedCount: c.completed,
		})
	}
	return summaries, nil
}

// GetProject retrieves one project with its counters
func (s *service) GetProject(ctx context.Context, caller types.UserID, id types.ProjectID) (*models.ProjectSummary, error) {
	p, err := s.guard.Project(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListTasksByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for project %d: %w", id, err)
	}

	summary := &models.ProjectSummary{Project: *p, TaskCount: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			summary.CompletedCount++
		}
	}
	return summary, nil
}

// CreateProject creates a new project owned by caller
func (s *service) CreateProject(ctx context.Context, caller types.UserID, req CreateProjectRequest) (*models.Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	p, err := s.repo.CreateProject(ctx, caller, req.Name, req.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Debug("project created", "project_id", p.ID, "user_id", caller)
	return p, nil
}

// UpdateProject merges the provided fields onto an owned project
func (s *service) UpdateProject(ctx context.Context, caller types.UserID, req UpdateProjectRequest) (*models.Project, error) {
	if req.Name.Set {
		if req.Name.Null {
			return nil, ErrNullName
		}
		if strings.TrimSpace(req.Name.Value) == "" {
			return nil, ErrEmptyName
		}
	}

	existing, err := s.guard.Project(ctx, caller, req.ID)
	if err != nil {
		return nil, err
	}

	patch := models.ProjectPatch{Name: req.Name, Description: req.Description}
	if !patch.Name.Set && !patch.Description.Set {
		return existing, nil
	}

	p, err := s.repo.UpdateProject(ctx, req.ID, patch)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return p, nil
}

// DeleteProject removes an owned project and all of its tasks
func (s *service) DeleteProject(ctx context.Context, caller types.UserID, id types.ProjectID) error {
	if _, err := s.guard.Project(ctx, caller, id); err != nil {
		return err
	}

	existed, err := s.repo.DeleteProject(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if !existed {
		// lost a race with another delete
		return ErrProjectNotFound
	}

	s.logger.Debug("project deleted", "project_id", id, "user_id", caller)
	return nil
}
