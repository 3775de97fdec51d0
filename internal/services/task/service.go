package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/thenoetrevino/checklist/internal/database"
	"github.com/thenoetrevino/checklist/internal/models"
	"github.com/thenoetrevino/checklist/internal/types"
)

// Wire formats for the optional schedule fields
const (
	DeadlineLayout = "2006-01-02"
	TimeLayout     = "15:04"
)

var errOwnerMismatch = errors.New("task owner does not match project owner")

// Service defines all task-related business operations.
// Every method acts on behalf of caller and only sees caller's tasks.
type Service interface {
	// Read operations
	ListTasks(ctx context.Context, caller types.UserID, projectID *types.ProjectID) ([]*models.Task, error)
	GetTask(ctx context.Context, caller types.UserID, id types.TaskID) (*models.Task, error)

	// Write operations
	CreateTask(ctx context.Context, caller types.UserID, req CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, caller types.UserID, req UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, caller types.UserID, id types.TaskID) error
}

// CreateTaskRequest encapsulates all data needed to create a task.
// Nil pointers mean the field was not supplied.
type CreateTaskRequest struct {
	Name        string
	Description *string
	Deadline    *string
	Time        *string
	Priority    *string // nil means models.DefaultPriority
	Completed   bool
	ProjectID   types.ProjectID
}

// UpdateTaskRequest encapsulates a partial task update.
// Unset slots are left alone; null clears optional fields.
type UpdateTaskRequest struct {
	TaskID      types.TaskID
	Name        models.Nullable[string]
	Description models.Nullable[string]
	Deadline    models.Nullable[string]
	Time        models.Nullable[string]
	Priority    models.Nullable[string]
	Completed   models.Nullable[bool]
}

// repository defines the data access methods needed by the task service
type repository interface {
	ListTasksByUser(ctx context.Context, userID types.UserID) ([]*models.Task, error)
	ListTasksByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error)
	CreateTask(ctx context.Context, nt models.NewTask) (*models.Task, error)
	UpdateTask(ctx context.Context, id types.TaskID, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id types.TaskID) (bool, error)
}

// guard resolves ids to entities the caller owns
type guard interface {
	Project(ctx context.Context, caller types.UserID, id types.ProjectID) (*models.Project, error)
	Task(ctx context.Context, caller types.UserID, id types.TaskID) (*models.Task, error)
}

// service implements Service interface
type service struct {
	repo   repository
	guard  guard
	logger *slog.Logger
}

// NewService creates a new task service
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

// ListTasks returns every task the caller owns, or only those of one
// owned project when projectID is set
func (s *service) ListTasks(ctx context.Context, caller types.UserID, projectID *types.ProjectID) ([]*models.Task, error) {
	if projectID == nil {
		tasks, err := s.repo.ListTasksByUser(ctx, caller)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		return tasks, nil
	}

	if _, err := s.guard.Project(ctx, caller, *projectID); err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListTasksByProject(ctx, *projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for project %d: %w", *projectID, err)
	}
	return tasks, nil
}

// GetTask retrieves one owned task
func (s *service) GetTask(ctx context.Context, caller types.UserID, id types.TaskID) (*models.Task, error) {
	return s.guard.Task(ctx, caller, id)
}

// CreateTask handles task creation with validation and ownership checks
func (s *service) CreateTask(ctx context.Context, caller types.UserID, req CreateTaskRequest) (*models.Task, error) {
	nt, err := s.validateCreateTask(req)
	if err != nil {
		return nil, err
	}

	project, err := s.guard.Project(ctx, caller, req.ProjectID)
	if err != nil {
		return nil, err
	}

	task, err := s.repo.CreateTask(ctx, nt)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// project deleted between the check and the insert
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := checkOwner(task, project); err != nil {
		return nil, err
	}

	s.logger.Debug("task created", "task_id", task.ID, "project_id", project.ID, "user_id", caller)
	return task, nil
}

// UpdateTask merges the provided fields onto an owned task
func (s *service) UpdateTask(ctx context.Context, caller types.UserID, req UpdateTaskRequest) (*models.Task, error) {
	patch, err := s.validateUpdateTask(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.guard.Task(ctx, caller, req.TaskID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return existing, nil
	}

	task, err := s.repo.UpdateTask(ctx, req.TaskID, patch)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if task.UserID != existing.UserID || task.ProjectID != existing.ProjectID {
		return nil, ErrOwnerMismatch
	}
	return task, nil
}

// DeleteTask removes one owned task
func (s *service) DeleteTask(ctx context.Context, caller types.UserID, id types.TaskID) error {
	if _, err := s.guard.Task(ctx, caller, id); err != nil {
		return err
	}

	existed, err := s.repo.DeleteTask(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !existed {
		return ErrTaskNotFound
	}
	return nil
}

// ============================================================================
// Validation
// ============================================================================

func (s *service) validateCreateTask(req CreateTaskRequest) (models.NewTask, error) {
	if strings.TrimSpace(req.Name) == "" {
		return models.NewTask{}, ErrEmptyName
	}
	if req.ProjectID <= 0 {
		return models.NewTask{}, ErrInvalidProjectID
	}

	priority := models.DefaultPriority
	if req.Priority != nil {
		p, err := models.ParsePriority(*req.Priority)
		if err != nil {
			return models.NewTask{}, ErrInvalidPriority
		}
		priority = p
	}

	deadline, err := normalizeSchedule(req.Deadline, DeadlineLayout, ErrInvalidDeadline)
	if err != nil {
		return models.NewTask{}, err
	}
	at, err := normalizeSchedule(req.Time, TimeLayout, ErrInvalidTime)
	if err != nil {
		return models.NewTask{}, err
	}

	return models.NewTask{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    deadline,
		Time:        at,
		Priority:    priority,
		Completed:   req.Completed,
		ProjectID:   req.ProjectID,
	}, nil
}

func (s *service) validateUpdateTask(req UpdateTaskRequest) (models.TaskPatch, error) {
	patch := models.TaskPatch{
		Description: req.Description,
		Completed:   req.Completed,
	}

	if req.Name.Set {
		if req.Name.Null {
			return patch, ErrNullName
		}
		if strings.TrimSpace(req.Name.Value) == "" {
			return patch, ErrEmptyName
		}
		patch.Name = req.Name
	}

	if req.Priority.Set {
		if req.Priority.Null {
			return patch, ErrNullPriority
		}
		p, err := models.ParsePriority(req.Priority.Value)
		if err != nil {
			return patch, ErrInvalidPriority
		}
		patch.Priority = models.Some(p)
	}

	if req.Completed.Set && req.Completed.Null {
		return patch, ErrNullCompleted
	}

	var err error
	if patch.Deadline, err = normalizeSlot(req.Deadline, DeadlineLayout, ErrInvalidDeadline); err != nil {
		return patch, err
	}
	if patch.Time, err = normalizeSlot(req.Time, TimeLayout, ErrInvalidTime); err != nil {
		return patch, err
	}
	return patch, nil
}

// normalizeSchedule checks an optional date/time against layout.
// An empty string is treated as not supplied.
func normalizeSchedule(v *string, layout string, invalid error) (*string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	if _, err := time.Parse(layout, *v); err != nil {
		return nil, invalid
	}
	return v, nil
}

// normalizeSlot is normalizeSchedule for patch slots; empty clears the field
func normalizeSlot(slot models.Nullable[string], layout string, invalid error) (models.Nullable[string], error) {
	if !slot.Set || slot.Null {
		return slot, nil
	}
	v, err := normalizeSchedule(&slot.Value, layout, invalid)
	if err != nil {
		return slot, err
	}
	if v == nil {
		return models.Null[string](), nil
	}
	return slot, nil
}

func checkOwner(task *models.Task, project *models.Project) error {
	if task.ProjectID != project.ID || task.UserID != project.UserID {
		return ErrOwnerMismatch
	}
	return nil
}
