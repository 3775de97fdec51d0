package task

import (
	"github.com/thenoetrevino/checklist/internal/access"
	"github.com/thenoetrevino/checklist/internal/models"
)

// Task-related errors
var (
	// Validation errors
	ErrEmptyName        = models.NewValidationError("Task name is required")
	ErrInvalidTaskID    = models.NewValidationError("Invalid task ID")
	ErrInvalidProjectID = models.NewValidationError("Invalid project ID")
	ErrInvalidPriority  = models.NewValidationError("Priority must be one of low, medium, high")
	ErrInvalidDeadline  = models.NewValidationError("Deadline must be a date in YYYY-MM-DD format")
	ErrInvalidTime      = models.NewValidationError("Time must be in HH:MM format")

	// Required fields cannot be cleared
	ErrNullName      = models.NewValidationError("Task name cannot be null")
	ErrNullPriority  = models.NewValidationError("Priority cannot be null")
	ErrNullCompleted = models.NewValidationError("Completed cannot be null")

	// Lookup errors; foreign entities are reported as missing
	ErrTaskNotFound    = access.ErrTaskNotFound
	ErrProjectNotFound = access.ErrProjectNotFound

	// ErrOwnerMismatch means a stored task disagrees with its project's owner
	ErrOwnerMismatch = models.Wrap(models.KindInternal, "", errOwnerMismatch)
)
