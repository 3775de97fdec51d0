package project

import (
	"github.com/thenoetrevino/checklist/internal/access"
	"github.com/thenoetrevino/checklist/internal/models"
)

// Domain errors for project service
var (
	// Validation errors
	ErrEmptyName        = models.NewValidationError("Project name is required")
	ErrNullName         = models.NewValidationError("Project name cannot be null")
	ErrInvalidProjectID = models.NewValidationError("Invalid project ID")

	// Lookup errors; foreign projects are reported as missing
	ErrProjectNotFound = access.ErrProjectNotFound
)
