package auth

import (
	"errors"

	"github.com/thenoetrevino/checklist/internal/models"
)

// Domain errors for the auth service
var (
	// Validation errors
	ErrEmptyUsername = models.NewValidationError("username cannot be empty")
	ErrEmptyPassword = models.NewValidationError("password cannot be empty")
	ErrUsernameTaken = models.NewValidationError("Username already exists")

	// Authentication errors
	ErrInvalidCredentials = models.NewAuthenticationError("Invalid credentials")
	ErrNotAuthenticated   = models.NewAuthenticationError("Not authenticated")

	// ErrUserLimitReached is wrapped in a capacity error carrying the limit
	ErrUserLimitReached = errors.New("user limit reached")
)
