package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/thenoetrevino/checklist/internal/database"
	"github.com/thenoetrevino/checklist/internal/models"
	"github.com/thenoetrevino/checklist/internal/session"
	"github.com/thenoetrevino/checklist/internal/types"
)

// DefaultMaxUsers is the registration cap
const DefaultMaxUsers = 5

// Service defines registration, login and session resolution
type Service interface {
	Register(ctx context.Context, creds Credentials) (*Session, error)
	Login(ctx context.Context, creds Credentials) (*Session, error)
	Logout(ctx context.Context, token string)
	Authenticate(ctx context.Context, token string) (session.Identity, error)
}

// Credentials is a username/password pair as submitted by the client
type Credentials struct {
	Username string
	Password string
}

// Session is the outcome of a successful register or login
type Session struct {
	User      models.PublicUser
	Token     string
	ExpiresAt time.Time
}

// repository defines the user operations needed by the auth service
type repository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, username, password string) (*models.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// sessionStore is implemented by *session.Registry
type sessionStore interface {
	Create(userID types.UserID, username string) (string, time.Time, error)
	Resolve(token string) (session.Identity, bool)
	Revoke(token string)
}

type service struct {
	repo     repository
	sessions sessionStore
	maxUsers int
	logger   *slog.Logger

	// registerMu makes the cap check and the insert one step
	registerMu sync.Mutex
}

// NewService creates an auth service. maxUsers <= 0 selects DefaultMaxUsers.
func NewService(repo repository, sessions sessionStore, maxUsers int, logger *slog.Logger) Service {
	if maxUsers <= 0 {
		maxUsers = DefaultMaxUsers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:     repo,
		sessions: sessions,
		maxUsers: maxUsers,
		logger:   logger,
	}
}

// Register creates a user and logs them in
func (s *service) Register(ctx context.Context, creds Credentials) (*Session, error) {
	if err := validateCredentials(creds); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, creds)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return s.startSession(user)
}

func (s *service) createUser(ctx context.Context, creds Credentials) (*models.User, error) {
	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count >= s.maxUsers {
		return nil, models.Wrap(models.KindCapacity,
			fmt.Sprintf("Maximum number of users reached (%d)", s.maxUsers), ErrUserLimitReached)
	}

	user, err := s.repo.CreateUser(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and opens a new session
func (s *service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	if err := validateCredentials(creds); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.Password != creds.Password {
		return nil, ErrInvalidCredentials
	}

	return s.startSession(user)
}

// Logout revokes token. Unknown tokens are ignored.
func (s *service) Logout(_ context.Context, token string) {
	if token == "" {
		return
	}
	s.sessions.Revoke(token)
}

// Authenticate resolves a session token to the caller's identity
func (s *service) Authenticate(_ context.Context, token string) (session.Identity, error) {
	identity, ok := s.sessions.Resolve(token)
	if !ok {
		return session.Identity{}, ErrNotAuthenticated
	}
	return identity, nil
}

func (s *service) startSession(user *models.User) (*Session, error) {
	token, expiresAt, err := s.sessions.Create(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &Session{
		User:      user.Public(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func validateCredentials(creds Credentials) error {
	if strings.TrimSpace(creds.Username) == "" {
		return ErrEmptyUsername
	}
	if creds.Password == "" {
		return ErrEmptyPassword
	}
	return nil
}
