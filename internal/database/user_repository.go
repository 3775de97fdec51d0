package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/checklist/internal/models"
	"github.com/thenoetrevino/checklist/internal/types"
)

// UserRepo handles all user-related database operations.
type UserRepo struct {
	db *sql.DB
}

const userColumns = `id, username, password`

func scanUser(rs rowScanner) (*models.User, error) {
	u := &models.User{}
	if err := rs.Scan(&u.ID, &u.Username, &u.Password); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser retrieves a user by its ID
func (r *UserRepo) GetUser(ctx context.Context, id types.UserID) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, notFound(err))
	}
	return u, nil
}

// GetUserByUsername retrieves a user by its unique username
func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, notFound(err))
	}
	return u, nil
}

// CreateUser inserts a user, failing with ErrDuplicateUsername if the name is taken
func (r *UserRepo) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	var created *models.User
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username = ?`, username).Scan(&exists)
		if err == nil {
			return ErrDuplicateUsername
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check username: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, password) VALUES (?, ?)`,
			username, password,
		)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get user ID after insert: %w", err)
		}

		created = &models.User{ID: types.UserID(id), Username: username, Password: password}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user %q: %w", username, err)
	}
	return created, nil
}

// CountUsers returns the number of registered users
func (r *UserRepo) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
