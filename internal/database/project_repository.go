package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/checklist/internal/models"
	"github.com/thenoetrevino/checklist/internal/types"
)

// ProjectRepo handles all project-related database operations.
type ProjectRepo struct {
	db *sql.DB
}

const projectColumns = `id, name, description, user_id`

func scanProject(rs rowScanner) (*models.Project, error) {
	p := &models.Project{}
	var description sql.NullString
	if err := rs.Scan(&p.ID, &p.Name, &description, &p.UserID); err != nil {
		return nil, err
	}
	p.Description = nullStringToPtr(description)
	return p, nil
}

func getProject(ctx context.Context, q querier, id types.ProjectID) (*models.Project, error) {
	p, err := scanProject(q.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get project %d: %w", id, notFound(err))
	}
	return p, nil
}

// GetProject retrieves a project by its ID
func (r *ProjectRepo) GetProject(ctx context.Context, id types.ProjectID) (*models.Project, error) {
	return getProject(ctx, r.db, id)
}

// ListProjectsByUser retrieves a user's projects ordered by ID
func (r *ProjectRepo) ListProjectsByUser(ctx context.Context, userID types.UserID) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects for user %d: %w", userID, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	projects := make([]*models.Project, 0, 10)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// CreateProject inserts a project owned by userID
func (r *ProjectRepo) CreateProject(ctx context.Context, userID types.UserID, name string, description *string) (*models.Project, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (name, description, user_id) VALUES (?, ?, ?)`,
		name, ptrToNullString(description), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project '%s': %w", name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get project ID after insert: %w", err)
	}
	return getProject(ctx, r.db, types.ProjectID(id))
}

// UpdateProject merges patch onto the stored project
func (r *ProjectRepo) UpdateProject(ctx context.Context, id types.ProjectID, patch models.ProjectPatch) (*models.Project, error) {
	var updated *models.Project
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		p, err := getProject(ctx, tx, id)
		if err != nil {
			return err
		}
		patch.Apply(p)

		if _, err := tx.ExecContext(ctx,
			`UPDATE projects SET name = ?, description = ? WHERE id = ?`,
			p.Name, ptrToNullString(p.Description), id,
		); err != nil {
			return fmt.Errorf("failed to update project %d: %w", id, err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProject removes a project and all its tasks in one transaction
func (r *ProjectRepo) DeleteProject(ctx context.Context, id types.ProjectID) (bool, error) {
	var existed bool
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete tasks for project %d: %w", id, err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete project %d: %w", id, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows for project %d: %w", id, err)
		}
		existed = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return existed, nil
}
