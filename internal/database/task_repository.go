package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/checklist/internal/models"
	"github.com/thenoetrevino/checklist/internal/types"
)

// TaskRepo handles all task-related database operations.
type TaskRepo struct {
	db *sql.DB
}

const taskColumns = `id, name, description, deadline, time, priority, completed, project_id, user_id`

func scanTask(rs rowScanner) (*models.Task, error) {
	t := &models.Task{}
	var description, deadline, timeOfDay sql.NullString
	var priority string
	if err := rs.Scan(
		&t.ID, &t.Name, &description, &deadline, &timeOfDay,
		&priority, &t.Completed, &t.ProjectID, &t.UserID,
	); err != nil {
		return nil, err
	}
	t.Description = nullStringToPtr(description)
	t.Deadline = nullStringToPtr(deadline)
	t.Time = nullStringToPtr(timeOfDay)
	t.Priority = models.Priority(priority)
	return t, nil
}

func getTask(ctx context.Context, q querier, id types.TaskID) (*models.Task, error) {
	t, err := scanTask(q.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get task %d: %w", id, notFound(err))
	}
	return t, nil
}

// GetTask retrieves a task by its ID
func (r *TaskRepo) GetTask(ctx context.Context, id types.TaskID) (*models.Task, error) {
	return getTask(ctx, r.db, id)
}

// ListTasksByUser retrieves every task owned by userID
func (r *TaskRepo) ListTasksByUser(ctx context.Context, userID types.UserID) ([]*models.Task, error) {
	return r.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = ? ORDER BY id`, userID)
}

// ListTasksByProject retrieves every task in a project
func (r *TaskRepo) ListTasksByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error) {
	return r.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY id`, projectID)
}

func (r *TaskRepo) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

// CreateTask inserts a task, copying the owner from its project
func (r *TaskRepo) CreateTask(ctx context.Context, nt models.NewTask) (*models.Task, error) {
	priority := nt.Priority
	if priority == "" {
		priority = models.DefaultPriority
	}

	var created *models.Task
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		project, err := getProject(ctx, tx, nt.ProjectID)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (name, description, deadline, time, priority, completed, project_id, user_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			nt.Name, ptrToNullString(nt.Description), ptrToNullString(nt.Deadline), ptrToNullString(nt.Time),
			string(priority), nt.Completed, project.ID, project.UserID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert task '%s': %w", nt.Name, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get task ID after insert: %w", err)
		}

		created, err = getTask(ctx, tx, types.TaskID(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateTask merges patch onto the stored task
func (r *TaskRepo) UpdateTask(ctx context.Context, id types.TaskID, patch models.TaskPatch) (*models.Task, error) {
	var updated *models.Task
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		t, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		patch.Apply(t)

		if _, err := tx.ExecContext(ctx,
			`UPDATE tasks
			 SET name = ?, description = ?, deadline = ?, time = ?, priority = ?, completed = ?
			 WHERE id = ?`,
			t.Name, ptrToNullString(t.Description), ptrToNullString(t.Deadline), ptrToNullString(t.Time),
			string(t.Priority), t.Completed, id,
		); err != nil {
			return fmt.Errorf("failed to update task %d: %w", id, err)
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes a task, reporting whether it existed
func (r *TaskRepo) DeleteTask(ctx context.Context, id types.TaskID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows for task %d: %w", id, err)
	}
	return n > 0, nil
}
