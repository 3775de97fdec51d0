package models

import "github.com/thenoetrevino/checklist/internal/types"

// Task is a single checklist item inside a project.
// UserID always mirrors the owning project's UserID; the store derives it.
type Task struct {
	ID          types.TaskID    `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Deadline    *string         `json:"deadline"` // YYYY-MM-DD
	Time        *string         `json:"time"`     // HH:MM
	Priority    Priority        `json:"priority"`
	Completed   bool            `json:"completed"`
	ProjectID   types.ProjectID `json:"projectId"`
	UserID      types.UserID    `json:"userId"`
}

// NewTask carries the caller-supplied fields for task creation.
// There is no owner field: the store copies it from the project.
type NewTask struct {
	Name        string
	Description *string
	Deadline    *string
	Time        *string
	Priority    Priority // empty means DefaultPriority
	Completed   bool
	ProjectID   types.ProjectID
}

// TaskPatch has one slot per mutable task field.
// Identifier, project and owner are deliberately absent.
type TaskPatch struct {
	Name        Nullable[string]
	Description Nullable[string]
	Deadline    Nullable[string]
	Time        Nullable[string]
	Priority    Nullable[Priority]
	Completed   Nullable[bool]
}

// Empty reports whether the patch changes nothing
func (tp TaskPatch) Empty() bool {
	return !tp.Name.Set && !tp.Description.Set && !tp.Deadline.Set &&
		!tp.Time.Set && !tp.Priority.Set && !tp.Completed.Set
}

// Apply merges the patch onto t. Null on a required field is ignored here;
// the service layer rejects it before the store is reached.
func (tp TaskPatch) Apply(t *Task) {
	if tp.Name.Set && !tp.Name.Null {
		t.Name = tp.Name.Value
	}
	if tp.Description.Set {
		t.Description = tp.Description.Ptr()
	}
	if tp.Deadline.Set {
		t.Deadline = tp.Deadline.Ptr()
	}
	if tp.Time.Set {
		t.Time = tp.Time.Ptr()
	}
	if tp.Priority.Set && !tp.Priority.Null {
		t.Priority = tp.Priority.Value
	}
	if tp.Completed.Set && !tp.Completed.Null {
		t.Completed = tp.Completed.Value
	}
}
