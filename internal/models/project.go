package models

import "github.com/thenoetrevino/checklist/internal/types"

// Project groups tasks and is exclusively owned by one user.
// Deleting a project deletes every task that references it.
type Project struct {
	ID          types.ProjectID `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	UserID      types.UserID    `json:"userId"`
}

// ProjectSummary is a project augmented with task progress counters
type ProjectSummary struct {
	Project
	TaskCount      int `json:"taskCount"`
	CompletedCount int `json:"completedCount"`
}

// ProjectPatch holds the mutable project fields; unset slots are left alone
type ProjectPatch struct {
	Name        Nullable[string]
	Description Nullable[string]
}

// Apply merges the patch onto p. Validation happens before this is called.
func (pp ProjectPatch) Apply(p *Project) {
	if pp.Name.Set && !pp.Name.Null {
		p.Name = pp.Name.Value
	}
	if pp.Description.Set {
		p.Description = pp.Description.Ptr()
	}
}
