package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Priority Tests
// ============================================================================

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"low", PriorityLow, false},
		{"medium", PriorityMedium, false},
		{"high", PriorityHigh, false},
		{"HIGH", "", true},
		{"urgent", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDefaultPriority(t *testing.T) {
	assert.Equal(t, PriorityMedium, DefaultPriority)
	assert.True(t, DefaultPriority.Valid())
}

// ============================================================================
// Nullable Tests
// ============================================================================

type patchBody struct {
	Description Nullable[string] `json:"description"`
	Completed   Nullable[bool]   `json:"completed"`
}

func TestNullable_AbsentNullValue(t *testing.T) {
	var body patchBody
	require.NoError(t, json.Unmarshal([]byte(`{"description": null}`), &body))

	assert.True(t, body.Description.Set)
	assert.True(t, body.Description.Null)
	assert.Nil(t, body.Description.Ptr())
	assert.False(t, body.Completed.Set, "absent key must stay unset")

	body = patchBody{}
	require.NoError(t, json.Unmarshal([]byte(`{"description": "x", "completed": true}`), &body))
	assert.Equal(t, "x", *body.Description.Ptr())
	assert.True(t, body.Completed.Value)
}

func TestNullable_TypeMismatch(t *testing.T) {
	var body patchBody
	err := json.Unmarshal([]byte(`{"completed": "yes"}`), &body)
	assert.Error(t, err)
}

// ============================================================================
// Patch Tests
// ============================================================================

func TestTaskPatch_Apply(t *testing.T) {
	desc := "old"
	task := &Task{ID: 1, Name: "a", Description: &desc, Priority: PriorityLow, ProjectID: 3, UserID: 9}

	TaskPatch{
		Name:        Some("b"),
		Description: Null[string](),
		Deadline:    Some("2025-01-20"),
		Completed:   Some(true),
	}.Apply(task)

	assert.Equal(t, "b", task.Name)
	assert.Nil(t, task.Description)
	require.NotNil(t, task.Deadline)
	assert.Equal(t, "2025-01-20", *task.Deadline)
	assert.True(t, task.Completed)
	assert.Equal(t, PriorityLow, task.Priority, "unset slot must not change")
	assert.EqualValues(t, 3, task.ProjectID)
	assert.EqualValues(t, 9, task.UserID)
}

func TestTaskPatch_Empty(t *testing.T) {
	assert.True(t, TaskPatch{}.Empty())
	assert.False(t, TaskPatch{Completed: Some(false)}.Empty())
}

func TestProjectPatch_Apply(t *testing.T) {
	p := &Project{ID: 1, Name: "Launch"}
	ProjectPatch{Description: Some("go live")}.Apply(p)
	assert.Equal(t, "Launch", p.Name)
	require.NotNil(t, p.Description)
	assert.Equal(t, "go live", *p.Description)
}

// ============================================================================
// Error Tests
// ============================================================================

func TestKindOf(t *testing.T) {
	base := NewNotFoundError("Task not found")
	wrapped := fmt.Errorf("update task: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
	assert.Equal(t, "Task not found", base.Error())
}

func TestWrap_Unwraps(t *testing.T) {
	cause := errors.New("limit")
	err := Wrap(KindCapacity, "Maximum number of users reached (5)", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindCapacity, KindOf(err))
	assert.Equal(t, "capacity", err.Kind.String())
}

func TestUser_PublicHidesPassword(t *testing.T) {
	u := &User{ID: 2, Username: "alice", Password: "pw1"}
	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "pw1")
	assert.Equal(t, PublicUser{ID: 2, Username: "alice"}, u.Public())
}
