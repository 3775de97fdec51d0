package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/checklist/internal/database"
	"github.com/thenoetrevino/checklist/internal/models"
)

func TestRun_SeedsAdminAndChecklist(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := database.NewMemStore()

	require.NoError(t, Run(ctx, store, Options{}, nil))

	admin, err := store.GetUserByUsername(ctx, DefaultAdminUsername)
	require.NoError(t, err)
	assert.Equal(t, DefaultAdminPassword, admin.Password)

	projects, err := store.ListProjectsByUser(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Frontend UI/UX Checklist", projects[0].Name)

	tasks, err := store.ListTasksByProject(ctx, projects[0].ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 12)
	for _, task := range tasks {
		assert.Equal(t, admin.ID, task.UserID)
		assert.False(t, task.Completed)
		assert.NotNil(t, task.Deadline)
		assert.True(t, task.Priority.Valid())
	}
	assert.Equal(t, models.PriorityHigh, tasks[0].Priority)
}

func TestRun_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := database.NewMemStore()

	require.NoError(t, Run(ctx, store, Options{}, nil))
	require.NoError(t, Run(ctx, store, Options{}, nil))

	count, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	admin, err := store.GetUserByUsername(ctx, DefaultAdminUsername)
	require.NoError(t, err)
	projects, err := store.ListProjectsByUser(ctx, admin.ID)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestRun_CustomAdmin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := database.NewMemStore()

	require.NoError(t, Run(ctx, store, Options{AdminUsername: "root", AdminPassword: "s3cret"}, nil))

	_, err := store.GetUserByUsername(ctx, "root")
	require.NoError(t, err)
	_, err = store.GetUserByUsername(ctx, DefaultAdminUsername)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
