package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/checklist/internal/models"
	"github.com/thenoetrevino/checklist/internal/types"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// forEachStore runs fn against every DataStore implementation
func forEachStore(t *testing.T, fn func(t *testing.T, store DataStore)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		fn(t, NewMemStore())
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Parallel()
		db, err := InitDB(context.Background(), MemoryDSN)
		require.NoError(t, err)
		store := NewRepository(db)
		t.Cleanup(func() { _ = store.Close() })
		fn(t, store)
	})
}

func strPtr(s string) *string {
	return &s
}

func mustUser(t *testing.T, store DataStore, name string) *models.User {
	t.Helper()
	u, err := store.CreateUser(context.Background(), name, "pw")
	require.NoError(t, err)
	return u
}

func mustProject(t *testing.T, store DataStore, owner types.UserID, name string) *models.Project {
	t.Helper()
	p, err := store.CreateProject(context.Background(), owner, name, nil)
	require.NoError(t, err)
	return p
}

func mustTask(t *testing.T, store DataStore, projectID types.ProjectID, name string) *models.Task {
	t.Helper()
	task, err := store.CreateTask(context.Background(), models.NewTask{Name: name, ProjectID: projectID})
	require.NoError(t, err)
	return task
}

// ============================================================================
// USERS
// ============================================================================

func TestUsers_CreateLookupCount(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, store DataStore) {
		ctx := context.Background()

		alice := mustUser(t, store, "alice")
		bob := mustUser(t, store, "bob")
		assert.EqualValues(t, 1, alice.ID)
		assert.EqualValues(t, 2, bob.ID)

		got, err := store.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
		assert.Equal(t, "pw", got.Password)

		got, err = store.GetUser(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "bob", got.Username)

		count, err := store.CountUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestUsers_DuplicateUsername(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, store DataStore) {
		mustUser(t, store, "alice")

		_, err := store.CreateUser(context.Background(), "alice", "other")
		assert.ErrorIs(t, err, ErrDuplicateUsername)

		count, err := store.CountUsers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestUsers_NotFound(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, store DataStore) {
		_, err := store.GetUser(context.Background(), 42)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = store.GetUserByUsername(context.Background(), "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// ============================================================================
// PROJECTS
// ============================================================================

func TestProjects_CreateAndListByOwner(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, store DataStore) {
		ctx := context.Background()
		alice := mustUser(t, store, "alice")
		bob := mustUser(t, store, "bob")

		p1, err := store.CreateProject(ctx, alice.ID, "Launch", strPtr("go live"))
		require.NoError(t, err)
		mustProject(t, store, bob.ID, "Other")
		p3 := mustProject(t, store, alice.ID, "Later")

		assert.EqualValues(t, 1, p1.ID)
		require.NotNil(t, p1.Description)
		assert.Equal(t, "go live", *p1.Description)
		assert.Nil(t, p3.Description)

		projects, err := store.ListProjectsByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, p1.ID, projects[0].ID)
		assert.Equal(t, p3.ID, projects[1].ID)
		for _, p := range projects {
			assert.Equal(t, alice.ID, p.UserID)
		}
	})
}

func TestProjects_Update(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, store DataStore) {
		ctx := context.Background()
		alice := mustUser(t, store, "alice")
		p, err := store.CreateProject(ctx, alice.ID, "Launch", strPtr("draft"))
		require.NoError(t, err)

		updated, err := store.UpdateProject(ctx, p.ID, models.ProjectPatch{
			Name:        models.Some("Relaunch"),
			Description: models.Null[string](),
		})
		require.NoError(t, err)
		assert.Equal(t, "Relaunch", updated.Name)
		assert.Nil(t, updated.Description)
		assert.Equal(t, alice.ID, updated.UserID)

		got, err := store.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)

		_, err = store.UpdateProject(ctx, 999, models.ProjectPatch{Name: models.Some("x")})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestProjects_DeleteCascadesOnlyItsTasks(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, store DataStore) {
		ctx := context.Background()
		alice := mustUser(t, store, "alice")
		doomed := mustProject(t, store, alice.ID, "Doomed")
		kept := mustProject(t, store, alice.ID, "Kept")

		mustTask(t, store, doomed.ID, "a")
		mustTask(t, store, doomed.ID, "b")
		survivor := mustTask(t, store, kept.ID, "c")

		existed, err := store.DeleteProject(ctx, doomed.ID)
		require.NoError(t, err)
		assert.True(t, existed)

		_, err = store.GetProject(ctx, doomed.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		orphans, err := store.ListTasksByProject(ctx, doomed.ID)
		require.NoError(t, err)
		assert.Empty(t, orphans)

		remaining, err := store.ListTasksByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, survivor.ID, remaining[0].ID)

		existed, err = store.DeleteProject(ctx, doomed.ID)
		require.NoError(t, err)
		assert.False(t, existed, "second delete must report missing, not fail")
	})
}

// ============================================================================
// TASKS
// ============================================================================

func TestTasks_CreateAppliesDefaultsAndOwner(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, store DataStore) {
		ctx := context.Background()
		alice := mustUser(t, store, "alice")
		p := mustProject(t, store, alice.ID, "Launch")

		task, err := store.CreateTask(ctx, models.NewTask{Name: "Write copy", ProjectID: p.ID})
		require.NoError(t, err)

		assert.EqualValues(t, 1, task.ID)
		assert.Equal(t, models.PriorityMedium, task.Priority)
		assert.False(t, task.Completed)
		assert.Nil(t, task.Description)
		assert.Nil(t, task.Deadline)
		assert.Nil(t, task.Time)
		assert.Equal(t, p.ID, task.ProjectID)
		assert.Equal(t, p.UserID, task.UserID)

		full, err := store.CreateTask(ctx, models.NewTask{
			Name:        "Review",
			Description: strPtr("careful"),
			Deadline:    strPtr("2025-01-20"),
			Time:        strPtr("14:00"),
			Priority:    models.PriorityHigh,
			Completed:   true,
			ProjectID:   p.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, models.PriorityHigh, full.Priority)
		assert.True(t, full.Completed)
		assert.Equal(t, "2025-01-20", *full.Deadline)
		assert.Equal(t, "14:00", *full.Time)
	})
}

func TestTasks_CreateRequiresProject(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, store DataStore) {
		_, err := store.CreateTask(context.Background(), models.NewTask{Name: "x", ProjectID: 77})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTasks_UpdateKeepsOwnership(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, store DataStore) {
		ctx := context.Background()
		alice := mustUser(t, store, "alice")
		p := mustProject(t, store, alice.ID, "Launch")
		task := mustTask(t, store, p.ID, "Write copy")

		updated, err := store.UpdateTask(ctx, task.ID, models.TaskPatch{
			Completed: models.Some(true),
			Priority:  models.Some(models.PriorityLow),
			Time:      models.Some("09:30"),
		})
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, models.PriorityLow, updated.Priority)
		assert.Equal(t, "Write copy", updated.Name)
		assert.Equal(t, p.ID, updated.ProjectID)
		assert.Equal(t, p.UserID, updated.UserID)

		got, err := store.GetTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)

		_, err = store.UpdateTask(ctx, 999, models.TaskPatch{Completed: models.Some(true)})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTasks_DeleteIsIdempotent(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, store DataStore) {
		ctx := context.Background()
		alice := mustUser(t, store, "alice")
		p := mustProject(t, store, alice.ID, "Launch")
		task := mustTask(t, store, p.ID, "x")

		existed, err := store.DeleteTask(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, existed)

		existed, err = store.DeleteTask(ctx, task.ID)
		require.NoError(t, err)
		assert.False(t, existed)
	})
}

func TestIDs_NeverReused(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, store DataStore) {
		ctx := context.Background()
		alice := mustUser(t, store, "alice")
		p1 := mustProject(t, store, alice.ID, "one")
		t1 := mustTask(t, store, p1.ID, "a")

		_, err := store.DeleteProject(ctx, p1.ID)
		require.NoError(t, err)

		p2 := mustProject(t, store, alice.ID, "two")
		t2 := mustTask(t, store, p2.ID, "b")
		assert.Greater(t, p2.ID, p1.ID)
		assert.Greater(t, t2.ID, t1.ID)
	})
}

func TestStore_ReturnsCopies(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, store DataStore) {
		ctx := context.Background()
		alice := mustUser(t, store, "alice")
		p, err := store.CreateProject(ctx, alice.ID, "Launch", strPtr("orig"))
		require.NoError(t, err)

		*p.Description = "mutated"
		p.Name = "mutated"

		got, err := store.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Launch", got.Name)
		assert.Equal(t, "orig", *got.Description)
	})
}

func TestStore_CanceledContext(t *testing.T) {
	t.Parallel()
	forEachStore(t, func(t *testing.T, store DataStore) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.CountUsers(ctx)
		assert.Error(t, err)
	})
}

// ============================================================================
// MEMORY STORE CONCURRENCY
// ============================================================================

func TestMemStore_ConcurrentCreatesGetDistinctIDs(t *testing.T) {
	t.Parallel()
	store := NewMemStore()
	ctx := context.Background()
	alice := mustUser(t, store, "alice")
	p := mustProject(t, store, alice.ID, "Launch")

	const workers = 50
	ids := make(chan types.TaskID, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, err := store.CreateTask(ctx, models.NewTask{Name: "t", ProjectID: p.ID})
			if err == nil {
				ids <- task.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[types.TaskID]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

// ============================================================================
// SQLITE PERSISTENCE
// ============================================================================

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "checklist.db")

	store, err := Open(ctx, DriverSQLite, path)
	require.NoError(t, err)
	alice := mustUser(t, store, "alice")
	p := mustProject(t, store, alice.ID, "Launch")
	mustTask(t, store, p.ID, "Write copy")
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, DriverSQLite, path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	tasks, err := reopened.ListTasksByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write copy", tasks[0].Name)
	assert.Equal(t, alice.ID, tasks[0].UserID)
}

func TestOpen_Drivers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := Open(ctx, DriverMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemStore{}, store)
	assert.NoError(t, store.Ping(ctx))

	store, err = Open(ctx, DriverSQLite, "")
	require.NoError(t, err)
	assert.IsType(t, &Repository{}, store)
	assert.NoError(t, store.Ping(ctx))
	assert.NoError(t, store.Close())

	_, err = Open(ctx, "postgres", "")
	assert.Error(t, err)
}
