package database

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/thenoetrevino/checklist/internal/models"
	"github.com/thenoetrevino/checklist/internal/types"
)

// Compile-time verification that *MemStore implements DataStore
var _ DataStore = (*MemStore)(nil)

// MemStore keeps users, projects and tasks in process memory.
// Every operation runs under a single mutex, which also guards the id
// counters. Ids start at 1 and are never handed out twice.
type MemStore struct {
	mu sync.RWMutex

	users     map[types.UserID]models.User
	usernames map[string]types.UserID
	projects  map[types.ProjectID]models.Project
	tasks     map[types.TaskID]models.Task

	nextUserID    types.UserID
	nextProjectID types.ProjectID
	nextTaskID    types.TaskID
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{
		users:         make(map[types.UserID]models.User),
		usernames:     make(map[string]types.UserID),
		projects:      make(map[types.ProjectID]models.Project),
		tasks:         make(map[types.TaskID]models.Task),
		nextUserID:    1,
		nextProjectID: 1,
		nextTaskID:    1,
	}
}

// Ping always succeeds for the memory store
func (s *MemStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op; the data lives as long as the process
func (s *MemStore) Close() error {
	return nil
}

// ============================================================================
// Users
// ============================================================================

func (s *MemStore) GetUser(ctx context.Context, id types.UserID) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("failed to get user %d: %w", id, ErrNotFound)
	}
	return &u, nil
}

func (s *MemStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[username]
	if !ok {
		return nil, fmt.Errorf("failed to get user %q: %w", username, ErrNotFound)
	}
	u := s.users[id]
	return &u, nil
}

func (s *MemStore) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usernames[username]; taken {
		return nil, fmt.Errorf("failed to create user %q: %w", username, ErrDuplicateUsername)
	}

	u := models.User{ID: s.nextUserID, Username: username, Password: password}
	s.nextUserID++
	s.users[u.ID] = u
	s.usernames[username] = u.ID
	return &u, nil
}

func (s *MemStore) CountUsers(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

// ============================================================================
// Projects
// ============================================================================

func (s *MemStore) GetProject(ctx context.Context, id types.ProjectID) (*models.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("failed to get project %d: %w", id, ErrNotFound)
	}
	return cloneProject(p), nil
}

func (s *MemStore) ListProjectsByUser(ctx context.Context, userID types.UserID) ([]*models.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]*models.Project, 0)
	for _, p := range s.projects {
		if p.UserID == userID {
			projects = append(projects, cloneProject(p))
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (s *MemStore) CreateProject(ctx context.Context, userID types.UserID, name string, description *string) (*models.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := models.Project{
		ID:          s.nextProjectID,
		Name:        name,
		Description: cloneString(description),
		UserID:      userID,
	}
	s.nextProjectID++
	s.projects[p.ID] = p
	return cloneProject(p), nil
}

func (s *MemStore) UpdateProject(ctx context.Context, id types.ProjectID, patch models.ProjectPatch) (*models.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("failed to update project %d: %w", id, ErrNotFound)
	}
	patch.Apply(&p)
	s.projects[id] = p
	return cloneProject(p), nil
}

func (s *MemStore) DeleteProject(ctx context.Context, id types.ProjectID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.projects[id]
	delete(s.projects, id)
	for taskID, t := range s.tasks {
		if t.ProjectID == id {
			delete(s.tasks, taskID)
		}
	}
	return existed, nil
}

// ============================================================================
// Tasks
// ============================================================================

func (s *MemStore) GetTask(ctx context.Context, id types.TaskID) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("failed to get task %d: %w", id, ErrNotFound)
	}
	return cloneTask(t), nil
}

func (s *MemStore) ListTasksByUser(ctx context.Context, userID types.UserID) ([]*models.Task, error) {
	return s.listTasks(ctx, func(t models.Task) bool { return t.UserID == userID })
}

func (s *MemStore) ListTasksByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error) {
	return s.listTasks(ctx, func(t models.Task) bool { return t.ProjectID == projectID })
}

func (s *MemStore) listTasks(ctx context.Context, keep func(models.Task) bool) ([]*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*models.Task, 0)
	for _, t := range s.tasks {
		if keep(t) {
			tasks = append(tasks, cloneTask(t))
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (s *MemStore) CreateTask(ctx context.Context, nt models.NewTask) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[nt.ProjectID]
	if !ok {
		return nil, fmt.Errorf("failed to create task in project %d: %w", nt.ProjectID, ErrNotFound)
	}

	priority := nt.Priority
	if priority == "" {
		priority = models.DefaultPriority
	}

	t := models.Task{
		ID:          s.nextTaskID,
		Name:        nt.Name,
		Description: cloneString(nt.Description),
		Deadline:    cloneString(nt.Deadline),
		Time:        cloneString(nt.Time),
		Priority:    priority,
		Completed:   nt.Completed,
		ProjectID:   project.ID,
		UserID:      project.UserID,
	}
	s.nextTaskID++
	s.tasks[t.ID] = t
	return cloneTask(t), nil
}

func (s *MemStore) UpdateTask(ctx context.Context, id types.TaskID, patch models.TaskPatch) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("failed to update task %d: %w", id, ErrNotFound)
	}
	patch.Apply(&t)
	s.tasks[id] = t
	return cloneTask(t), nil
}

func (s *MemStore) DeleteTask(ctx context.Context, id types.TaskID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.tasks[id]
	delete(s.tasks, id)
	return existed, nil
}

// clone helpers keep callers from mutating stored values through pointers

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneProject(p models.Project) *models.Project {
	p.Description = cloneString(p.Description)
	return &p
}

func cloneTask(t models.Task) *models.Task {
	t.Description = cloneString(t.Description)
	t.Deadline = cloneString(t.Deadline)
	t.Time = cloneString(t.Time)
	return &t
}
