package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thenoetrevino/checklist/internal/models"
	taskservice "github.com/thenoetrevino/checklist/internal/services/task"
	"github.com/thenoetrevino/checklist/internal/types"
)

type createTaskRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Time        *string `json:"time"`
	Priority    *string `json:"priority"`
	Completed   bool    `json:"completed"`
	ProjectID   int     `json:"projectId"`
}

// updateTaskRequest has no id, projectId or userId slots; those keys are ignored
type updateTaskRequest struct {
	Name        models.Nullable[string] `json:"name"`
	Description models.Nullable[string] `json:"description"`
	Deadline    models.Nullable[string] `json:"deadline"`
	Time        models.Nullable[string] `json:"time"`
	Priority    models.Nullable[string] `json:"priority"`
	Completed   models.Nullable[bool]   `json:"completed"`
}

// taskIDParam parses the :id path segment
func taskIDParam(c *gin.Context) (types.TaskID, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid task ID")
		return 0, false
	}
	return types.TaskIDFromInt(id), true
}

func (s *Server) handleListTasks(c *gin.Context) {
	var projectID *types.ProjectID
	if raw := c.Query("projectId"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid project ID")
			return
		}
		id := types.ProjectIDFromInt(n)
		projectID = &id
	}

	tasks, err := s.app.TaskService.ListTasks(c.Request.Context(), callerID(c), projectID)
	if err != nil {
		s.respondError(c, err, "Failed to fetch tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := s.app.TaskService.GetTask(c.Request.Context(), callerID(c), id)
	if err != nil {
		s.respondError(c, err, "Failed to fetch task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid task data")
		return
	}

	task, err := s.app.TaskService.CreateTask(c.Request.Context(), callerID(c), taskservice.CreateTaskRequest{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		Time:        req.Time,
		Priority:    req.Priority,
		Completed:   req.Completed,
		ProjectID:   types.ProjectIDFromInt(req.ProjectID),
	})
	if err != nil {
		s.respondError(c, err, "Failed to create task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid task data")
		return
	}

	task, err := s.app.TaskService.UpdateTask(c.Request.Context(), callerID(c), taskservice.UpdateTaskRequest{
		TaskID:      id,
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		Time:        req.Time,
		Priority:    req.Priority,
		Completed:   req.Completed,
	})
	if err != nil {
		s.respondError(c, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	if err := s.app.TaskService.DeleteTask(c.Request.Context(), callerID(c), id); err != nil {
		s.respondError(c, err, "Failed to delete task")
		return
	}
	respondMessage(c, http.StatusOK, "Task deleted successfully")
}
