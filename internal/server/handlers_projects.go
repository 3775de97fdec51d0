package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thenoetrevino/checklist/internal/models"
	projectservice "github.com/thenoetrevino/checklist/internal/services/project"
	"github.com/thenoetrevino/checklist/internal/types"
)

type createProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type updateProjectRequest struct {
	Name        models.Nullable[string] `json:"name"`
	Description models.Nullable[string] `json:"description"`
}

// projectIDParam parses the :id path segment
func projectIDParam(c *gin.Context) (types.ProjectID, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid project ID")
		return 0, false
	}
	return types.ProjectIDFromInt(id), true
}

func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.app.ProjectService.ListProjects(c.Request.Context(), callerID(c))
	if err != nil {
		s.respondError(c, err, "Failed to fetch projects")
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (s *Server) handleGetProject(c *gin.Context) {
	id, ok := projectIDParam(c)
	if !ok {
		return
	}

	project, err := s.app.ProjectService.GetProject(c.Request.Context(), callerID(c), id)
	if err != nil {
		s.respondError(c, err, "Failed to fetch project")
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid project data")
		return
	}

	project, err := s.app.ProjectService.CreateProject(c.Request.Context(), callerID(c), projectservice.CreateProjectRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.respondError(c, err, "Failed to create project")
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	id, ok := projectIDParam(c)
	if !ok {
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid project data")
		return
	}

	project, err := s.app.ProjectService.UpdateProject(c.Request.Context(), callerID(c), projectservice.UpdateProjectRequest{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.respondError(c, err, "Failed to update project")
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	id, ok := projectIDParam(c)
	if !ok {
		return
	}

	if err := s.app.ProjectService.DeleteProject(c.Request.Context(), callerID(c), id); err != nil {
		s.respondError(c, err, "Failed to delete project")
		return
	}
	respondMessage(c, http.StatusOK, "Project deleted successfully")
}
