package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskforce-app/taskforce-api/internal/dto"
	apierrors "github.com/taskforce-app/taskforce-api/internal/errors"
	"github.com/taskforce-app/taskforce-api/internal/services"
	"github.com/taskforce-app/taskforce-api/internal/utils"
)

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a project under a team.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name   string `json:"name" binding:"required"`
		TeamID uint64 `json:"team_id" binding:"required"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(req.Name, req.TeamID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects lists a team's projects, newest first. Without a team_id the
// result is an empty list, never an error and never every team's projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	teamID, err := utils.ParseUint64Query(c, "team_id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	var id uint64
	if teamID != nil {
		id = *teamID
	}

	projects, err := h.projectService.ListProjects(id)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	projectDTOs := make([]dto.ProjectDTO, 0, len(projects))
	for _, p := range projects {
		projectDTOs = append(projectDTOs, dto.ToProjectDTO(p))
	}

	c.JSON(http.StatusOK, gin.H{"projects": projectDTOs})
}

// GetProject returns a project by ID.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := utils.ParseUint64Param(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	project, err := h.projectService.GetProject(projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project and every task under it.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, err := utils.ParseUint64Param(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	if err := h.projectService.DeleteProject(projectID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectNameEmpty),
		errors.Is(err, services.ErrProjectTeamMissing):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
