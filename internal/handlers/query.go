package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/taskforce-app/taskforce-api/internal/errors"
	"github.com/taskforce-app/taskforce-api/internal/middleware"
	"github.com/taskforce-app/taskforce-api/internal/services"
	"github.com/taskforce-app/taskforce-api/internal/utils"
)

// QueryHandler coordinates the task listing endpoints.
type QueryHandler struct {
	queryService    *services.TaskQueryService
	identityService *services.IdentityService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(queryService *services.TaskQueryService, identityService *services.IdentityService) *QueryHandler {
	return &QueryHandler{
		queryService:    queryService,
		identityService: identityService,
	}
}

// ProjectTasks lists a project's tasks, newest first.
func (h *QueryHandler) ProjectTasks(c *gin.Context) {
	projectID, err := utils.ParseUint64Param(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	tasks, err := h.queryService.TasksByProject(projectID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// MyTasks lists the caller's assigned tasks with optional project, date and
// search refinements. Timestamps are unix milliseconds, bounds inclusive.
func (h *QueryHandler) MyTasks(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, err := utils.ParseUint64Query(c, "project_id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}
	dateFrom, err := utils.ParseMillisQuery(c, "date_from")
	if err != nil {
		apierrors.BadRequest(c, "Invalid date_from")
		return
	}
	dateTo, err := utils.ParseMillisQuery(c, "date_to")
	if err != nil {
		apierrors.BadRequest(c, "Invalid date_to")
		return
	}

	tasks, err := h.queryService.MyTasks(services.MyTasksInput{
		UserID:    &callerID,
		ProjectID: projectID,
		DateFrom:  dateFrom,
		DateTo:    dateTo,
		Search:    c.Query("search"),
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// AdminTasks lists every task across the caller's team with optional
// filters. The caller must hold the admin role; the team is always their
// own, never a parameter.
func (h *QueryHandler) AdminTasks(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	caller, err := h.identityService.GetUser(callerID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load user")
		return
	}
	if !caller.IsAdmin() {
		apierrors.Forbidden(c, "Admin role required")
		return
	}

	projectID, err := utils.ParseUint64Query(c, "project_id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}
	assignedTo, err := utils.ParseUint64Query(c, "assigned_to")
	if err != nil {
		apierrors.BadRequest(c, "Invalid assigned_to")
		return
	}
	completedBy, err := utils.ParseUint64Query(c, "completed_by")
	if err != nil {
		apierrors.BadRequest(c, "Invalid completed_by")
		return
	}
	dateFrom, err := utils.ParseMillisQuery(c, "date_from")
	if err != nil {
		apierrors.BadRequest(c, "Invalid date_from")
		return
	}
	dateTo, err := utils.ParseMillisQuery(c, "date_to")
	if err != nil {
		apierrors.BadRequest(c, "Invalid date_to")
		return
	}

	tasks, err := h.queryService.AllTasksForAdmin(c.Request.Context(), services.AdminTasksInput{
		TeamID:      caller.TeamID,
		ProjectID:   projectID,
		AssignedTo:  assignedTo,
		CompletedBy: completedBy,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}
