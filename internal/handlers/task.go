package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskforce-app/taskforce-api/internal/dto"
	apierrors "github.com/taskforce-app/taskforce-api/internal/errors"
	"github.com/taskforce-app/taskforce-api/internal/middleware"
	"github.com/taskforce-app/taskforce-api/internal/services"
	"github.com/taskforce-app/taskforce-api/internal/utils"
)

// TaskHandler coordinates task lifecycle HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a pending task, optionally pre-assigned and with
// previously uploaded attachment keys.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title      string   `json:"title" binding:"required"`
		ProjectID  uint64   `json:"project_id" binding:"required"`
		AssignedTo *uint64  `json:"assigned_to"`
		Assignees  []uint64 `json:"assignees"`
		ImageKeys  []string `json:"image_keys"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	callerID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:      req.Title,
		ProjectID:  req.ProjectID,
		AssignedTo: req.AssignedTo,
		Assignees:  req.Assignees,
		CreatedBy:  &callerID,
		ImageKeys:  req.ImageKeys,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// AssignTask replaces a task's assignment set.
func (h *TaskHandler) AssignTask(c *gin.Context) {
	type AssignTaskRequest struct {
		Assignees []uint64 `json:"assignees"`
		UserID    *uint64  `json:"user_id"`
	}

	taskID, err := utils.ParseUint64Param(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.AssignTask(services.AssignTaskInput{
		TaskID:    taskID,
		Assignees: req.Assignees,
		UserID:    req.UserID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CompleteTask marks a task done. The completer is taken from the request,
// not the session; a completion recorded on someone's behalf keeps that
// attribution.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	type CompleteTaskRequest struct {
		CompletedBy *uint64 `json:"completed_by"`
		Note        *string `json:"note"`
	}

	taskID, err := utils.ParseUint64Param(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.MarkTaskDone(taskID, req.CompletedBy, req.Note)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ReopenTask puts a completed task back to pending.
func (h *TaskHandler) ReopenTask(c *gin.Context) {
	type ReopenTaskRequest struct {
		UserID *uint64 `json:"user_id"`
		Note   *string `json:"note"`
	}

	taskID, err := utils.ParseUint64Param(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req ReopenTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.MarkTaskPending(taskID, req.UserID, req.Note)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task. Admins only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, err := utils.ParseUint64Param(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	callerID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.taskService.DeleteTask(taskID, callerID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskTitleRequired),
		errors.Is(err, services.ErrTaskProjectRequired),
		errors.Is(err, services.ErrTooManyImages):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotAdmin):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
