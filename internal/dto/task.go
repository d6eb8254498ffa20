package dto

import (
	"time"

	"github.com/taskforce-app/taskforce-api/internal/models"
)

// TaskNoteDTO represents one append-only history entry
type TaskNoteDTO struct {
	UserID    uint64              `json:"user_id"`
	Type      models.TaskNoteType `json:"type"`
	Content   string              `json:"content"`
	Timestamp time.Time           `json:"timestamp"`
}

// TaskDTO represents a task in API responses. Assignees carries the current
// multi-assignee list; AssignedTo is the legacy single-assignee field kept
// for backward-compatible consumers.
type TaskDTO struct {
	ID             uint64            `json:"id"`
	Title          string            `json:"title"`
	ProjectID      uint64            `json:"project_id"`
	Status         models.TaskStatus `json:"status"`
	AssignedTo     *uint64           `json:"assigned_to,omitempty"`
	Assignees      []uint64          `json:"assignees"`
	CreatedBy      *uint64           `json:"created_by,omitempty"`
	CompletedBy    *uint64           `json:"completed_by,omitempty"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
	CompletionNote *string           `json:"completion_note,omitempty"`
	Images         []string          `json:"images,omitempty"`
	Notes          []TaskNoteDTO     `json:"notes,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// ProjectTaskDTO is the by-project listing shape: the task enriched with its
// legacy single assignee's user record.
type ProjectTaskDTO struct {
	TaskDTO
	AssignedUser *UserDTO `json:"assigned_user"`
}

// MyTaskDTO is the "my tasks" shape: the task enriched with its owning
// project.
type MyTaskDTO struct {
	TaskDTO
	Project *ProjectDTO `json:"project"`
}

// AdminTaskDTO is the team-wide admin shape: fully resolved assignee list,
// creator, completer, owning project and download URLs for any attachments.
type AdminTaskDTO struct {
	TaskDTO
	Project         *ProjectDTO `json:"project"`
	AssignedUser    *UserDTO    `json:"assigned_user"`
	AssigneesList   []UserDTO   `json:"assignees_list"`
	CreatedByUser   *UserDTO    `json:"created_by_user"`
	CompletedByUser *UserDTO    `json:"completed_by_user"`
	ImageURLs       []string    `json:"image_urls"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		ProjectID:      task.ProjectID,
		Status:         task.Status,
		AssignedTo:     task.AssignedToID,
		Assignees:      task.AssigneeIDs(),
		CreatedBy:      task.CreatedByID,
		CompletedBy:    task.CompletedByID,
		CompletedAt:    task.CompletedAt,
		CompletionNote: task.CompletionNote,
		CreatedAt:      task.CreatedAt,
	}

	for _, img := range task.Images {
		dto.Images = append(dto.Images, img.StorageKey)
	}

	for _, note := range task.Notes {
		dto.Notes = append(dto.Notes, TaskNoteDTO{
			UserID:    note.UserID,
			Type:      note.Type,
			Content:   note.Content,
			Timestamp: note.CreatedAt,
		})
	}

	return dto
}
