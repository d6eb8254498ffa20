package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/taskforce-app/taskforce-api/internal/constants"
	"github.com/taskforce-app/taskforce-api/internal/models"
	"github.com/taskforce-app/taskforce-api/internal/repository"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTaskTitleRequired   = errors.New("title is required")
	ErrTaskProjectRequired = errors.New("task requires a project")
	ErrTooManyImages       = fmt.Errorf("a task can carry at most %d images", constants.MaxTaskImages)
	ErrNotAdmin            = errors.New("only admins can delete tasks")
)

// taskRelations are the preloads needed to render a task back to the UI.
var taskRelations = []string{"Assignments", "Notes", "Images"}

// TaskService handles the task entity lifecycle.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title      string
	ProjectID  uint64
	AssignedTo *uint64
	Assignees  []uint64
	CreatedBy  *uint64
	ImageKeys  []string
}

// CreateTask creates a pending task. The assignee list starts from Assignees
// and AssignedTo is appended when it is missing from that list; the legacy
// single-assignee field keeps the value the caller supplied, so
// single-assignee consumers see exactly what they wrote.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTaskTitleRequired
	}
	if input.ProjectID == 0 {
		return nil, ErrTaskProjectRequired
	}
	if len(input.ImageKeys) > constants.MaxTaskImages {
		return nil, ErrTooManyImages
	}

	assignees := append([]uint64{}, input.Assignees...)
	if input.AssignedTo != nil && !containsID(assignees, *input.AssignedTo) {
		assignees = append(assignees, *input.AssignedTo)
	}

	task := &models.Task{
		Title:        input.Title,
		ProjectID:    input.ProjectID,
		Status:       models.TaskStatusPending,
		AssignedToID: input.AssignedTo,
		CreatedByID:  input.CreatedBy,
	}

	for i, key := range input.ImageKeys {
		task.Images = append(task.Images, models.TaskImage{
			StorageKey: key,
			Position:   i,
		})
	}

	if err := s.taskRepo.Create(task, assignees); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskRelations...)
}

// AssignTaskInput represents input for reassigning a task.
type AssignTaskInput struct {
	TaskID    uint64
	Assignees []uint64
	UserID    *uint64
}

// AssignTask replaces the task's assignment set, mirroring the creation
// reconciliation: a legacy UserID missing from the list is appended; when no
// UserID is given the legacy field becomes the first list element, whatever
// it pointed at before.
func (s *TaskService) AssignTask(input AssignTaskInput) (*models.Task, error) {
	if _, err := s.taskRepo.FindByID(input.TaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	newAssignees := append([]uint64{}, input.Assignees...)
	newAssignedTo := input.UserID

	if newAssignedTo != nil && !containsID(newAssignees, *newAssignedTo) {
		newAssignees = append(newAssignees, *newAssignedTo)
	}
	if newAssignedTo == nil && len(newAssignees) > 0 {
		first := newAssignees[0]
		newAssignedTo = &first
	}

	if err := s.taskRepo.ReplaceAssignees(input.TaskID, newAssignees, newAssignedTo); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	return s.taskRepo.FindByID(input.TaskID, taskRelations...)
}

// MarkTaskDone completes a task. The completion note overwrites any prior
// value; a supplied note is additionally appended to the history, which only
// ever grows. History entries require an author, so a note without a
// completer sets the completion fields but leaves the history untouched.
func (s *TaskService) MarkTaskDone(taskID uint64, completedBy *uint64, note *string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	now := time.Now()
	task.Status = models.TaskStatusDone
	task.CompletedAt = &now
	task.CompletedByID = completedBy
	task.CompletionNote = note

	var history *models.TaskNote
	if note != nil && *note != "" && completedBy != nil {
		history = &models.TaskNote{
			UserID:  *completedBy,
			Type:    models.TaskNoteCompletion,
			Content: *note,
		}
	}

	if err := s.taskRepo.UpdateWithNote(task, history); err != nil {
		return nil, fmt.Errorf("failed to mark task done: %w", err)
	}

	return s.taskRepo.FindByID(taskID, taskRelations...)
}

// MarkTaskPending reopens a task, clearing the completion fields. A history
// entry is appended only when both a note and its author are supplied;
// author attribution is mandatory for audit entries.
func (s *TaskService) MarkTaskPending(taskID uint64, userID *uint64, note *string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Status = models.TaskStatusPending
	task.CompletedAt = nil
	task.CompletedByID = nil
	task.CompletionNote = nil

	var history *models.TaskNote
	if note != nil && *note != "" && userID != nil {
		history = &models.TaskNote{
			UserID:  *userID,
			Type:    models.TaskNoteReopen,
			Content: *note,
		}
	}

	if err := s.taskRepo.UpdateWithNote(task, history); err != nil {
		return nil, fmt.Errorf("failed to reopen task: %w", err)
	}

	return s.taskRepo.FindByID(taskID, taskRelations...)
}

// DeleteTask hard-deletes a task. The actor is resolved to their own user
// record and must hold the admin role.
func (s *TaskService) DeleteTask(taskID, actorID uint64) error {
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return fmt.Errorf("failed to resolve caller: %w", err)
	}

	if !actor.IsAdmin() {
		return ErrNotAdmin
	}

	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
