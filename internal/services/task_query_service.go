package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taskforce-app/taskforce-api/internal/dto"
	"github.com/taskforce-app/taskforce-api/internal/models"
	"github.com/taskforce-app/taskforce-api/internal/repository"
	"github.com/taskforce-app/taskforce-api/internal/storage"
)

// TaskQueryService implements the three task retrieval paths with their
// enrichment. Enrichment always means: collect the referenced ids,
// batch-fetch the records, attach them as extra fields, drop whatever
// resolves to nothing.
type TaskQueryService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	store       storage.ObjectStore
}

// NewTaskQueryService creates a new TaskQueryService. store may be nil when
// no object storage is configured; attachment URLs then resolve to nothing.
func NewTaskQueryService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	store storage.ObjectStore,
) *TaskQueryService {
	return &TaskQueryService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		store:       store,
	}
}

// TasksByProject lists a project's tasks, newest first, each enriched with
// the legacy single assignee's user record (nil when unset or missing).
func (s *TaskQueryService) TasksByProject(projectID uint64) ([]dto.ProjectTaskDTO, error) {
	tasks, err := s.taskRepo.ListByProjectID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	userIDs := make([]uint64, 0, len(tasks))
	for _, t := range tasks {
		if t.AssignedToID != nil {
			userIDs = append(userIDs, *t.AssignedToID)
		}
	}

	users, err := s.userRepo.FindByIDs(userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve assignees: %w", err)
	}

	result := make([]dto.ProjectTaskDTO, 0, len(tasks))
	for _, t := range tasks {
		item := dto.ProjectTaskDTO{TaskDTO: dto.ToTaskDTO(t)}
		if t.AssignedToID != nil {
			if u, ok := users[*t.AssignedToID]; ok {
				userDTO := dto.ToUserDTO(u)
				item.AssignedUser = &userDTO
			}
		}
		result = append(result, item)
	}

	return result, nil
}

// MyTasksInput represents filters for the "my tasks" view.
type MyTasksInput struct {
	UserID    *uint64
	ProjectID *uint64
	DateFrom  *time.Time
	DateTo    *time.Time
	Search    string
}

// MyTasks returns the tasks assigned to the caller through either assignment
// representation, newest first. Refinements apply in a fixed order: project
// filter, inclusive date bounds, project enrichment, then a case-insensitive
// substring search over the title or the enriched project name. Without a
// caller the result is always empty, never "all tasks".
func (s *TaskQueryService) MyTasks(input MyTasksInput) ([]dto.MyTaskDTO, error) {
	if input.UserID == nil {
		return []dto.MyTaskDTO{}, nil
	}

	tasks, err := s.taskRepo.ListByAssignee(*input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	if input.ProjectID != nil {
		tasks = filterTasks(tasks, func(t models.Task) bool {
			return t.ProjectID == *input.ProjectID
		})
	}
	if input.DateFrom != nil {
		tasks = filterTasks(tasks, func(t models.Task) bool {
			return !t.CreatedAt.Before(*input.DateFrom)
		})
	}
	if input.DateTo != nil {
		tasks = filterTasks(tasks, func(t models.Task) bool {
			return !t.CreatedAt.After(*input.DateTo)
		})
	}

	projectIDs := make([]uint64, 0, len(tasks))
	for _, t := range tasks {
		projectIDs = append(projectIDs, t.ProjectID)
	}

	projects, err := s.projectRepo.FindByIDs(projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve projects: %w", err)
	}

	enriched := make([]dto.MyTaskDTO, 0, len(tasks))
	for _, t := range tasks {
		item := dto.MyTaskDTO{TaskDTO: dto.ToTaskDTO(t)}
		if p, ok := projects[t.ProjectID]; ok {
			projectDTO := dto.ToProjectDTO(p)
			item.Project = &projectDTO
		}
		enriched = append(enriched, item)
	}

	if input.Search != "" {
		query := strings.ToLower(input.Search)
		matched := make([]dto.MyTaskDTO, 0, len(enriched))
		for _, item := range enriched {
			if strings.Contains(strings.ToLower(item.Title), query) {
				matched = append(matched, item)
				continue
			}
			if item.Project != nil && strings.Contains(strings.ToLower(item.Project.Name), query) {
				matched = append(matched, item)
			}
		}
		return matched, nil
	}

	return enriched, nil
}

// AdminTasksInput represents filters for the team-wide admin view.
type AdminTasksInput struct {
	TeamID      *uint64
	ProjectID   *uint64
	AssignedTo  *uint64
	CompletedBy *uint64
	DateFrom    *time.Time
	DateTo      *time.Time
}

// AllTasksForAdmin flattens the tasks of a team's projects (optionally
// narrowed to one project) and applies the assignee, completer and date
// filters in that order. The assignee filter matches the legacy field or
// list membership. Each surviving task is enriched with the resolved
// assignee list, creator, completer, owning project and download URLs for
// its attachments; URLs that fail to resolve are dropped. Without a team
// the result is empty.
func (s *TaskQueryService) AllTasksForAdmin(ctx context.Context, input AdminTasksInput) ([]dto.AdminTaskDTO, error) {
	if input.TeamID == nil {
		return []dto.AdminTaskDTO{}, nil
	}

	projects, err := s.projectRepo.ListByTeamID(*input.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projectsByID := make(map[uint64]models.Project, len(projects))
	projectIDs := make([]uint64, 0, len(projects))
	for _, p := range projects {
		if input.ProjectID != nil && p.ID != *input.ProjectID {
			continue
		}
		projectsByID[p.ID] = p
		projectIDs = append(projectIDs, p.ID)
	}

	tasks, err := s.taskRepo.ListByProjectIDs(projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	if input.AssignedTo != nil {
		tasks = filterTasks(tasks, func(t models.Task) bool {
			return t.HasAssignee(*input.AssignedTo)
		})
	}
	if input.CompletedBy != nil {
		tasks = filterTasks(tasks, func(t models.Task) bool {
			return t.CompletedByID != nil && *t.CompletedByID == *input.CompletedBy
		})
	}
	if input.DateFrom != nil {
		tasks = filterTasks(tasks, func(t models.Task) bool {
			return !t.CreatedAt.Before(*input.DateFrom)
		})
	}
	if input.DateTo != nil {
		tasks = filterTasks(tasks, func(t models.Task) bool {
			return !t.CreatedAt.After(*input.DateTo)
		})
	}

	users, err := s.userRepo.FindByIDs(collectTaskUserIDs(tasks))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve users: %w", err)
	}

	result := make([]dto.AdminTaskDTO, 0, len(tasks))
	for _, t := range tasks {
		item := dto.AdminTaskDTO{
			TaskDTO:       dto.ToTaskDTO(t),
			AssigneesList: []dto.UserDTO{},
			ImageURLs:     []string{},
		}

		if p, ok := projectsByID[t.ProjectID]; ok {
			projectDTO := dto.ToProjectDTO(p)
			item.Project = &projectDTO
		}

		if t.AssignedToID != nil {
			if u, ok := users[*t.AssignedToID]; ok {
				userDTO := dto.ToUserDTO(u)
				item.AssignedUser = &userDTO
			}
		}

		for _, a := range t.Assignments {
			if u, ok := users[a.UserID]; ok {
				item.AssigneesList = append(item.AssigneesList, dto.ToUserDTO(u))
			}
		}
		// Legacy fallback: a task that predates the multi-assignee model
		// still shows its single assignee in the resolved list.
		if len(item.AssigneesList) == 0 && item.AssignedUser != nil {
			item.AssigneesList = []dto.UserDTO{*item.AssignedUser}
		}

		if t.CreatedByID != nil {
			if u, ok := users[*t.CreatedByID]; ok {
				userDTO := dto.ToUserDTO(u)
				item.CreatedByUser = &userDTO
			}
		}
		if t.CompletedByID != nil {
			if u, ok := users[*t.CompletedByID]; ok {
				userDTO := dto.ToUserDTO(u)
				item.CompletedByUser = &userDTO
			}
		}

		if s.store != nil {
			for _, img := range t.Images {
				url, err := s.store.PresignDownload(ctx, img.StorageKey)
				if err != nil {
					continue
				}
				item.ImageURLs = append(item.ImageURLs, url)
			}
		}

		result = append(result, item)
	}

	return result, nil
}

func filterTasks(tasks []models.Task, keep func(models.Task) bool) []models.Task {
	filtered := tasks[:0]
	for _, t := range tasks {
		if keep(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func collectTaskUserIDs(tasks []models.Task) []uint64 {
	seen := make(map[uint64]struct{})
	ids := make([]uint64, 0)

	add := func(id *uint64) {
		if id == nil {
			return
		}
		if _, ok := seen[*id]; ok {
			return
		}
		seen[*id] = struct{}{}
		ids = append(ids, *id)
	}

	for _, t := range tasks {
		add(t.AssignedToID)
		add(t.CreatedByID)
		add(t.CompletedByID)
		for _, a := range t.Assignments {
			id := a.UserID
			add(&id)
		}
	}

	return ids
}
