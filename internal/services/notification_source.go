package services

import (
	"context"
	"fmt"

	"github.com/taskforce-app/taskforce-api/internal/models"
	"github.com/taskforce-app/taskforce-api/internal/notifier"
	"github.com/taskforce-app/taskforce-api/internal/repository"
)

// NotificationSource feeds the notifier with per-user task snapshots built
// from the same query paths the API serves, so the watchers observe exactly
// what users would see.
type NotificationSource struct {
	userRepo     repository.UserRepository
	queryService *TaskQueryService
}

// NewNotificationSource creates a new NotificationSource.
func NewNotificationSource(userRepo repository.UserRepository, queryService *TaskQueryService) *NotificationSource {
	return &NotificationSource{
		userRepo:     userRepo,
		queryService: queryService,
	}
}

// EmployeeSnapshots returns every user's assigned tasks keyed by user ID.
// Admins can be assigned tasks too, so both roles are covered.
func (s *NotificationSource) EmployeeSnapshots(ctx context.Context) (map[uint64][]notifier.TaskSnapshot, error) {
	users, err := s.listUsers()
	if err != nil {
		return nil, err
	}

	snapshots := make(map[uint64][]notifier.TaskSnapshot, len(users))
	for _, user := range users {
		userID := user.ID
		tasks, err := s.queryService.MyTasks(MyTasksInput{UserID: &userID})
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot tasks for user %d: %w", userID, err)
		}

		entries := make([]notifier.TaskSnapshot, 0, len(tasks))
		for _, t := range tasks {
			entry := notifier.TaskSnapshot{
				ID:     t.ID,
				Title:  t.Title,
				Status: t.Status,
			}
			if t.Project != nil {
				entry.ProjectName = t.Project.Name
			}
			entries = append(entries, entry)
		}
		snapshots[userID] = entries
	}

	return snapshots, nil
}

// AdminSnapshots returns each team's full task list keyed by the admin's
// user ID. Admins without a team are skipped.
func (s *NotificationSource) AdminSnapshots(ctx context.Context) (map[uint64][]notifier.TaskSnapshot, error) {
	admins, err := s.userRepo.ListByRole(models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}

	snapshots := make(map[uint64][]notifier.TaskSnapshot, len(admins))
	for _, admin := range admins {
		if admin.TeamID == nil {
			continue
		}

		tasks, err := s.queryService.AllTasksForAdmin(ctx, AdminTasksInput{TeamID: admin.TeamID})
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot tasks for team %d: %w", *admin.TeamID, err)
		}

		entries := make([]notifier.TaskSnapshot, 0, len(tasks))
		for _, t := range tasks {
			entry := notifier.TaskSnapshot{
				ID:     t.ID,
				Title:  t.Title,
				Status: t.Status,
			}
			if t.Project != nil {
				entry.ProjectName = t.Project.Name
			}
			if t.CompletedByUser != nil {
				entry.CompletedByName = t.CompletedByUser.Name
			}
			entries = append(entries, entry)
		}
		snapshots[admin.ID] = entries
	}

	return snapshots, nil
}

func (s *NotificationSource) listUsers() ([]models.User, error) {
	employees, err := s.userRepo.ListByRole(models.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	admins, err := s.userRepo.ListByRole(models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return append(employees, admins...), nil
}
