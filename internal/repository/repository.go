package repository

import (
	"github.com/taskforce-app/taskforce-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByIDs batch-fetches users by ID, keyed by ID. Missing IDs are
	// simply absent from the result.
	FindByIDs(ids []uint64) (map[uint64]models.User, error)

	// FindBySubject finds a user by external identity reference
	FindBySubject(subject string) (*models.User, error)

	// FindByEmail finds a user by exact email match
	FindByEmail(email string) (*models.User, error)

	// ListByTeamID lists all members of a team
	ListByTeamID(teamID uint64) ([]models.User, error)

	// ListByRole lists all users holding the given role
	ListByRole(role models.Role) ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// CreateTeamForAdmin creates the team and promotes the user to its admin
	// within a single transaction.
	CreateTeamForAdmin(user *models.User, team *models.Team) error
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// FindByID finds a team by ID
	FindByID(id uint64) (*models.Team, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// FindByIDs batch-fetches projects by ID, keyed by ID
	FindByIDs(ids []uint64) (map[uint64]models.Project, error)

	// ListByTeamID lists a team's projects ordered by creation descending
	ListByTeamID(teamID uint64) ([]models.Project, error)

	// DeleteWithTasks deletes a project and all of its tasks (with their
	// assignment, note and image rows) in one transaction.
	DeleteWithTasks(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a task together with its ordered assignee rows
	Create(task *models.Task, assigneeIDs []uint64) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ReplaceAssignees replaces the ordered assignee list and the legacy
	// single-assignee field in one transaction.
	ReplaceAssignees(taskID uint64, assigneeIDs []uint64, assignedToID *uint64) error

	// UpdateWithNote saves the task and, when note is non-nil, appends it to
	// the task's history within the same transaction.
	UpdateWithNote(task *models.Task, note *models.TaskNote) error

	// Delete hard-deletes a task and its assignment, note and image rows
	Delete(id uint64) error

	// ListByProjectID lists a project's tasks ordered by creation descending
	ListByProjectID(projectID uint64) ([]models.Task, error)

	// ListByProjectIDs lists tasks across projects ordered by creation descending
	ListByProjectIDs(projectIDs []uint64) ([]models.Task, error)

	// ListByAssignee lists tasks where the user appears in the assignee list
	// or as the legacy single assignee, ordered by creation descending.
	ListByAssignee(userID uint64) ([]models.Task, error)
}
