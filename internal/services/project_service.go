package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/taskforce-app/taskforce-api/internal/models"
	"github.com/taskforce-app/taskforce-api/internal/repository"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrProjectNameEmpty   = errors.New("project name cannot be empty")
	ErrProjectTeamMissing = errors.New("project requires a team")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProject creates a project under a team. Names are not required to be
// unique within the team.
func (s *ProjectService) CreateProject(name string, teamID uint64) (*models.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrProjectNameEmpty
	}
	if teamID == 0 {
		return nil, ErrProjectTeamMissing
	}

	project := &models.Project{
		Name:   name,
		TeamID: teamID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns a team's projects ordered by creation descending. A
// zero team ID yields an empty list.
func (s *ProjectService) ListProjects(teamID uint64) ([]models.Project, error) {
	if teamID == 0 {
		return []models.Project{}, nil
	}

	projects, err := s.projectRepo.ListByTeamID(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project by ID.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// DeleteProject deletes a project and every task under it. Child tasks are
// removed before the project row so a failure can never leave orphans.
func (s *ProjectService) DeleteProject(projectID uint64) error {
	if _, err := s.GetProject(projectID); err != nil {
		return err
	}

	if err := s.projectRepo.DeleteWithTasks(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}
