package repository

import (
	"gorm.io/gorm"

	"github.com/taskforce-app/taskforce-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByIDs batch-fetches projects by ID
func (r *GormProjectRepository) FindByIDs(ids []uint64) (map[uint64]models.Project, error) {
	result := make(map[uint64]models.Project, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var projects []models.Project
	if err := r.db.Where("id IN ?", ids).Find(&projects).Error; err != nil {
		return nil, err
	}

	for _, p := range projects {
		result[p.ID] = p
	}
	return result, nil
}

// ListByTeamID lists a team's projects ordered by creation descending
func (r *GormProjectRepository) ListByTeamID(teamID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// DeleteWithTasks deletes every task referencing the project, then the
// project itself. Tasks go first so a partial failure can never orphan them.
func (r *GormProjectRepository) DeleteWithTasks(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint64
		if err := tx.Model(&models.Task{}).
			Where("project_id = ?", id).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskAssignment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskNote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskImage{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(&models.Project{}, id).Error
	})
}
