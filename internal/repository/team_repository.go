package repository

import (
	"gorm.io/gorm"

	"github.com/taskforce-app/taskforce-api/internal/models"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}
