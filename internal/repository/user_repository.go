package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskforce-app/taskforce-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateTeam is returned when creating the team fails inside the role-selection transaction.
	ErrCreateTeam = errors.New("user repository: create team failed")
	// ErrPromoteAdmin is returned when updating the user fails inside the role-selection transaction.
	ErrPromoteAdmin = errors.New("user repository: promote admin failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs batch-fetches users by ID
func (r *GormUserRepository) FindByIDs(ids []uint64) (map[uint64]models.User, error) {
	result := make(map[uint64]models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// FindBySubject finds a user by external identity reference
func (r *GormUserRepository) FindBySubject(subject string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("subject = ?", subject).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by exact email match. The stored value is
// re-compared in Go so a case-insensitive column collation cannot widen the
// match.
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	if user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

// ListByTeamID lists all members of a team
func (r *GormUserRepository) ListByTeamID(teamID uint64) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("team_id = ?", teamID).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListByRole lists all users holding the given role
func (r *GormUserRepository) ListByRole(role models.Role) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("role = ?", role).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// CreateTeamForAdmin creates the team and sets the user's role and team
// reference atomically.
func (r *GormUserRepository) CreateTeamForAdmin(user *models.User, team *models.Team) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		team.AdminID = user.ID

		if err := tx.Create(team).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateTeam, err)
		}

		role := models.RoleAdmin
		user.Role = &role
		user.TeamID = &team.ID

		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrPromoteAdmin, err)
		}

		return nil
	})
}
