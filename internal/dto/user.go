package dto

import (
	"time"

	"github.com/taskforce-app/taskforce-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID      uint64       `json:"id"`
	Email   string       `json:"email"`
	Name    string       `json:"name,omitempty"`
	Role    *models.Role `json:"role,omitempty"`
	TeamID  *uint64      `json:"team_id,omitempty"`
	Pending bool         `json:"pending,omitempty"`
}

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	AdminID uint64 `json:"admin_id"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	TeamID    uint64    `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Role:    user.Role,
		TeamID:  user.TeamID,
		Pending: user.IsPending(),
	}
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team) TeamDTO {
	return TeamDTO{
		ID:      team.ID,
		Name:    team.Name,
		AdminID: team.AdminID,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:        project.ID,
		Name:      project.Name,
		TeamID:    project.TeamID,
		CreatedAt: project.CreatedAt,
	}
}
