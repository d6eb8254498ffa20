package models

import (
	"time"

	"gorm.io/gorm"
)

// Project is a named container of tasks within a team. Names are not unique
// within a team.
type Project struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	TeamID    uint64         `gorm:"not null;index" json:"team_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Team  Team   `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Tasks []Task `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
