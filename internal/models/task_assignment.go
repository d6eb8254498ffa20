package models

import (
	"time"
)

// TaskAssignment is one row of a task's ordered assignee list. Position
// preserves the list order; the primary assignee view is the row with the
// lowest position.
type TaskAssignment struct {
	TaskID    uint64    `gorm:"primarykey" json:"task_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
