package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusDone    TaskStatus = "done"
)

// Task carries its assignment set two ways: AssignedToID is the legacy single
// assignee kept for backward-compatible consumers, Assignments is the current
// ordered multi-assignee list. The write paths keep the legacy field pointing
// at a member of the list.
type Task struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Title          string         `gorm:"not null" json:"title"`
	ProjectID      uint64         `gorm:"not null;index" json:"project_id"`
	Status         TaskStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	AssignedToID   *uint64        `gorm:"index" json:"assigned_to,omitempty"`
	CreatedByID    *uint64        `json:"created_by,omitempty"`
	CompletedByID  *uint64        `json:"completed_by,omitempty"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	CompletionNote *string        `gorm:"type:text" json:"completion_note,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project     Project          `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	AssignedTo  *User            `gorm:"foreignKey:AssignedToID" json:"-"`
	CreatedBy   *User            `gorm:"foreignKey:CreatedByID" json:"-"`
	CompletedBy *User            `gorm:"foreignKey:CompletedByID" json:"-"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
	Notes       []TaskNote       `gorm:"foreignKey:TaskID" json:"notes,omitempty"`
	Images      []TaskImage      `gorm:"foreignKey:TaskID" json:"images,omitempty"`
}

// AssigneeIDs returns the ordered multi-assignee list.
func (t *Task) AssigneeIDs() []uint64 {
	ids := make([]uint64, 0, len(t.Assignments))
	for _, a := range t.Assignments {
		ids = append(ids, a.UserID)
	}
	return ids
}

// HasAssignee reports whether the user appears in the assignee list or as the
// legacy single assignee. Both representations must be checked to tolerate
// tasks created before the multi-assignee model existed.
func (t *Task) HasAssignee(userID uint64) bool {
	if t.AssignedToID != nil && *t.AssignedToID == userID {
		return true
	}
	for _, a := range t.Assignments {
		if a.UserID == userID {
			return true
		}
	}
	return false
}
