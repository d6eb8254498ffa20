package models

import (
	"time"
)

type TaskNoteType string

const (
	TaskNoteCompletion TaskNoteType = "completion"
	TaskNoteReopen     TaskNoteType = "reopen"
	TaskNoteComment    TaskNoteType = "comment"
)

// TaskNote is an append-only audit entry on a task. Notes are never updated
// or removed; completing or reopening a task only ever adds rows.
type TaskNote struct {
	ID        uint64       `gorm:"primarykey" json:"id"`
	TaskID    uint64       `gorm:"not null;index" json:"task_id"`
	UserID    uint64       `gorm:"not null" json:"user_id"`
	Type      TaskNoteType `gorm:"type:varchar(20);not null" json:"type"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time    `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
