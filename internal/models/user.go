package models

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/taskforce-app/taskforce-api/internal/constants"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// User is an internal record for an externally authenticated identity.
// Subject holds the identity provider's stable reference; users invited by
// email before signing up carry a "pending_<email>" subject until the real
// identity shows up.
type User struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Subject   string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name      string         `gorm:"type:varchar(255)" json:"name,omitempty"`
	Role      *Role          `gorm:"type:varchar(20)" json:"role,omitempty"`
	TeamID    *uint64        `gorm:"index" json:"team_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Team *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

// IsPending reports whether the user is an email-invited placeholder that has
// not signed in yet.
func (u *User) IsPending() bool {
	return strings.HasPrefix(u.Subject, constants.PendingSubjectPrefix)
}

// IsAdmin reports whether the user has chosen the admin role.
func (u *User) IsAdmin() bool {
	return u.Role != nil && *u.Role == RoleAdmin
}
