package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated user in the system.
type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Username     string         `json:"username" gorm:"uniqueIndex;size:100;not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FullName     string         `json:"full_name,omitempty" gorm:"size:255"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	RoleID       uint           `json:"role_id" gorm:"not null;index"`
	Role         *Role          `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName pins the table name regardless of GORM pluralization settings.
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	if u == nil {
		return false
	}
	if u.Role != nil {
		return u.Role.Name == RoleAdmin
	}
	return u.RoleID == RoleIDAdmin
}
