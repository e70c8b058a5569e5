package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// RoleUser default role for registered users
	RoleUser = "user"
	// RoleAdmin may read and mutate any user's rows
	RoleAdmin = "admin"
)

// User account model. FirstName doubles as the login identifier; it carries no
// uniqueness constraint, so login resolves collisions by lowest user_id.
type User struct {
	UserID       uint           `json:"user_id" gorm:"column:user_id;primaryKey"`
	FirstName    string         `json:"first_name" gorm:"size:100;not null;index"`
	LastName     string         `json:"last_name" gorm:"size:100;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"`
	Role         string         `json:"role" gorm:"size:20;not null;default:user"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName sets the table name
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the two known roles
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
