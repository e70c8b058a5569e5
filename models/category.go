package models

import (
	"time"

	"gorm.io/gorm"
)

// Category expense category, owned exclusively by one user. UserID is
// immutable ownership metadata; only the owner or an admin may touch the row.
type Category struct {
	CategoryID  uint           `json:"category_id" gorm:"column:category_id;primaryKey"`
	UserID      uint           `json:"user_id" gorm:"not null;index"`
	Name        string         `json:"name" gorm:"size:100;not null"`
	Description string         `json:"description" gorm:"size:255"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName sets the table name
func (Category) TableName() string {
	return "categories"
}
