package models

import (
	"time"

	"gorm.io/gorm"
)

// Expense a single spend record, owned by one user and related to zero or
// more categories through the expense_category join table.
type Expense struct {
	ExpenseID   uint           `json:"expense_id" gorm:"column:expense_id;primaryKey"`
	UserID      uint           `json:"user_id" gorm:"not null;index"`
	ExpenseDate time.Time      `json:"expense_date" gorm:"type:date;not null"`
	Amount      float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	Description string         `json:"description" gorm:"size:255"`
	StoreName   string         `json:"store_name" gorm:"size:100"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Categories attached via the join table; loaded by the repository,
	// never persisted through this field.
	Categories []Category `json:"categories" gorm:"-"`
}

// TableName sets the table name
func (Expense) TableName() string {
	return "expenses"
}

// ExpenseCategory join row linking an expense to a category. Soft-deletable
// per pair; the replace-set operation soft-deletes old rows and inserts fresh
// ones inside one transaction.
type ExpenseCategory struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	ExpenseID  uint           `json:"expense_id" gorm:"not null;index"`
	CategoryID uint           `json:"category_id" gorm:"not null;index"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName sets the table name
func (ExpenseCategory) TableName() string {
	return "expense_category"
}
