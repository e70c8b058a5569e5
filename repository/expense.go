package repository

import (
	"spendtrack/models"

	"gorm.io/gorm"
)

// ExpenseRepository storage access for expenses and the expense_category
// join table
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates an expense repository
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// WithTx returns a copy bound to the given transaction
func (r *ExpenseRepository) WithTx(tx *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: tx}
}

// FindAll returns all non-deleted expenses
func (r *ExpenseRepository) FindAll() ([]models.Expense, error) {
	var expenses []models.Expense
	if err := r.db.Order("expense_id ASC").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// FindByID returns one expense or gorm.ErrRecordNotFound
func (r *ExpenseRepository) FindByID(id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.First(&expense, id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

// FindByUserID returns all non-deleted expenses owned by one user
func (r *ExpenseRepository) FindByUserID(userID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := r.db.Where("user_id = ?", userID).Order("expense_id ASC").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// Create inserts an expense and fills in its generated id
func (r *ExpenseRepository) Create(expense *models.Expense) error {
	return r.db.Create(expense).Error
}

// Update applies the given fields to a non-deleted expense, returning the
// affected-row count
func (r *ExpenseRepository) Update(id uint, fields map[string]interface{}) (int64, error) {
	res := r.db.Model(&models.Expense{}).Where("expense_id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

// SoftDelete marks an expense deleted, returning the affected-row count
func (r *ExpenseRepository) SoftDelete(id uint) (int64, error) {
	res := r.db.Where("expense_id = ?", id).Delete(&models.Expense{})
	return res.RowsAffected, res.Error
}

// CategoriesFor returns the non-deleted categories attached to an expense
// through non-deleted join rows
func (r *ExpenseRepository) CategoriesFor(expenseID uint) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Model(&models.Category{}).
		Joins("JOIN expense_category ec ON ec.category_id = categories.category_id AND ec.deleted_at IS NULL").
		Where("ec.expense_id = ?", expenseID).
		Order("categories.category_id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// CategoriesForMany returns attached categories for a set of expenses in two
// queries, keyed by expense id
func (r *ExpenseRepository) CategoriesForMany(expenseIDs []uint) (map[uint][]models.Category, error) {
	result := make(map[uint][]models.Category, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return result, nil
	}

	var links []models.ExpenseCategory
	if err := r.db.Where("expense_id IN ?", expenseIDs).Find(&links).Error; err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return result, nil
	}

	categoryIDs := make([]uint, 0, len(links))
	for _, link := range links {
		categoryIDs = append(categoryIDs, link.CategoryID)
	}
	var categories []models.Category
	if err := r.db.Where("category_id IN ?", categoryIDs).Find(&categories).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Category, len(categories))
	for _, c := range categories {
		byID[c.CategoryID] = c
	}

	for _, link := range links {
		if c, ok := byID[link.CategoryID]; ok {
			result[link.ExpenseID] = append(result[link.ExpenseID], c)
		}
	}
	return result, nil
}

// AddCategory links a category to an expense
func (r *ExpenseRepository) AddCategory(expenseID, categoryID uint) error {
	link := models.ExpenseCategory{ExpenseID: expenseID, CategoryID: categoryID}
	return r.db.Create(&link).Error
}

// RemoveCategory soft-deletes one expense-category link, returning the
// affected-row count
func (r *ExpenseRepository) RemoveCategory(expenseID, categoryID uint) (int64, error) {
	res := r.db.Where("expense_id = ? AND category_id = ?", expenseID, categoryID).
		Delete(&models.ExpenseCategory{})
	return res.RowsAffected, res.Error
}

// ReplaceCategories substitutes the full category set for an expense: old
// links are soft-deleted and fresh rows inserted. Callers run this inside a
// transaction so readers never see the half-replaced state.
func (r *ExpenseRepository) ReplaceCategories(expenseID uint, categoryIDs []uint) error {
	if err := r.db.Where("expense_id = ?", expenseID).
		Delete(&models.ExpenseCategory{}).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]models.ExpenseCategory, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		links = append(links, models.ExpenseCategory{
			ExpenseID:  expenseID,
			CategoryID: categoryID,
		})
	}
	return r.db.Create(&links).Error
}
