package repository

import (
	"spendtrack/models"

	"gorm.io/gorm"
)

// CategoryRepository storage access for categories
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a category repository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// WithTx returns a copy bound to the given transaction
func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

// scoped narrows a query to one owner when scopeUserID is non-nil.
// A nil scope is the unscoped admin view.
func scoped(q *gorm.DB, scopeUserID *uint) *gorm.DB {
	if scopeUserID != nil {
		return q.Where("user_id = ?", *scopeUserID)
	}
	return q
}

// FindAll returns non-deleted categories, optionally scoped to one owner
func (r *CategoryRepository) FindAll(scopeUserID *uint) ([]models.Category, error) {
	var categories []models.Category
	q := scoped(r.db.Order("category_id ASC"), scopeUserID)
	if err := q.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByID returns one category, optionally scoped to one owner, or
// gorm.ErrRecordNotFound
func (r *CategoryRepository) FindByID(id uint, scopeUserID *uint) (*models.Category, error) {
	var category models.Category
	q := scoped(r.db.Where("category_id = ?", id), scopeUserID)
	if err := q.First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// NameExists reports whether the owner already has a non-deleted category
// with this name. excludeID skips one row, for update checks.
func (r *CategoryRepository) NameExists(userID uint, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&models.Category{}).Where("user_id = ? AND name = ?", userID, name)
	if excludeID != 0 {
		q = q.Where("category_id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a category and fills in its generated id
func (r *CategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// Update applies the given fields to a non-deleted category, returning the
// affected-row count
func (r *CategoryRepository) Update(id uint, fields map[string]interface{}) (int64, error) {
	res := r.db.Model(&models.Category{}).Where("category_id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

// SoftDelete marks a category deleted, returning the affected-row count
func (r *CategoryRepository) SoftDelete(id uint) (int64, error) {
	res := r.db.Where("category_id = ?", id).Delete(&models.Category{})
	return res.RowsAffected, res.Error
}
