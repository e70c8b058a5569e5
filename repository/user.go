// Package repository maps models to storage. Repositories stay free of
// domain rules: they return rows and affected counts, and every read honors
// the soft-delete flag (gorm scopes deleted rows out of all queries).
package repository

import (
	"spendtrack/models"

	"gorm.io/gorm"
)

// UserRepository storage access for users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy bound to the given transaction
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// FindAll returns all non-deleted users
func (r *UserRepository) FindAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("user_id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindByID returns one user or gorm.ErrRecordNotFound
func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByFirstName returns the non-deleted user with the given first name.
// first_name carries no uniqueness constraint; on collision the lowest
// user_id wins, deterministically.
func (r *UserRepository) FindByFirstName(firstName string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("first_name = ?", firstName).Order("user_id ASC").First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a user and fills in its generated id
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update applies the given fields to a non-deleted user, returning the
// affected-row count
func (r *UserRepository) Update(id uint, fields map[string]interface{}) (int64, error) {
	res := r.db.Model(&models.User{}).Where("user_id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

// SoftDelete marks a user deleted, returning the affected-row count
func (r *UserRepository) SoftDelete(id uint) (int64, error) {
	res := r.db.Where("user_id = ?", id).Delete(&models.User{})
	return res.RowsAffected, res.Error
}
