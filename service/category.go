package service

import (
	"errors"

	"spendtrack/apperr"
	"spendtrack/models"
	"spendtrack/repository"

	"gorm.io/gorm"
)

// CategoryService category CRUD with optional owner scoping. A nil
// scopeUserID is the unscoped admin view; otherwise every operation only
// sees rows owned by that user.
type CategoryService struct {
	categories *repository.CategoryRepository
}

// NewCategoryService creates a category service
func NewCategoryService(categories *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CategoryInput create/update fields
type CategoryInput struct {
	UserID      uint   `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetAll lists categories within the scope
func (s *CategoryService) GetAll(scopeUserID *uint) ([]models.Category, error) {
	categories, err := s.categories.FindAll(scopeUserID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch categories", err)
	}
	return categories, nil
}

// GetByID returns one category within the scope. A row owned by someone else
// is indistinguishable from a missing row here; the not-found result is what
// scoped callers are meant to see.
func (s *CategoryService) GetByID(id uint, scopeUserID *uint) (*models.Category, error) {
	category, err := s.categories.FindByID(id, scopeUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Category not found")
		}
		return nil, apperr.Internal("Failed to fetch category", err)
	}
	return category, nil
}

// Create creates a category. The owner must not already have a non-deleted
// category with the same name.
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	if input.Name == "" || input.UserID == 0 {
		return nil, apperr.Validation("Missing required fields: name, user_id")
	}

	exists, err := s.categories.NameExists(input.UserID, input.Name, 0)
	if err != nil {
		return nil, apperr.Internal("Failed to check category name", err)
	}
	if exists {
		return nil, apperr.Conflict("Category with this name already exists for this user")
	}

	category := models.Category{
		UserID:      input.UserID,
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.categories.Create(&category); err != nil {
		return nil, apperr.Internal("Failed to create category", err)
	}
	return &category, nil
}

// Update edits a category within the scope. Ownership (user_id) is immutable.
func (s *CategoryService) Update(id uint, input CategoryInput, scopeUserID *uint) (*models.Category, error) {
	if input.Name == "" {
		return nil, apperr.Validation("Missing required field: name")
	}

	existing, err := s.GetByID(id, scopeUserID)
	if err != nil {
		return nil, err
	}

	exists, err := s.categories.NameExists(existing.UserID, input.Name, id)
	if err != nil {
		return nil, apperr.Internal("Failed to check category name", err)
	}
	if exists {
		return nil, apperr.Conflict("Category with this name already exists for this user")
	}

	fields := map[string]interface{}{
		"name":        input.Name,
		"description": input.Description,
	}
	if _, err := s.categories.Update(id, fields); err != nil {
		return nil, apperr.Internal("Failed to update category", err)
	}

	return s.GetByID(id, nil)
}

// Delete soft-deletes a category within the scope
func (s *CategoryService) Delete(id uint, scopeUserID *uint) error {
	if _, err := s.GetByID(id, scopeUserID); err != nil {
		return err
	}

	affected, err := s.categories.SoftDelete(id)
	if err != nil {
		return apperr.Internal("Failed to delete category", err)
	}
	if affected == 0 {
		return apperr.NotFound("Category not found")
	}
	return nil
}
