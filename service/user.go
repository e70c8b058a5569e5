package service

import (
	"errors"

	"spendtrack/apperr"
	"spendtrack/models"
	"spendtrack/repository"

	"gorm.io/gorm"
)

// UserService user CRUD
type UserService struct {
	users *repository.UserRepository
}

// NewUserService creates a user service
func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// UserInput create/update fields. An empty Password on update keeps the
// stored hash; a non-empty one is re-hashed.
type UserInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// GetAll returns all non-deleted users
func (s *UserService) GetAll() ([]models.User, error) {
	users, err := s.users.FindAll()
	if err != nil {
		return nil, apperr.Internal("Failed to fetch users", err)
	}
	return users, nil
}

// GetByID returns one user
func (s *UserService) GetByID(id uint) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Failed to fetch user", err)
	}
	return user, nil
}

// Create creates a user with a hashed password; role defaults to "user"
func (s *UserService) Create(input UserInput) (*models.User, error) {
	if input.FirstName == "" || input.LastName == "" || input.Password == "" {
		return nil, apperr.Validation("Missing required fields: first_name, last_name, password")
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, apperr.Validation(`Role must be either "user" or "admin"`)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}

	user := models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(&user); err != nil {
		return nil, apperr.Internal("Failed to create user", err)
	}
	return &user, nil
}

// Update edits a user's profile. The stored password hash is preserved when
// no new password is supplied; a supplied password is always re-hashed and
// never stored in plaintext.
func (s *UserService) Update(id uint, input UserInput) (*models.User, error) {
	if input.FirstName == "" || input.LastName == "" {
		return nil, apperr.Validation("Missing required fields: first_name, last_name")
	}

	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"first_name": input.FirstName,
		"last_name":  input.LastName,
	}
	if input.Password != "" {
		hash, err := HashPassword(input.Password)
		if err != nil {
			return nil, apperr.Internal("Failed to hash password", err)
		}
		fields["password_hash"] = hash
	}
	if input.Role != "" {
		if !models.ValidRole(input.Role) {
			return nil, apperr.Validation(`Role must be either "user" or "admin"`)
		}
		fields["role"] = input.Role
	}

	if _, err := s.users.Update(id, fields); err != nil {
		return nil, apperr.Internal("Failed to update user", err)
	}

	return s.GetByID(id)
}

// Delete soft-deletes a user. A second call on the same id reports not found;
// the row stays invisible either way.
func (s *UserService) Delete(id uint) error {
	affected, err := s.users.SoftDelete(id)
	if err != nil {
		return apperr.Internal("Failed to delete user", err)
	}
	if affected == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}
