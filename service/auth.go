// Package service holds the domain rules. Every operation returns its data
// plus an error that is always an apperr kind; storage faults never cross
// this boundary raw.
package service

import (
	"errors"

	"spendtrack/apperr"
	"spendtrack/config"
	"spendtrack/middleware"
	"spendtrack/models"
	"spendtrack/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// HashPassword hashes a plaintext password with bcrypt. One-way, salted.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext matches the stored hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AuthService registration and login
type AuthService struct {
	users *repository.UserRepository
	cfg   *config.Config
}

// NewAuthService creates an auth service
func NewAuthService(users *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{users: users, cfg: cfg}
}

// RegisterInput registration fields
type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// LoginInput login credentials
type LoginInput struct {
	FirstName string `json:"first_name"`
	Password  string `json:"password"`
}

// Register creates a user and issues a token bound to the new identity.
// Role defaults to "user".
func (s *AuthService) Register(input RegisterInput) (*models.User, string, error) {
	if input.FirstName == "" || input.LastName == "" || input.Password == "" {
		return nil, "", apperr.Validation("Missing required fields: first_name, last_name, password")
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, "", apperr.Validation(`Role must be either "user" or "admin"`)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, "", apperr.Internal("Failed to hash password", err)
	}

	user := models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(&user); err != nil {
		return nil, "", apperr.Internal("Failed to create user", err)
	}

	token, err := middleware.GenerateToken(&user, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", apperr.Internal("Failed to generate token", err)
	}

	return &user, token, nil
}

// Login authenticates by first_name and password. Unknown identity and wrong
// password fail with the same message, so callers cannot probe for accounts.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	if input.FirstName == "" || input.Password == "" {
		return nil, "", apperr.Validation("Missing required fields: first_name, password")
	}

	user, err := s.users.FindByFirstName(input.FirstName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.Authentication("Invalid credentials")
		}
		return nil, "", apperr.Internal("Failed to look up user", err)
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, "", apperr.Authentication("Invalid credentials")
	}

	token, err := middleware.GenerateToken(user, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", apperr.Internal("Failed to generate token", err)
	}

	return user, token, nil
}
