package api

import (
	"spendtrack/middleware"
	"spendtrack/service"

	"github.com/gin-gonic/gin"
)

// UserHandler user management. Route-level gating (admin, owner-or-admin)
// lives in the middleware; these handlers assume it already ran.
type UserHandler struct {
	users    *service.UserService
	expenses *service.ExpenseService
}

// NewUserHandler creates a user handler
func NewUserHandler(users *service.UserService, expenses *service.ExpenseService) *UserHandler {
	return &UserHandler{users: users, expenses: expenses}
}

// UserCreateRules validation schema for POST /users
var UserCreateRules = middleware.Rules{
	Required: []string{"first_name", "last_name", "password"},
	Types: map[string]middleware.FieldType{
		"first_name": middleware.TypeString,
		"last_name":  middleware.TypeString,
		"password":   middleware.TypeString,
	},
	Custom: map[string]middleware.FieldValidator{
		"role": middleware.Role,
	},
}

// UserUpdateRules validation schema for PUT /users/:id
var UserUpdateRules = middleware.Rules{
	Required: []string{"first_name", "last_name"},
	Types: map[string]middleware.FieldType{
		"first_name": middleware.TypeString,
		"last_name":  middleware.TypeString,
		"password":   middleware.TypeString,
	},
	Custom: map[string]middleware.FieldValidator{
		"role": middleware.Role,
	},
}

// List returns all users (admin only)
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {object} map[string]interface{} "admin required"
// @Router /api/v1/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.GetAll()
	if err != nil {
		FromError(c, err)
		return
	}
	OK(c, users)
}

// Get returns one user (owner or admin)
// @Summary Get a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {object} models.User
// @Failure 403 {object} map[string]interface{} "not the owner"
// @Failure 404 {object} map[string]interface{} "user not found"
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.GetByID(id)
	if err != nil {
		FromError(c, err)
		return
	}
	OK(c, user)
}

// Create creates a user (public, equivalent to registration without login)
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body service.UserInput true "user fields"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]interface{} "validation error"
// @Router /api/v1/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var input service.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}
	user, err := h.users.Create(input)
	if err != nil {
		FromError(c, err)
		return
	}
	Created(c, user)
}

// Update edits a user (owner or admin). Password is optional; when absent
// the stored hash is kept.
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Param request body service.UserInput true "user fields"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]interface{} "validation error"
// @Failure 404 {object} map[string]interface{} "user not found"
// @Router /api/v1/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input service.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}
	user, err := h.users.Update(id, input)
	if err != nil {
		FromError(c, err)
		return
	}
	OK(c, user)
}

// Delete soft-deletes a user (admin only)
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {object} map[string]interface{} "confirmation message"
// @Failure 404 {object} map[string]interface{} "user not found"
// @Router /api/v1/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(id); err != nil {
		FromError(c, err)
		return
	}
	Message(c, "User deleted successfully")
}

// GetExpenses returns one user's expenses (owner or admin)
// @Summary List a user's expenses
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {array} models.Expense
// @Failure 403 {object} map[string]interface{} "not the owner"
// @Router /api/v1/users/{id}/expenses [get]
func (h *UserHandler) GetExpenses(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	expenses, err := h.expenses.GetByUserID(id)
	if err != nil {
		FromError(c, err)
		return
	}
	OK(c, expenses)
}
