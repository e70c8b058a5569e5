package api

import (
	"spendtrack/middleware"
	"spendtrack/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler category management. Categories are owner-scoped: users
// see and touch only their own rows, admins operate unscoped.
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler creates a category handler
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CategoryWriteRules validation schema for category create/update
var CategoryWriteRules = middleware.Rules{
	Required: []string{"name"},
	Types: map[string]middleware.FieldType{
		"name":        middleware.TypeString,
		"description": middleware.TypeString,
	},
}

// scopeFor returns the ownership scope for the caller: nil (unscoped) for
// admins, the caller's own id otherwise
func scopeFor(c *gin.Context) *uint {
	if middleware.IsAdminRequest(c) {
		return nil
	}
	id := middleware.GetCurrentUserID(c)
	return &id
}

// List returns categories visible to the caller
// @Summary List categories
// @Description Users get their own categories; admins get everyone's.
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Category
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categories.GetAll(scopeFor(c))
	if err != nil {
		FromError(c, err)
		return
	}
	OK(c, categories)
}

// Get returns one category visible to the caller
// @Summary Get a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} models.Category
// @Failure 404 {object} map[string]interface{} "category not found"
// @Router /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	category, err := h.categories.GetByID(id, scopeFor(c))
	if err != nil {
		FromError(c, err)
		return
	}
	OK(c, category)
}

// Create creates a category. Non-admins always create for themselves; an
// admin may create on behalf of another user by passing user_id.
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CategoryInput true "category fields"
// @Success 201 {object} models.Category
// @Failure 400 {object} map[string]interface{} "validation error or duplicate name"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var input service.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	if !middleware.IsAdminRequest(c) || input.UserID == 0 {
		input.UserID = middleware.GetCurrentUserID(c)
	}

	category, err := h.categories.Create(input)
	if err != nil {
		FromError(c, err)
		return
	}
	Created(c, category)
}

// Update edits a category within the caller's scope
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Param request body service.CategoryInput true "category fields"
// @Success 200 {object} models.Category
// @Failure 400 {object} map[string]interface{} "validation error or duplicate name"
// @Failure 404 {object} map[string]interface{} "category not found"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input service.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categories.Update(id, input, scopeFor(c))
	if err != nil {
		FromError(c, err)
		return
	}
	OK(c, category)
}

// Delete soft-deletes a category within the caller's scope
// @Summary Delete a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} map[string]interface{} "confirmation message"
// @Failure 404 {object} map[string]interface{} "category not found"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.categories.Delete(id, scopeFor(c)); err != nil {
		FromError(c, err)
		return
	}
	Message(c, "Category deleted successfully")
}
