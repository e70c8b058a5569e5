package api

import (
	"spendtrack/middleware"
	"spendtrack/models"
	"spendtrack/service"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler expense management. The owning user id lives in the row,
// not the URL, so ownership is decided here after the record is loaded: a
// missing row answers 404 before anyone learns whether it exists, an
// existing row owned by someone else answers 403. That ordering must hold.
type ExpenseHandler struct {
	expenses *service.ExpenseService
}

// NewExpenseHandler creates an expense handler
func NewExpenseHandler(expenses *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// ExpenseWriteRules validation schema for expense create/update
var ExpenseWriteRules = middleware.Rules{
	Required: []string{"user_id", "expense_date", "amount"},
	Types: map[string]middleware.FieldType{
		"user_id":      middleware.TypeNumber,
		"amount":       middleware.TypeNumber,
		"expense_date": middleware.TypeString,
		"description":  middleware.TypeString,
		"store_name":   middleware.TypeString,
		"category_ids": middleware.TypeArray,
	},
	Custom: map[string]middleware.FieldValidator{
		"amount":       middleware.PositiveNumber,
		"expense_date": middleware.DateFormat,
	},
}

// ownsOrAdmin reports whether the caller may act on the loaded expense
func ownsOrAdmin(c *gin.Context, expense *models.Expense) bool {
	return middleware.IsAdminRequest(c) || expense.UserID == middleware.GetCurrentUserID(c)
}

// List returns all expenses (admin only; users list their own through
// /users/:id/expenses)
// @Summary List all expenses
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Expense
// @Failure 403 {object} map[string]interface{} "admin required"
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	expenses, err := h.expenses.GetAll()
	if err != nil {
		FromError(c, err)
		return
	}
	OK(c, expenses)
}

// Get returns one expense after the ownership check
// @Summary Get an expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Success 200 {object} models.Expense
// @Failure 403 {object} map[string]interface{} "not the owner"
// @Failure 404 {object} map[string]interface{} "expense not found"
// @Router /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	expense, err := h.expenses.GetByID(id)
	if err != nil {
		FromError(c, err)
		return
	}
	if !ownsOrAdmin(c, expense) {
		Forbidden(c, "Access denied. You can only access your own expenses.")
		return
	}
	OK(c, expense)
}

// Create creates an expense. Non-admins may only create for themselves.
// @Summary Create an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ExpenseInput true "expense fields"
// @Success 201 {object} models.Expense
// @Failure 400 {object} map[string]interface{} "validation error"
// @Failure 403 {object} map[string]interface{} "creating for another user"
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var input service.ExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	if !middleware.IsAdminRequest(c) && input.UserID != middleware.GetCurrentUserID(c) {
		Forbidden(c, "Access denied. You can only create expenses for yourself.")
		return
	}

	expense, err := h.expenses.Create(input)
	if err != nil {
		FromError(c, err)
		return
	}
	Created(c, expense)
}

// Update edits an expense after the load-then-ownership check
// @Summary Update an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Param request body service.ExpenseInput true "expense fields; category_ids replaces the whole set"
// @Success 200 {object} models.Expense
// @Failure 400 {object} map[string]interface{} "validation error"
// @Failure 403 {object} map[string]interface{} "not the owner"
// @Failure 404 {object} map[string]interface{} "expense not found"
// @Router /api/v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	expense, err := h.expenses.GetByID(id)
	if err != nil {
		FromError(c, err)
		return
	}
	if !ownsOrAdmin(c, expense) {
		Forbidden(c, "Access denied. You can only update your own expenses.")
		return
	}

	var input service.ExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.expenses.Update(id, input)
	if err != nil {
		FromError(c, err)
		return
	}
	OK(c, updated)
}

// Delete soft-deletes an expense after the load-then-ownership check
// @Summary Delete an expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Success 200 {object} map[string]interface{} "confirmation message"
// @Failure 403 {object} map[string]interface{} "not the owner"
// @Failure 404 {object} map[string]interface{} "expense not found"
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	expense, err := h.expenses.GetByID(id)
	if err != nil {
		FromError(c, err)
		return
	}
	if !ownsOrAdmin(c, expense) {
		Forbidden(c, "Access denied. You can only delete your own expenses.")
		return
	}

	if err := h.expenses.Delete(id); err != nil {
		FromError(c, err)
		return
	}
	Message(c, "Expense deleted successfully")
}

// AddCategory links a category to an expense
// @Summary Attach a category to an expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Param categoryId path int true "category id"
// @Success 200 {object} models.Expense
// @Failure 403 {object} map[string]interface{} "not the owner"
// @Failure 404 {object} map[string]interface{} "expense not found"
// @Router /api/v1/expenses/{id}/categories/{categoryId} [post]
func (h *ExpenseHandler) AddCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseID(c, "categoryId")
	if !ok {
		return
	}
	expense, err := h.expenses.GetByID(id)
	if err != nil {
		FromError(c, err)
		return
	}
	if !ownsOrAdmin(c, expense) {
		Forbidden(c, "Access denied. You can only update your own expenses.")
		return
	}

	updated, err := h.expenses.AddCategoryToExpense(id, categoryID)
	if err != nil {
		FromError(c, err)
		return
	}
	OK(c, updated)
}

// RemoveCategory unlinks a category from an expense
// @Summary Detach a category from an expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Param categoryId path int true "category id"
// @Success 200 {object} models.Expense
// @Failure 403 {object} map[string]interface{} "not the owner"
// @Failure 404 {object} map[string]interface{} "expense or link not found"
// @Router /api/v1/expenses/{id}/categories/{categoryId} [delete]
func (h *ExpenseHandler) RemoveCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseID(c, "categoryId")
	if !ok {
		return
	}
	expense, err := h.expenses.GetByID(id)
	if err != nil {
		FromError(c, err)
		return
	}
	if !ownsOrAdmin(c, expense) {
		Forbidden(c, "Access denied. You can only update your own expenses.")
		return
	}

	updated, err := h.expenses.RemoveCategoryFromExpense(id, categoryID)
	if err != nil {
		FromError(c, err)
		return
	}
	OK(c, updated)
}
