package service

import (
	"errors"
	"time"

	"spendtrack/apperr"
	"spendtrack/models"
	"spendtrack/repository"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// ExpenseService expense CRUD plus the expense-category association ops.
// Holds the raw DB handle alongside the repository so category replace-sets
// run inside a single transaction.
type ExpenseService struct {
	db       *gorm.DB
	expenses *repository.ExpenseRepository
}

// NewExpenseService creates an expense service
func NewExpenseService(db *gorm.DB, expenses *repository.ExpenseRepository) *ExpenseService {
	return &ExpenseService{db: db, expenses: expenses}
}

// ExpenseInput create/update fields. A nil CategoryIDs leaves the category
// set untouched; a non-nil slice (including empty) replaces it entirely.
type ExpenseInput struct {
	UserID      uint    `json:"user_id"`
	ExpenseDate string  `json:"expense_date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	StoreName   string  `json:"store_name"`
	CategoryIDs []uint  `json:"category_ids"`
}

func (in *ExpenseInput) validate() (time.Time, error) {
	if in.UserID == 0 || in.ExpenseDate == "" || in.Amount == 0 {
		return time.Time{}, apperr.Validation("Missing required fields: user_id, expense_date, amount")
	}
	if in.Amount <= 0 {
		return time.Time{}, apperr.Validation("Amount must be a positive number")
	}
	date, err := time.ParseInLocation(dateLayout, in.ExpenseDate, time.Local)
	if err != nil {
		return time.Time{}, apperr.Validation("Invalid date format. Use YYYY-MM-DD")
	}
	return date, nil
}

// GetAll returns all non-deleted expenses with their attached categories
func (s *ExpenseService) GetAll() ([]models.Expense, error) {
	expenses, err := s.expenses.FindAll()
	if err != nil {
		return nil, apperr.Internal("Failed to fetch expenses", err)
	}
	if err := s.attachCategories(expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// GetByID returns one expense with its attached categories
func (s *ExpenseService) GetByID(id uint) (*models.Expense, error) {
	expense, err := s.expenses.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Expense not found")
		}
		return nil, apperr.Internal("Failed to fetch expense", err)
	}

	categories, err := s.expenses.CategoriesFor(id)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch expense categories", err)
	}
	expense.Categories = categories
	return expense, nil
}

// GetByUserID returns one user's non-deleted expenses with categories
func (s *ExpenseService) GetByUserID(userID uint) ([]models.Expense, error) {
	expenses, err := s.expenses.FindByUserID(userID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch expenses", err)
	}
	if err := s.attachCategories(expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// Create inserts an expense. When category_ids is supplied the insert and
// the link rows commit in one transaction.
func (s *ExpenseService) Create(input ExpenseInput) (*models.Expense, error) {
	date, err := input.validate()
	if err != nil {
		return nil, err
	}

	expense := models.Expense{
		UserID:      input.UserID,
		ExpenseDate: date,
		Amount:      input.Amount,
		Description: input.Description,
		StoreName:   input.StoreName,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.expenses.WithTx(tx)
		if err := repo.Create(&expense); err != nil {
			return err
		}
		if input.CategoryIDs != nil {
			return repo.ReplaceCategories(expense.ExpenseID, input.CategoryIDs)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal("Failed to create expense", err)
	}

	return s.GetByID(expense.ExpenseID)
}

// Update edits an expense. When category_ids is supplied the row update and
// the replace-set commit together, so a concurrent reader never observes the
// expense with a partially replaced category set.
func (s *ExpenseService) Update(id uint, input ExpenseInput) (*models.Expense, error) {
	date, err := input.validate()
	if err != nil {
		return nil, err
	}

	if _, err := s.expenses.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Expense not found")
		}
		return nil, apperr.Internal("Failed to fetch expense", err)
	}

	fields := map[string]interface{}{
		"user_id":      input.UserID,
		"expense_date": date,
		"amount":       input.Amount,
		"description":  input.Description,
		"store_name":   input.StoreName,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.expenses.WithTx(tx)
		if _, err := repo.Update(id, fields); err != nil {
			return err
		}
		if input.CategoryIDs != nil {
			return repo.ReplaceCategories(id, input.CategoryIDs)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal("Failed to update expense", err)
	}

	return s.GetByID(id)
}

// Delete soft-deletes an expense
func (s *ExpenseService) Delete(id uint) error {
	affected, err := s.expenses.SoftDelete(id)
	if err != nil {
		return apperr.Internal("Failed to delete expense", err)
	}
	if affected == 0 {
		return apperr.NotFound("Expense not found")
	}
	return nil
}

// AddCategoryToExpense links one category to an expense and returns the
// refreshed expense
func (s *ExpenseService) AddCategoryToExpense(expenseID, categoryID uint) (*models.Expense, error) {
	if _, err := s.GetByID(expenseID); err != nil {
		return nil, err
	}
	if err := s.expenses.AddCategory(expenseID, categoryID); err != nil {
		return nil, apperr.Internal("Failed to add category to expense", err)
	}
	return s.GetByID(expenseID)
}

// RemoveCategoryFromExpense unlinks one category and returns the refreshed
// expense
func (s *ExpenseService) RemoveCategoryFromExpense(expenseID, categoryID uint) (*models.Expense, error) {
	affected, err := s.expenses.RemoveCategory(expenseID, categoryID)
	if err != nil {
		return nil, apperr.Internal("Failed to remove category from expense", err)
	}
	if affected == 0 {
		return nil, apperr.NotFound("Category not found for this expense")
	}
	return s.GetByID(expenseID)
}

func (s *ExpenseService) attachCategories(expenses []models.Expense) error {
	ids := make([]uint, 0, len(expenses))
	for _, e := range expenses {
		ids = append(ids, e.ExpenseID)
	}
	byExpense, err := s.expenses.CategoriesForMany(ids)
	if err != nil {
		return apperr.Internal("Failed to fetch expense categories", err)
	}
	for i := range expenses {
		if cats, ok := byExpense[expenses[i].ExpenseID]; ok {
			expenses[i].Categories = cats
		} else {
			expenses[i].Categories = []models.Category{}
		}
	}
	return nil
}
