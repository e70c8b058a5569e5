package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spendtrack/middleware"
	"spendtrack/models"
	"spendtrack/repository"
	"spendtrack/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func expenseRouter(db *gorm.DB, userID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewExpenseHandler(service.NewExpenseService(db, repository.NewExpenseRepository(db)))
	r := gin.New()
	r.Use(asIdentity(userID, role))
	r.GET("/expenses/:id", h.Get)
	r.POST("/expenses", middleware.Validate(ExpenseWriteRules), h.Create)
	r.PUT("/expenses/:id", middleware.Validate(ExpenseWriteRules), h.Update)
	r.DELETE("/expenses/:id", h.Delete)
	r.DELETE("/expenses/:id/categories/:categoryId", h.RemoveCategory)
	return r
}

func TestExpenseHandler_Get_MissingAnswersNotFound(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseTestColumns()))

	// even a non-owner gets 404 for a missing row; existence leaks nothing
	router := expenseRouter(db, 2, models.RoleUser)
	req := httptest.NewRequest("GET", "/expenses/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Expense not found"}`, w.Body.String())
}

func TestExpenseHandler_Get_OtherOwnerForbidden(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseTestColumns()).
			AddRow(7, 1, date, 42.50, "lunch", "Cafe", now, now, nil))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows(categoryTestColumns()))

	// the row exists and belongs to user 1; user 2 is refused after the load
	router := expenseRouter(db, 2, models.RoleUser)
	req := httptest.NewRequest("GET", "/expenses/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Access denied. You can only access your own expenses."}`, w.Body.String())
}

func TestExpenseHandler_Get_AdminReachesAnyRow(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseTestColumns()).
			AddRow(7, 1, date, 42.50, "lunch", "Cafe", now, now, nil))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows(categoryTestColumns()))

	router := expenseRouter(db, 2, models.RoleAdmin)
	req := httptest.NewRequest("GET", "/expenses/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(7), resp["expense_id"])
}

func TestExpenseHandler_Create_ForAnotherUserForbidden(t *testing.T) {
	db, _, cleanup := setupMockDB(t)
	defer cleanup()

	router := expenseRouter(db, 2, models.RoleUser)

	body := `{"user_id":1,"expense_date":"2024-03-15","amount":42.5}`
	req := httptest.NewRequest("POST", "/expenses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Access denied. You can only create expenses for yourself."}`, w.Body.String())
}

func TestExpenseHandler_Create_NegativeAmountRejected(t *testing.T) {
	db, _, cleanup := setupMockDB(t)
	defer cleanup()

	router := expenseRouter(db, 2, models.RoleUser)

	body := `{"user_id":2,"expense_date":"2024-03-15","amount":-10}`
	req := httptest.NewRequest("POST", "/expenses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp["error"])
	assert.Contains(t, resp["details"], "Must be a positive number")
}

func TestExpenseHandler_Create_AmountAsStringRejected(t *testing.T) {
	db, _, cleanup := setupMockDB(t)
	defer cleanup()

	router := expenseRouter(db, 2, models.RoleUser)

	body := `{"user_id":2,"expense_date":"2024-03-15","amount":"42.5"}`
	req := httptest.NewRequest("POST", "/expenses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["details"], "Field 'amount' must be a number")
}

func TestExpenseHandler_Delete(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseTestColumns()).
			AddRow(7, 2, date, 42.50, "lunch", "Cafe", now, now, nil))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows(categoryTestColumns()))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses` SET `deleted_at`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := expenseRouter(db, 2, models.RoleUser)
	req := httptest.NewRequest("DELETE", "/expenses/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Expense deleted successfully"}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
