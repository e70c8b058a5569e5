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

func categoryRouter(db *gorm.DB, userID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCategoryHandler(service.NewCategoryService(repository.NewCategoryRepository(db)))
	r := gin.New()
	r.Use(asIdentity(userID, role))
	r.GET("/categories", h.List)
	r.GET("/categories/:id", h.Get)
	r.POST("/categories", middleware.Validate(CategoryWriteRules), h.Create)
	r.DELETE("/categories/:id", h.Delete)
	return r
}

func TestCategoryHandler_List_ScopedToOwner(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(categoryTestColumns()).
			AddRow(1, 3, "Food", "", now, now, nil))

	router := categoryRouter(db, 3, models.RoleUser)
	req := httptest.NewRequest("GET", "/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Food", resp[0]["name"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_List_AdminSeesEveryOwner(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows(categoryTestColumns()).
			AddRow(1, 3, "Food", "", now, now, nil).
			AddRow(2, 4, "Travel", "", now, now, nil))

	router := categoryRouter(db, 1, models.RoleAdmin)
	req := httptest.NewRequest("GET", "/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestCategoryHandler_Get_OtherOwnerLooksMissing(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	// scoped query finds nothing for this caller
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows(categoryTestColumns()))

	router := categoryRouter(db, 2, models.RoleUser)
	req := httptest.NewRequest("GET", "/categories/4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Category not found"}`, w.Body.String())
}

func TestCategoryHandler_Create_DefaultsToOwnID(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count.* FROM `categories`").
		WithArgs(3, "Food").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	// the body names another user; non-admins still create for themselves
	router := categoryRouter(db, 3, models.RoleUser)
	body := `{"user_id":1,"name":"Food"}`
	req := httptest.NewRequest("POST", "/categories", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(3), resp["user_id"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_Create_DuplicateName(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count.* FROM `categories`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	router := categoryRouter(db, 3, models.RoleUser)
	body := `{"name":"Food"}`
	req := httptest.NewRequest("POST", "/categories", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Category with this name already exists for this user"}`, w.Body.String())
}

func TestCategoryHandler_Delete(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows(categoryTestColumns()).
			AddRow(4, 3, "Food", "", now, now, nil))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `categories` SET `deleted_at`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := categoryRouter(db, 3, models.RoleUser)
	req := httptest.NewRequest("DELETE", "/categories/4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Category deleted successfully"}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
