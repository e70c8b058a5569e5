package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spendtrack/config"
	"spendtrack/middleware"
	"spendtrack/repository"
	"spendtrack/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func authRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.GetConfig()

	h := NewAuthHandler(cfg, service.NewAuthService(repository.NewUserRepository(db), cfg))
	r := gin.New()
	r.POST("/register", middleware.Validate(RegisterRules), h.Register)
	r.POST("/login", middleware.Validate(LoginRules), h.Login)
	r.POST("/logout", h.Logout)
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	_, restore := setupTestConfig()
	defer restore()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := authRouter(db)

	body := `{"first_name":"Jane","last_name":"Doe","password":"secret123"}`
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Registration successful", resp["message"])

	user, ok := resp["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Jane", user["first_name"])
	assert.Equal(t, "user", user["role"])
	// the hash never leaves the server
	assert.NotContains(t, user, "password_hash")

	// session cookie set
	var tokenCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" {
			tokenCookie = cookie
		}
	}
	require.NotNil(t, tokenCookie)
	assert.NotEmpty(t, tokenCookie.Value)
	assert.True(t, tokenCookie.HttpOnly)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_ValidationDetails(t *testing.T) {
	db, _, cleanup := setupMockDB(t)
	defer cleanup()
	_, restore := setupTestConfig()
	defer restore()

	router := authRouter(db)

	body := `{"first_name":"Jane","last_name":"Doe"}`
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp["error"])
	assert.Contains(t, resp["details"], "Field 'password' is required")
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	_, restore := setupTestConfig()
	defer restore()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	now := time.Now()

	// unknown first name
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userTestColumns()))
	// known first name, wrong password
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userTestColumns()).
			AddRow(3, "Jane", "Doe", string(hash), "user", now, now, nil))

	router := authRouter(db)

	for _, body := range []string{
		`{"first_name":"Ghost","password":"whatever"}`,
		`{"first_name":"Jane","password":"wrong"}`,
	} {
		req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		// both failures answer identically
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	_, restore := setupTestConfig()
	defer restore()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userTestColumns()).
			AddRow(3, "Jane", "Doe", string(hash), "user", now, now, nil))

	router := authRouter(db)

	body := `{"first_name":"Jane","password":"secret123"}`
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Login successful", resp["message"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Logout(t *testing.T) {
	db, _, cleanup := setupMockDB(t)
	defer cleanup()
	_, restore := setupTestConfig()
	defer restore()

	router := authRouter(db)

	req := httptest.NewRequest("POST", "/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logout successful"}`, w.Body.String())

	var tokenCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" {
			tokenCookie = cookie
		}
	}
	require.NotNil(t, tokenCookie)
	assert.Empty(t, tokenCookie.Value)
	assert.Negative(t, tokenCookie.MaxAge)
}
