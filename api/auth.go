package api

import (
	"spendtrack/config"
	"spendtrack/middleware"
	"spendtrack/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler registration, login, and logout
type AuthHandler struct {
	cfg  *config.Config
	auth *service.AuthService
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(cfg *config.Config, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{cfg: cfg, auth: auth}
}

// RegisterRules validation schema for POST /auth/register
var RegisterRules = middleware.Rules{
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

// LoginRules validation schema for POST /auth/login
var LoginRules = middleware.Rules{
	Required: []string{"first_name", "password"},
	Types: map[string]middleware.FieldType{
		"first_name": middleware.TypeString,
		"password":   middleware.TypeString,
	},
}

// setTokenCookie places the session token in an http-only cookie with
// max-age equal to the token lifetime
func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	secure, sameSite := getCookieOptions()
	c.SetSameSite(sameSite)
	c.SetCookie("token", token, int(h.cfg.JWT.ExpireTime.Seconds()), "/", h.cfg.Server.CookieDomain, secure, true)
}

// Register creates an account and logs the new identity in
// @Summary Register a new user
// @Description Creates a user (default role "user"), sets the session cookie, and returns the created user.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "registration fields"
// @Success 201 {object} map[string]interface{} "user and confirmation message"
// @Failure 400 {object} map[string]interface{} "validation error"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.auth.Register(input)
	if err != nil {
		FromError(c, err)
		return
	}

	h.setTokenCookie(c, token)
	Created(c, gin.H{
		"user":    user,
		"message": "Registration successful",
	})
}

// Login authenticates by first_name and password
// @Summary Login
// @Description Verifies credentials, sets the session cookie, and returns the user. Unknown identity and wrong password produce the same error.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "credentials"
// @Success 200 {object} map[string]interface{} "user and confirmation message"
// @Failure 401 {object} map[string]interface{} "invalid credentials"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.auth.Login(input)
	if err != nil {
		FromError(c, err)
		return
	}

	h.setTokenCookie(c, token)
	OK(c, gin.H{
		"user":    user,
		"message": "Login successful",
	})
}

// Logout clears the session cookie
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{} "confirmation message"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	secure, sameSite := getCookieOptions()
	c.SetSameSite(sameSite)
	c.SetCookie("token", "", -1, "/", h.cfg.Server.CookieDomain, secure, true)
	Message(c, "Logout successful")
}
