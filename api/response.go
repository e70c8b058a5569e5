package api

import (
	"net/http"
	"strconv"

	"spendtrack/apperr"
	"spendtrack/config"

	"github.com/gin-gonic/gin"
)

// OK 200 with the raw resource as the body
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 with the raw resource as the body
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 200 with a message body
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Error error response of the given status
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// BadRequest 400 error response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Forbidden 403 error response
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound 404 error response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500 error response
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// FromError maps a service error to its HTTP status and client message
func FromError(c *gin.Context, err error) {
	Error(c, apperr.StatusCode(err), apperr.Message(err))
}

// parseID parses a numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		BadRequest(c, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// getCookieOptions returns cookie security options for the running mode.
// Release mode enables Secure; SameSite=Lax keeps cross-site POSTs from
// carrying the cookie while allowing same-site navigation.
func getCookieOptions() (secure bool, sameSite http.SameSite) {
	cfg := config.GetConfig()
	if cfg != nil && cfg.Server.Mode == "release" {
		secure = true
	}
	sameSite = http.SameSiteLaxMode
	return
}
