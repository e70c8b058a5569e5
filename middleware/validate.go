package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"spendtrack/models"

	"github.com/gin-gonic/gin"
)

// FieldType expected JSON type for a field
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeArray   FieldType = "array"
	TypeBoolean FieldType = "boolean"
)

// FieldValidator custom predicate for one field. Returns an error message or
// "" when the value passes. The full body is available for cross-field rules.
type FieldValidator func(value interface{}, body map[string]interface{}) string

// Rules declarative validation schema for a request body. The rule set is
// data, evaluated by the single Validate middleware.
type Rules struct {
	Required []string
	Types    map[string]FieldType
	Custom   map[string]FieldValidator
}

// Validate checks the JSON body against the rule set, aborting with
// 400 {"error":"Validation failed","details":[...]} on any violation. The
// body is restored so downstream handlers can bind it again. Type and custom
// checks are skipped for absent or empty values; Required catches those.
func Validate(rules Rules) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))

		body := map[string]interface{}{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
				c.Abort()
				return
			}
		}

		var errs []string

		for _, field := range rules.Required {
			if isAbsent(body[field]) {
				errs = append(errs, fmt.Sprintf("Field '%s' is required", field))
			}
		}

		for field, expected := range rules.Types {
			value := body[field]
			if isAbsent(value) {
				continue
			}
			if msg := checkType(field, value, expected); msg != "" {
				errs = append(errs, msg)
			}
		}

		for field, validator := range rules.Custom {
			value := body[field]
			if isAbsent(value) {
				continue
			}
			if msg := validator(value, body); msg != "" {
				errs = append(errs, msg)
			}
		}

		if len(errs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Validation failed",
				"details": errs,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func isAbsent(value interface{}) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok && s == "" {
		return true
	}
	return false
}

func checkType(field string, value interface{}, expected FieldType) string {
	switch expected {
	case TypeNumber:
		if _, ok := value.(float64); !ok {
			return fmt.Sprintf("Field '%s' must be a number", field)
		}
	case TypeString:
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("Field '%s' must be a string", field)
		}
	case TypeArray:
		if _, ok := value.([]interface{}); !ok {
			return fmt.Sprintf("Field '%s' must be an array", field)
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("Field '%s' must be a boolean", field)
		}
	}
	return ""
}

var dateFormatRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// PositiveNumber value must be a number greater than zero
func PositiveNumber(value interface{}, _ map[string]interface{}) string {
	n, ok := value.(float64)
	if !ok || n <= 0 {
		return "Must be a positive number"
	}
	return ""
}

// DateFormat value must match YYYY-MM-DD
func DateFormat(value interface{}, _ map[string]interface{}) string {
	s, ok := value.(string)
	if !ok || !dateFormatRe.MatchString(s) {
		return "Invalid date format. Use YYYY-MM-DD"
	}
	return ""
}

// Role value must be "user" or "admin"
func Role(value interface{}, _ map[string]interface{}) string {
	s, ok := value.(string)
	if !ok || !models.ValidRole(s) {
		return `Role must be either "user" or "admin"`
	}
	return ""
}

// MinLength string value must be at least min characters long
func MinLength(min int) FieldValidator {
	return func(value interface{}, _ map[string]interface{}) string {
		if s, ok := value.(string); ok && len(s) < min {
			return fmt.Sprintf("Must be at least %d characters long", min)
		}
		return ""
	}
}

// MaxLength string value must be at most max characters long
func MaxLength(max int) FieldValidator {
	return func(value interface{}, _ map[string]interface{}) string {
		if s, ok := value.(string); ok && len(s) > max {
			return fmt.Sprintf("Must be at most %d characters long", max)
		}
		return ""
	}
}
