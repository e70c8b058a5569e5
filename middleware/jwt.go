package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spendtrack/config"
	"spendtrack/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// Claims identity fields embedded in the session token. They are the only
// source of identity downstream; role or name changes take effect when the
// holder re-authenticates.
type Claims struct {
	UserID    uint   `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// InitJWT initializes the signing secret
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
}

// GenerateToken issues a signed token for the user with an absolute expiry
func GenerateToken(user *models.User, expire time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.UserID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatUint(uint64(user.UserID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseToken verifies a token and returns its claims. Any malformed, badly
// signed, or expired token yields an error; callers treat that as
// unauthenticated, never as a crash.
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// extractToken pulls the session token from the "token" cookie, falling back
// to an Authorization: Bearer header for API clients without cookies.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// JWTAuth authenticates the request and attaches the verified claims to the
// context. Route-level role gating happens in AdminOnly/OwnerOrAdmin; row
// ownership for categories and expenses is checked in handlers after the
// record is loaded.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided. Please login."})
			c.Abort()
			return
		}

		claims, err := ParseToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// AdminOnly gates a route to admin claims. Must run after JWTAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetCurrentRole(c) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Admin role required."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// OwnerOrAdmin gates a route whose :id parameter names the target user:
// admins pass, everyone else only for their own id. Must run after JWTAuth.
func OwnerOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
			c.Abort()
			return
		}
		if GetCurrentRole(c) != models.RoleAdmin && GetCurrentUserID(c) != uint(id) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. You can only access your own resources."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetCurrentClaims returns the verified claims attached by JWTAuth
func GetCurrentClaims(c *gin.Context) *Claims {
	if v, exists := c.Get("claims"); exists {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}

// GetCurrentUserID returns the authenticated user id, 0 when unauthenticated
func GetCurrentUserID(c *gin.Context) uint {
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetCurrentRole returns the authenticated role, "" when unauthenticated
func GetCurrentRole(c *gin.Context) string {
	if v, exists := c.Get("role"); exists {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

// IsAdminRequest reports whether the request carries admin claims
func IsAdminRequest(c *gin.Context) bool {
	return GetCurrentRole(c) == models.RoleAdmin
}
