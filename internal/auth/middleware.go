package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Dayavats/samvaad/internal/domain"
	"github.com/Dayavats/samvaad/pkg/response"
)

const (
	UserIDKey     = "user_id"
	NameKey       = "name"
	RoleKey       = "role"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Middleware validates bearer tokens on REST routes.
type Middleware struct {
	tokens *Manager
}

// NewMiddleware creates the auth middleware around a token manager.
func NewMiddleware(tokens *Manager) *Middleware {
	return &Middleware{tokens: tokens}
}

// RequireAuth validates the bearer token and stores the caller's
// identity in the Gin context.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "invalid authorization format")
			return
		}

		claims, err := m.tokens.Validate(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(NameKey, claims.Name)
		c.Set(RoleKey, claims.Role)

		c.Next()
	}
}

// RequireAdmin rejects callers whose token does not carry the admin
// role. Must run after RequireAuth.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Response{
				Success: false,
				Error:   &response.ErrorInfo{Code: response.CodeForbidden, Message: "admin access required"},
			})
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, response.Response{
		Success: false,
		Error:   &response.ErrorInfo{Code: response.CodeUnauthorized, Message: message},
	})
}

// GetUserID extracts the caller's user ID from the Gin context.
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(UserIDKey); exists {
		return id.(string)
	}
	return ""
}

// GetRole extracts the caller's role from the Gin context.
func GetRole(c *gin.Context) string {
	if role, exists := c.Get(RoleKey); exists {
		return role.(string)
	}
	return ""
}
