package middleware

import (
	"net/http"
	"strings"

	"dormhub.io/repairdesk/internal/entity"
	"dormhub.io/repairdesk/pkg/jwt"
	"dormhub.io/repairdesk/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokens *jwt.Manager
}

func NewAuthMiddleware(tokens *jwt.Manager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth verifies the bearer token and stores the identity on the
// context for handlers (user_id, username, role).
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fallback to query parameter "token" (used by the WebSocket client)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			abort(c, http.StatusUnauthorized, "authorization required")
			return
		}

		claims, err := m.tokens.ParseToken(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("username", claims.Username)
		c.Set("role", string(claims.Role))
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. Must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.requireRole(entity.RoleAdmin, "admin access required")
}

// RequireStudent gates student-only routes. Must run after RequireAuth.
func (m *AuthMiddleware) RequireStudent() gin.HandlerFunc {
	return m.requireRole(entity.RoleStudent, "student access required")
}

func (m *AuthMiddleware) requireRole(want entity.Role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := response.GetRole(c)
		if err != nil {
			abort(c, http.StatusUnauthorized, "user not authenticated")
			return
		}

		if role != want {
			abort(c, http.StatusForbidden, message)
			return
		}

		c.Next()
	}
}

func abort(c *gin.Context, status int, message string) {
	c.JSON(status, response.Envelope{Code: status, Message: message, Data: nil})
	c.Abort()
}
