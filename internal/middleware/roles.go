package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sahakari/coop_backend/internal/core/domain"
)

// RoleResolver returns the role of the given user, typically backed by the user service.
type RoleResolver func(ctx context.Context, userID string) (domain.UserRole, error)

// RequireRoles creates a Gin middleware that only lets through users whose role
// is in the allowed set. It must run after AuthMiddleware.
func RequireRoles(resolve RoleResolver, allowed ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			logger.Error("User ID not found in context during role check")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		role, err := resolve(c.Request.Context(), userID)
		if err != nil {
			logger.Warn("Failed to resolve user role", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		for _, r := range allowed {
			if role == r {
				c.Next()
				return
			}
		}

		logger.Warn("User role not permitted for route", "role", string(role))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}
