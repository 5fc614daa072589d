package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/interfaces/http/dto"
)

// RoleConfig holds configuration for the role guard
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
}

// RequireRole creates middleware that allows only the listed roles.
// Callers authenticated with any other role receive a 403.
func RequireRole(roles ...string) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireRoleWithConfig creates a role guard with custom config
func RequireRoleWithConfig(cfg RoleConfig, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		if _, ok := allowed[claims.Role]; !ok {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Role check failed",
					zap.String("user_id", claims.UserID),
					zap.String("role", claims.Role),
					zap.Strings("required_any", roles),
					zap.String("path", c.Request.URL.Path),
				)
			}
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Your role does not permit this operation"))
			return
		}

		c.Next()
	}
}

// Staff is every internal role, everyone but clients
var Staff = []string{"ceo", "manager", "supervisor", "hr", "support", "agent"}

// Management covers company-wide administrative roles
var Management = []string{"ceo", "manager"}

// RequireStaff allows any internal role
func RequireStaff() gin.HandlerFunc {
	return RequireRole(Staff...)
}
