package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/types"
)

// RoleChecker answers whether an account holds the admin role.
type RoleChecker interface {
	IsAdmin(ctx context.Context, accountID uuid.UUID) (bool, error)
}

// RequireAdmin must run after AuthMiddleware. It looks the role up once per
// request and stores the resulting session; handlers behind it never run
// for a visitor that is not an admin.
func RequireAdmin(roles RoleChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			unauthorized(c, "authentication required")
			return
		}

		isAdmin, err := roles.IsAdmin(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.ErrorLogger.WithError(err).WithField("user_id", claims.UserID).Error("role lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to verify access"})
			return
		}

		session := types.NewSession(claims, isAdmin)
		state := types.ResolveAccess(session)
		if state == types.AccessUnauthenticated {
			unauthorized(c, "authentication required")
			return
		}
		if state != types.AccessAuthenticatedAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "admin access required",
				"redirect": state.Redirect(),
			})
			return
		}

		c.Set(ContextSession, session)
		c.Next()
	}
}
