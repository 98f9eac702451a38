package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/types"
)

// Context keys set by the auth middleware.
const (
	ContextUserID  = "user_id"
	ContextEmail   = "email"
	ContextClaims  = "claims"
	ContextSession = "session"
)

// RedirectSignIn is where unauthenticated visitors are sent.
const RedirectSignIn = "/auth"

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that validates JWT tokens
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "missing or invalid authorization header")
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			sessionCheckFailed(c, err)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth stores the claims when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			claims, err := validator.ValidateToken(c.Request.Context(), token)
			switch {
			case err == nil:
				setClaims(c, claims)
			case !errors.Is(err, service.ErrInvalidToken):
				sessionCheckFailed(c, err)
				return
			}
		}
		c.Next()
	}
}

// ClaimsFromContext returns the claims stored by AuthMiddleware, if any.
func ClaimsFromContext(c *gin.Context) (*types.TokenClaims, bool) {
	v, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*types.TokenClaims)
	return claims, ok && claims != nil
}

// SessionFromContext returns the session built by RequireAdmin, if any.
func SessionFromContext(c *gin.Context) (*types.Session, bool) {
	v, exists := c.Get(ContextSession)
	if !exists {
		return nil, false
	}
	session, ok := v.(*types.Session)
	return session, ok && session != nil
}

func setClaims(c *gin.Context, claims *types.TokenClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextClaims, claims)
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// sessionCheckFailed answers 401 for tokens that are not valid sessions and
// 503 when the session store could not be reached.
func sessionCheckFailed(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidToken) {
		unauthorized(c, "invalid or expired session")
		return
	}
	logger.ErrorLogger.WithError(err).
		WithField("path", c.Request.URL.Path).
		Error("session validation failed")
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
		"error": "session could not be verified, try again later",
	})
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":    message,
		"redirect": RedirectSignIn,
	})
}
