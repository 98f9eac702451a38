package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/middleware"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/mocks"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/types"
)

type staticValidator map[string]*types.TokenClaims

func (v staticValidator) ValidateToken(_ context.Context, token string) (*types.TokenClaims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, service.ErrInvalidToken
}

// storeDown fails every lookup the way an unreachable session store does.
type storeDown struct{}

func (storeDown) ValidateToken(context.Context, string) (*types.TokenClaims, error) {
	return nil, fmt.Errorf("failed to check session revocation: %w", errors.New("redis: connection refused"))
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Discard()
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func newClaims() *types.TokenClaims {
	return &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: uuid.NewString()},
		UserID:           uuid.New(),
		Email:            "cocina@example.com",
	}
}

func TestAuthMiddleware(t *testing.T) {
	claims := newClaims()
	router := gin.New()
	router.GET("/private", middleware.AuthMiddleware(staticValidator{"good": claims}), func(c *gin.Context) {
		got, ok := middleware.ClaimsFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": got.UserID, "email": c.GetString(middleware.ContextEmail)})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			body := decode(t, rr)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "/auth", body["redirect"])
				return
			}
			assert.Equal(t, claims.UserID.String(), body["user_id"])
			assert.Equal(t, "cocina@example.com", body["email"])
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	admin := newClaims()
	member := newClaims()
	broken := newClaims()

	roles := new(mocks.MockRoleService)
	roles.On("IsAdmin", mock.Anything, admin.UserID).Return(true, nil)
	roles.On("IsAdmin", mock.Anything, member.UserID).Return(false, nil)
	roles.On("IsAdmin", mock.Anything, broken.UserID).Return(false, errors.New("db down"))

	validator := staticValidator{"admin": admin, "member": member, "broken": broken}

	handlerRuns := 0
	router := gin.New()
	router.GET("/admin/access",
		middleware.AuthMiddleware(validator),
		middleware.RequireAdmin(roles),
		func(c *gin.Context) {
			handlerRuns++
			session, ok := middleware.SessionFromContext(c)
			require.True(t, ok)
			c.JSON(http.StatusOK, gin.H{"state": types.ResolveAccess(session)})
		})

	call := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin/access", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	rr := call("")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "/auth", decode(t, rr)["redirect"])

	rr = call("member")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "/", decode(t, rr)["redirect"])

	rr = call("broken")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	assert.Equal(t, 0, handlerRuns, "console handlers never run for non-admins")

	rr = call("admin")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, string(types.AccessAuthenticatedAdmin), decode(t, rr)["state"])
	assert.Equal(t, 1, handlerRuns)

	roles.AssertNumberOfCalls(t, "IsAdmin", 3)
}

func TestOptionalAuth(t *testing.T) {
	claims := newClaims()
	router := gin.New()
	router.GET("/session", middleware.OptionalAuth(staticValidator{"good": claims}), func(c *gin.Context) {
		_, ok := middleware.ClaimsFromContext(c)
		c.JSON(http.StatusOK, gin.H{"signed_in": ok})
	})

	for token, want := range map[string]bool{"": false, "bad": false, "good": true} {
		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, want, decode(t, rr)["signed_in"], "token %q", token)
	}
}

func TestSessionStoreOutageIsNotUnauthorized(t *testing.T) {
	handlerRuns := 0
	router := gin.New()
	ok := func(c *gin.Context) {
		handlerRuns++
		c.JSON(http.StatusOK, gin.H{})
	}
	router.GET("/private", middleware.AuthMiddleware(storeDown{}), ok)
	router.GET("/session", middleware.OptionalAuth(storeDown{}), ok)

	for _, path := range []string{"/private", "/session"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("Authorization", "Bearer good")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
			body := decode(t, rr)
			assert.NotEmpty(t, body["error"])
			assert.Nil(t, body["redirect"])
		})
	}
	assert.Equal(t, 0, handlerRuns)
}

func TestRateLimiterLocalFallback(t *testing.T) {
	limiter := middleware.NewRateLimiter(nil, middleware.RateLimitConfig{
		Window:    time.Hour,
		Limit:     2,
		KeyPrefix: "rate_limit:test",
	})

	router := gin.New()
	router.POST("/reservations", limiter.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	post := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/reservations", nil)
		req.RemoteAddr = ip + ":1234"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusCreated, post("10.0.0.1"))
	assert.Equal(t, http.StatusCreated, post("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, post("10.0.0.1"))
	assert.Equal(t, http.StatusCreated, post("10.0.0.2"), "limits are per client")
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})
	router.GET("/failed", func(c *gin.Context) {
		_ = c.Error(errors.New("unhandled"))
	})

	for _, path := range []string{"/boom", "/failed"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code, path)
		assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String(), path)
	}
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(middleware.CORS([]string{"http://localhost:5173"}))
	router.GET("/api/v1/menu", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/menu", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
