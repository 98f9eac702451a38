package types

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAccess(t *testing.T) {
	account := uuid.New()

	assert.Equal(t, AccessUnauthenticated, ResolveAccess(nil))
	assert.Equal(t, AccessUnauthenticated, ResolveAccess(&Session{}))
	assert.Equal(t, AccessAuthenticatedNonAdmin, ResolveAccess(&Session{AccountID: account}))
	assert.Equal(t, AccessAuthenticatedAdmin, ResolveAccess(&Session{AccountID: account, IsAdmin: true}))
}

func TestAccessStateRedirect(t *testing.T) {
	assert.Equal(t, "/auth", AccessUnauthenticated.Redirect())
	assert.Equal(t, "/", AccessAuthenticatedNonAdmin.Redirect())
	assert.Empty(t, AccessAuthenticatedAdmin.Redirect())
}

func TestNewSession(t *testing.T) {
	assert.Nil(t, NewSession(nil, true))

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "session-1", ExpiresAt: jwt.NewNumericDate(expires)},
		UserID:           uuid.New(),
		Email:            "admin@example.com",
	}

	session := NewSession(claims, true)
	require.NotNil(t, session)
	assert.Equal(t, claims.UserID, session.AccountID)
	assert.Equal(t, "admin@example.com", session.Email)
	assert.Equal(t, "session-1", session.TokenID)
	assert.True(t, expires.Equal(session.ExpiresAt))
	assert.True(t, session.IsAdmin)
}
