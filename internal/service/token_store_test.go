package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/testhelpers"
)

func exerciseTokenStore(t *testing.T, store service.ITokenStore) {
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-expired", -time.Second))
	revoked, err = store.IsRevoked(ctx, "jti-expired")
	require.NoError(t, err)
	assert.False(t, revoked, "already expired sessions need no revocation entry")

	userID := uuid.New()
	require.NoError(t, store.SaveResetToken(ctx, "reset-1", userID, time.Minute))

	got, err := store.ConsumeResetToken(ctx, "reset-1")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = store.ConsumeResetToken(ctx, "reset-1")
	assert.ErrorIs(t, err, service.ErrInvalidResetToken)
	_, err = store.ConsumeResetToken(ctx, "unknown")
	assert.ErrorIs(t, err, service.ErrInvalidResetToken)
}

func TestMemoryTokenStore(t *testing.T) {
	exerciseTokenStore(t, service.NewMemoryTokenStore())
}

func TestRedisTokenStore(t *testing.T) {
	client := testhelpers.SetupRedisContainer(t)
	exerciseTokenStore(t, service.NewRedisTokenStore(client))
}
