package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStoreDropsExpiredEntriesOnWrite(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, time.March, 14, 12, 0, 0, 0, time.UTC)

	store := NewMemoryTokenStore()
	store.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		require.NoError(t, store.Revoke(ctx, uuid.NewString(), time.Minute))
	}
	require.NoError(t, store.SaveResetToken(ctx, "long-lived", uuid.New(), time.Hour))
	assert.Len(t, store.entries, 101)

	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Revoke(ctx, "fresh", time.Minute))

	assert.Len(t, store.entries, 2, "expired revocations are dropped without being read")
	revoked, err := store.IsRevoked(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, revoked)
	_, err = store.ConsumeResetToken(ctx, "long-lived")
	assert.NoError(t, err)
}
