package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	revokedKeyPrefix = "session:revoked:"
	resetKeyPrefix   = "password_reset:"
)

// RedisTokenStore keeps revoked session IDs and password reset tokens in
// Redis. Entries expire on their own once the token could no longer be used.
type RedisTokenStore struct {
	redis *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{redis: client}
}

func (s *RedisTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.redis.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n > 0, nil
}

func (s *RedisTokenStore) SaveResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if err := s.redis.Set(ctx, resetKeyPrefix+token, userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}
	return nil
}

// ConsumeResetToken returns the account the token was issued for and
// deletes it, so each token works once.
func (s *RedisTokenStore) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	value, err := s.redis.GetDel(ctx, resetKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrInvalidResetToken
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read reset token: %w", err)
	}

	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, ErrInvalidResetToken
	}
	return userID, nil
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryTokenStore is the in-process store used when Redis is not
// configured. State is lost on restart.
type MemoryTokenStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryTokenStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.set(revokedKeyPrefix+tokenID, "1", ttl)
	return nil
}

func (s *MemoryTokenStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := s.get(revokedKeyPrefix+tokenID, false)
	return ok, nil
}

func (s *MemoryTokenStore) SaveResetToken(_ context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	s.set(resetKeyPrefix+token, userID.String(), ttl)
	return nil
}

func (s *MemoryTokenStore) ConsumeResetToken(_ context.Context, token string) (uuid.UUID, error) {
	value, ok := s.get(resetKeyPrefix+token, true)
	if !ok {
		return uuid.Nil, ErrInvalidResetToken
	}
	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, ErrInvalidResetToken
	}
	return userID, nil
}

// set stores an entry and drops every expired one, so keys that are never
// read again do not accumulate.
func (s *MemoryTokenStore) set(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[key] = memoryEntry{value: value, expiresAt: now.Add(ttl)}
}

func (s *MemoryTokenStore) get(key string, remove bool) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return "", false
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return "", false
	}
	if remove {
		delete(s.entries, key)
	}
	return entry.value, true
}
