package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter limits requests per client IP. Counters live in Redis when a
// client is given, otherwise in a per-process token bucket for each IP.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time

	mu        sync.Mutex
	local     map[string]*rate.Limiter
	lastSweep time.Time
}

// NewRateLimiter creates a new rate limiter instance. redisClient may be nil.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
		local:  make(map[string]*rate.Limiter),
	}
}

// NewReservationRateLimiter limits public reservation submissions (10 per hour per IP).
func NewReservationRateLimiter(redisClient *redis.Client) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     10,
		KeyPrefix: "rate_limit:reservations",
	})
}

// NewAuthRateLimiter limits sign-in, sign-up and password reset attempts (20 per 15 minutes per IP).
func NewAuthRateLimiter(redisClient *redis.Client) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    15 * time.Minute,
		Limit:     20,
		KeyPrefix: "rate_limit:auth",
	})
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if rl.redis == nil {
			if !rl.allowLocal(clientIP) {
				rl.reject(c, rl.now().Add(rl.config.Window))
				return
			}
			c.Next()
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), clientIP)
		if err != nil {
			// A Redis outage must not take the public forms down.
			logger.ErrorLogger.WithError(err).WithField("key_prefix", rl.config.KeyPrefix).Error("rate limit check failed")
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			rl.reject(c, resetTime)
			return
		}

		c.Next()
	}
}

// IsAllowed counts a request from key in the current fixed window.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

func (rl *RateLimiter) allowLocal(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	limiter, ok := rl.local[key]
	if !ok {
		rl.sweepLocal(now)
		every := rl.config.Window / time.Duration(rl.config.Limit)
		limiter = rate.NewLimiter(rate.Every(every), rl.config.Limit)
		rl.local[key] = limiter
	}
	rl.mu.Unlock()

	return limiter.AllowN(now, 1)
}

// sweepLocal drops buckets that have refilled completely, at most once per
// window. A full bucket behaves exactly like a new one. Callers hold rl.mu.
func (rl *RateLimiter) sweepLocal(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.config.Window {
		return
	}
	rl.lastSweep = now
	for key, limiter := range rl.local {
		if limiter.TokensAt(now) >= float64(limiter.Burst()) {
			delete(rl.local, key)
		}
	}
}

func (rl *RateLimiter) reject(c *gin.Context, resetTime time.Time) {
	retryAfter := int(resetTime.Sub(rl.now()).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       "Demasiados intentos, inténtalo más tarde",
		"retry_after": retryAfter,
	})
}
