package redis

import (
	"context"
	"fmt"
	"time"
)

const loginLimitPrefix = "loginlimit:"

// LoginRateLimiter counts login attempts per client in a fixed window,
// protecting the credential check from brute force.
type LoginRateLimiter struct {
	client   *Client
	attempts int
	window   time.Duration
}

// NewLoginRateLimiter creates a new login rate limiter
func NewLoginRateLimiter(client *Client, attempts int, window time.Duration) *LoginRateLimiter {
	return &LoginRateLimiter{
		client:   client,
		attempts: attempts,
		window:   window,
	}
}

// Allow records an attempt for key and reports whether it is within the
// limit. The counter expires at the end of the window.
func (r *LoginRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	fullKey := fmt.Sprintf("%s%s", loginLimitPrefix, key)

	pipe := r.client.rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, r.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	return incrCmd.Val() <= int64(r.attempts), nil
}

// Reset clears the counter for a key
func (r *LoginRateLimiter) Reset(ctx context.Context, key string) error {
	fullKey := fmt.Sprintf("%s%s", loginLimitPrefix, key)
	return r.client.rdb.Del(ctx, fullKey).Err()
}
