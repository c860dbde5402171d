package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxFailedAttempts = 5
	attemptWindow     = 15 * time.Minute
)

// LoginRateLimiter throttles repeated failed logins per identifier, backed
// by a Redis counter with a sliding expiry.
// Key format: login_attempts:<lowercased identifier>
type LoginRateLimiter struct {
	client *redis.Client
}

// NewLoginRateLimiter creates a LoginRateLimiter wrapping the given client.
func NewLoginRateLimiter(client *redis.Client) *LoginRateLimiter {
	return &LoginRateLimiter{client: client}
}

// Allow reports whether another login attempt is permitted for identifier.
func (l *LoginRateLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(identifier)).Int64()
	if err != nil {
		if err == redis.Nil {
			return true, nil
		}
		return false, fmt.Errorf("rate limit check: %w", err)
	}
	return n < maxFailedAttempts, nil
}

// RecordFailure bumps the failure counter and renews the window.
func (l *LoginRateLimiter) RecordFailure(ctx context.Context, identifier string) error {
	key := l.key(identifier)
	if err := l.client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("rate limit incr: %w", err)
	}
	return l.client.Expire(ctx, key, attemptWindow).Err()
}

// Reset clears the failure counter after a successful login.
func (l *LoginRateLimiter) Reset(ctx context.Context, identifier string) error {
	return l.client.Del(ctx, l.key(identifier)).Err()
}

func (l *LoginRateLimiter) key(identifier string) string {
	return "login_attempts:" + strings.ToLower(identifier)
}
