package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	limiterPrefix = "blog:login:"

	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// recordFailureScript increments the counter and starts the window when the
// key carries no expiry, in one round trip.
var recordFailureScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// LoginLimiter counts failed logins per email in a fixed window that starts
// with the first failure.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter. Non-positive settings fall back to
// 5 attempts per 15 minutes.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Exceeded reports whether key has used up its failure budget.
func (l *LoginLimiter) Exceeded(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	count, err := l.client.Get(ctx, limiterKey(key)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("login limiter get: %w", err)
	}
	return count >= l.maxAttempts, nil
}

// RecordFailure increments the failure counter, starting the window on the
// first failure. A counter left without expiry gets one on the next failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := recordFailureScript.Run(ctx, l.client, []string{limiterKey(key)}, l.window.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("login limiter record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := l.client.Del(ctx, limiterKey(key)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

// limiterKey lower-cases the email so case variants share one budget.
func limiterKey(email string) string {
	return limiterPrefix + strings.ToLower(strings.TrimSpace(email))
}
