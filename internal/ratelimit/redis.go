// Package ratelimit throttles failed login attempts using fixed Redis windows.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/roleauth/internal/model"
)

const keyPrefix = "roleauth:attempts:"

// Client is the subset of redis commands the limiter uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Limiter allows at most maxFailures failures per key within window.
type Limiter struct {
	client      Client
	maxFailures int64
	window      time.Duration
}

var _ model.AttemptLimiter = (*Limiter)(nil)

func New(client Client, maxFailures int64, window time.Duration) *Limiter {
	return &Limiter{client: client, maxFailures: maxFailures, window: window}
}

// Connect dials redis and verifies the connection.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Get(ctx, keyPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read attempt counter: %w", err)
	}

	return count < l.maxFailures, nil
}

// RecordFailure increments the counter. The first failure in a window
// starts the expiry.
func (l *Limiter) RecordFailure(ctx context.Context, key string) error {
	count, err := l.client.Incr(ctx, keyPrefix+key).Result()
	if err != nil {
		return fmt.Errorf("failed to increment attempt counter: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, keyPrefix+key, l.window).Err(); err != nil {
			return fmt.Errorf("failed to set attempt window: %w", err)
		}
	}

	return nil
}

func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to reset attempt counter: %w", err)
	}
	return nil
}
