package model

import "context"

// AttemptLimiter throttles repeated failed logins per key.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}
