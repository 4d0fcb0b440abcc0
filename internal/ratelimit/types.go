package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of one rate limit check. Limit and Reset are zero when no limit applies.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter counts hits in per-second windows.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, now time.Time) (Result, error)
}
