package session

import (
	"context"
	"time"
)

// Backend persists session values with a per-key expiry.
// Get reports ok=false for keys that are absent or expired.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
}
