package ratelimit

import (
	"sync"
	"time"
)

// breaker suppresses Redis attempts for a cool-down period after a failure.
type breaker struct {
	mu       sync.Mutex
	cooldown time.Duration
	openTill time.Time
}

func newBreaker(cooldown time.Duration) *breaker {
	return &breaker{cooldown: cooldown}
}

// open reports whether attempts are currently suppressed.
func (b *breaker) open(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openTill.IsZero() {
		return false
	}
	if now.Before(b.openTill) {
		return true
	}
	b.openTill = time.Time{}
	return false
}

// trip opens the breaker unless it is already open. It reports whether it tripped.
func (b *breaker) trip(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.openTill.IsZero() && now.Before(b.openTill) {
		return false
	}
	b.openTill = now.Add(b.cooldown)
	return true
}
