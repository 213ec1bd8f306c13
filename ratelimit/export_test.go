package ratelimit

import "time"

// SetClock replaces the limiter's clock so tests can age buckets.
func (krl *KeyedRateLimiter) SetClock(now func() time.Time) {
	krl.mu.Lock()
	krl.now = now
	krl.mu.Unlock()
}
