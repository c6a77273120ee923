// Package ratelimit provides token-bucket request limiting with an in-memory
// and a Redis-backed implementation. The Redis limiter keeps counters shared
// across replicas; the memory limiter is the fallback when Redis is down or
// not configured.
package ratelimit

import (
	"time"
)

// Limiter decides whether a request may proceed.
type Limiter interface {
	// Allow reports whether clientID may hit the given endpoint class now.
	// When blocked, the returned duration is how long until a token frees up.
	Allow(clientID string, class string) (bool, time.Duration, error)
	Stats() Stats
}

// Limit is the budget for one endpoint class.
type Limit struct {
	RequestsPerMinute int           `json:"requestsPerMinute"`
	Burst             int           `json:"burst"`
	Window            time.Duration `json:"window"`
}

// Stats counts limiter decisions since startup.
type Stats struct {
	TotalRequests   int64 `json:"totalRequests"`
	BlockedRequests int64 `json:"blockedRequests"`
	ActiveBuckets   int   `json:"activeBuckets"`
}

// tokenBucket is the persisted bucket state. The Redis limiter stores it as
// JSON so both implementations share the refill math.
type tokenBucket struct {
	Capacity   int       `json:"capacity"`
	Tokens     int       `json:"tokens"`
	RefillRate int       `json:"refillRate"` // tokens per minute
	LastRefill time.Time `json:"lastRefill"`
}

// refill tops the bucket up for the time elapsed since the last refill.
func (b *tokenBucket) refill(limit Limit, now time.Time) {
	if b.LastRefill.IsZero() {
		b.LastRefill = now
		return
	}
	elapsed := now.Sub(b.LastRefill)
	add := int(float64(limit.RequestsPerMinute) * elapsed.Minutes())
	if add > 0 {
		b.Tokens = minInt(b.Capacity, b.Tokens+add)
		b.LastRefill = now
	}
}

// take consumes one token if available and reports the wait otherwise.
func (b *tokenBucket) take(limit Limit, now time.Time) (bool, time.Duration) {
	b.refill(limit, now)
	if b.Tokens > 0 {
		b.Tokens--
		b.LastRefill = now
		return true, 0
	}
	return false, time.Minute / time.Duration(maxInt(1, limit.RequestsPerMinute))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
