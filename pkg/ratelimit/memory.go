package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryLimiter keeps token buckets in process memory.
type MemoryLimiter struct {
	config  *Config
	buckets map[string]*tokenBucket
	mu      sync.Mutex

	totalRequests   int64
	blockedRequests int64
}

func NewMemoryLimiter(config *Config) *MemoryLimiter {
	if config == nil {
		config = DefaultConfig()
	}

	limiter := &MemoryLimiter{
		config:  config,
		buckets: make(map[string]*tokenBucket),
	}
	go limiter.cleanupLoop()
	return limiter
}

func (m *MemoryLimiter) Allow(clientID string, class string) (bool, time.Duration, error) {
	if !m.config.Enabled {
		return true, 0, nil
	}

	atomic.AddInt64(&m.totalRequests, 1)
	limit := m.config.limitFor(class)
	key := fmt.Sprintf("%s:%s", clientID, class)
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.buckets[key]
	if !ok {
		bucket = &tokenBucket{
			Capacity:   limit.Burst,
			Tokens:     limit.Burst,
			RefillRate: limit.RequestsPerMinute,
			LastRefill: now,
		}
		m.buckets[key] = bucket
	}

	allowed, wait := bucket.take(limit, now)
	if !allowed {
		atomic.AddInt64(&m.blockedRequests, 1)
	}
	return allowed, wait, nil
}

func (m *MemoryLimiter) Stats() Stats {
	m.mu.Lock()
	active := len(m.buckets)
	m.mu.Unlock()

	return Stats{
		TotalRequests:   atomic.LoadInt64(&m.totalRequests),
		BlockedRequests: atomic.LoadInt64(&m.blockedRequests),
		ActiveBuckets:   active,
	}
}

// cleanupLoop drops buckets idle for over an hour.
func (m *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		now := time.Now()
		for key, bucket := range m.buckets {
			if now.Sub(bucket.LastRefill) > time.Hour {
				delete(m.buckets, key)
			}
		}
		m.mu.Unlock()
	}
}
