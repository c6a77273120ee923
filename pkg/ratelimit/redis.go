package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"dashfleet/pkg/redis"

	redisClient "github.com/redis/go-redis/v9"
)

// RedisLimiter keeps token buckets in Redis so the budget is shared across
// replicas. Errors are returned to the caller; the middleware fails open on
// them.
type RedisLimiter struct {
	client *redis.Client
	config *Config
	ctx    context.Context

	totalRequests   int64
	blockedRequests int64
}

func NewRedisLimiter(client *redis.Client, config *Config) *RedisLimiter {
	if config == nil {
		config = DefaultConfig()
	}
	return &RedisLimiter{
		client: client,
		config: config,
		ctx:    context.Background(),
	}
}

func (r *RedisLimiter) Allow(clientID string, class string) (bool, time.Duration, error) {
	if !r.config.Enabled {
		return true, 0, nil
	}
	if !r.client.IsConnected() {
		return false, 0, fmt.Errorf("redis not connected")
	}

	atomic.AddInt64(&r.totalRequests, 1)
	limit := r.config.limitFor(class)
	key := fmt.Sprintf("%s%s:%s", r.config.KeyPrefix, clientID, class)
	now := time.Now()

	bucket, err := r.loadBucket(key, limit, now)
	if err != nil {
		return false, 0, err
	}

	allowed, wait := bucket.take(limit, now)
	if !allowed {
		atomic.AddInt64(&r.blockedRequests, 1)
	}

	if err := r.storeBucket(key, bucket, limit); err != nil {
		return false, 0, err
	}
	return allowed, wait, nil
}

func (r *RedisLimiter) loadBucket(key string, limit Limit, now time.Time) (*tokenBucket, error) {
	data, err := r.client.GetClient().Get(r.ctx, key).Result()
	if err == redisClient.Nil {
		return &tokenBucket{
			Capacity:   limit.Burst,
			Tokens:     limit.Burst,
			RefillRate: limit.RequestsPerMinute,
			LastRefill: now,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rate limit bucket: %w", err)
	}

	var bucket tokenBucket
	if err := json.Unmarshal([]byte(data), &bucket); err != nil {
		return nil, fmt.Errorf("failed to decode rate limit bucket: %w", err)
	}
	return &bucket, nil
}

func (r *RedisLimiter) storeBucket(key string, bucket *tokenBucket, limit Limit) error {
	data, err := json.Marshal(bucket)
	if err != nil {
		return fmt.Errorf("failed to encode rate limit bucket: %w", err)
	}

	// Expire idle buckets after two windows; an active client refreshes
	// the TTL on every request.
	ttl := 2 * limit.Window
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}

	if err := r.client.GetClient().Set(r.ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store rate limit bucket: %w", err)
	}
	return nil
}

func (r *RedisLimiter) Stats() Stats {
	return Stats{
		TotalRequests:   atomic.LoadInt64(&r.totalRequests),
		BlockedRequests: atomic.LoadInt64(&r.blockedRequests),
	}
}
