package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"dashfleet/internal/models"
	"dashfleet/pkg/redis"

	redisClient "github.com/redis/go-redis/v9"
)

// RedisSnapshotCache implements SnapshotCache on top of Redis.
type RedisSnapshotCache struct {
	client *redis.Client
	config CacheConfig
	stats  *cacheStats
	ctx    context.Context
}

type cacheStats struct {
	mu          sync.RWMutex
	totalHits   int64
	totalMisses int64
}

// NewRedisSnapshotCache creates a Redis-backed snapshot cache.
func NewRedisSnapshotCache(redisClient *redis.Client, config CacheConfig) *RedisSnapshotCache {
	return &RedisSnapshotCache{
		client: redisClient,
		config: config,
		stats:  &cacheStats{},
		ctx:    context.Background(),
	}
}

// GetFleetSnapshot retrieves a previously synthesized fleet. A miss returns
// (nil, nil); only transport or decode problems are errors.
func (r *RedisSnapshotCache) GetFleetSnapshot(source string) ([]models.Vehicle, error) {
	key := r.buildKey("fleet", source)

	data, err := r.client.GetClient().Get(r.ctx, key).Result()
	if err != nil {
		if err == redisClient.Nil {
			r.recordMiss()
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fleet snapshot from cache: %w", err)
	}

	var vehicles []models.Vehicle
	if err := json.Unmarshal([]byte(data), &vehicles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fleet snapshot: %w", err)
	}

	r.recordHit()
	return vehicles, nil
}

// SetFleetSnapshot stores a synthesized fleet with TTL.
func (r *RedisSnapshotCache) SetFleetSnapshot(source string, vehicles []models.Vehicle, ttl time.Duration) error {
	key := r.buildKey("fleet", source)

	data, err := json.Marshal(vehicles)
	if err != nil {
		return fmt.Errorf("failed to marshal fleet snapshot: %w", err)
	}

	if err := r.client.GetClient().Set(r.ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set fleet snapshot in cache: %w", err)
	}
	return nil
}

// InvalidateFleetSnapshot drops the cached fleet for source so the next load
// resynthesizes.
func (r *RedisSnapshotCache) InvalidateFleetSnapshot(source string) error {
	return r.Delete(r.buildKey("fleet", source))
}

// Get retrieves and decodes a generic entry into dest. A miss returns nil and
// leaves dest untouched.
func (r *RedisSnapshotCache) Get(key string, dest interface{}) error {
	data, err := r.client.GetClient().Get(r.ctx, r.buildKey("misc", key)).Result()
	if err != nil {
		if err == redisClient.Nil {
			r.recordMiss()
			return nil
		}
		return fmt.Errorf("failed to get cache key %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache key %s: %w", key, err)
	}
	r.recordHit()
	return nil
}

// Set stores a generic entry with TTL; a zero TTL uses the configured
// generic TTL.
func (r *RedisSnapshotCache) Set(key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.config.GenericTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache key %s: %w", key, err)
	}
	if err := r.client.GetClient().Set(r.ctx, r.buildKey("misc", key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (r *RedisSnapshotCache) Delete(key string) error {
	if err := r.client.GetClient().Del(r.ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}

// GetCacheStats reports hit/miss counters for this process.
func (r *RedisSnapshotCache) GetCacheStats() CacheStats {
	r.stats.mu.RLock()
	defer r.stats.mu.RUnlock()

	stats := CacheStats{
		TotalHits:   r.stats.totalHits,
		TotalMisses: r.stats.totalMisses,
	}
	if total := stats.TotalHits + stats.TotalMisses; total > 0 {
		stats.HitRate = float64(stats.TotalHits) / float64(total)
		stats.MissRate = float64(stats.TotalMisses) / float64(total)
	}
	return stats
}

// HealthCheck verifies the underlying Redis connection.
func (r *RedisSnapshotCache) HealthCheck() error {
	status := r.client.HealthCheck()
	if !status.IsConnected {
		return fmt.Errorf("cache backend unavailable: %s", status.Error)
	}
	return nil
}

// Close releases the underlying client.
func (r *RedisSnapshotCache) Close() error {
	return r.client.Close()
}

func (r *RedisSnapshotCache) buildKey(kind, key string) string {
	return r.config.KeyPrefix + kind + ":" + key
}

func (r *RedisSnapshotCache) recordHit() {
	r.stats.mu.Lock()
	r.stats.totalHits++
	r.stats.mu.Unlock()
}

func (r *RedisSnapshotCache) recordMiss() {
	r.stats.mu.Lock()
	r.stats.totalMisses++
	r.stats.mu.Unlock()
}
