package cache

import (
	"dashfleet/pkg/redis"
)

// NewSnapshotCache creates a Redis-backed snapshot cache with the given
// configuration.
func NewSnapshotCache(redisClient *redis.Client, config CacheConfig) SnapshotCache {
	return NewRedisSnapshotCache(redisClient, config)
}

// NewDefaultSnapshotCache creates a snapshot cache with default configuration.
func NewDefaultSnapshotCache(redisClient *redis.Client) SnapshotCache {
	return NewRedisSnapshotCache(redisClient, DefaultCacheConfig())
}
