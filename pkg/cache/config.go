package cache

import "time"

// CacheConfig holds TTL values and key layout for the snapshot cache.
type CacheConfig struct {
	SnapshotTTL time.Duration `json:"snapshotTTL"` // how long a synthesized fleet is reused
	GenericTTL  time.Duration `json:"genericTTL"`  // fallback for ad-hoc entries
	KeyPrefix   string        `json:"keyPrefix"`
}

// DefaultCacheConfig returns the default snapshot cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		SnapshotTTL: 15 * time.Minute,
		GenericTTL:  2 * time.Minute,
		KeyPrefix:   "dashfleet:",
	}
}
