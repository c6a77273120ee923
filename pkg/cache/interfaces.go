package cache

import (
	"time"

	"dashfleet/internal/models"
)

// SnapshotCache stores synthesized fleet snapshots keyed by dataset source.
// Reusing a cached snapshot within its TTL keeps vehicle ids and the
// load-time random fields stable across service restarts.
type SnapshotCache interface {
	// Fleet snapshot operations
	GetFleetSnapshot(source string) ([]models.Vehicle, error)
	SetFleetSnapshot(source string, vehicles []models.Vehicle, ttl time.Duration) error
	InvalidateFleetSnapshot(source string) error

	// Generic operations
	Get(key string, dest interface{}) error
	Set(key string, value interface{}, ttl time.Duration) error
	Delete(key string) error

	// Statistics and health
	GetCacheStats() CacheStats
	HealthCheck() error
	Close() error
}

// CacheStats provides cache performance metrics.
type CacheStats struct {
	HitRate     float64 `json:"hitRate"`
	MissRate    float64 `json:"missRate"`
	TotalHits   int64   `json:"totalHits"`
	TotalMisses int64   `json:"totalMisses"`
}
