package ratelimit

import (
	"time"
)

// Config holds the per-class budgets and limiter housekeeping settings.
type Config struct {
	// Limits maps an endpoint class to its budget. "default" is the
	// fallback for unclassified endpoints.
	Limits map[string]Limit `json:"limits"`

	// KeyPrefix namespaces the Redis bucket keys.
	KeyPrefix string `json:"keyPrefix"`

	// CleanupInterval is how often idle buckets are dropped.
	CleanupInterval time.Duration `json:"cleanupInterval"`

	// Enabled short-circuits the limiter entirely when false.
	Enabled bool `json:"enabled"`
}

// DefaultConfig budgets the dashboard's endpoint classes. Reads are
// generous since the UI polls them; dataset reloads and login attempts are
// tight.
func DefaultConfig() *Config {
	return &Config{
		Limits: map[string]Limit{
			"auth_login": {RequestsPerMinute: 5, Burst: 2, Window: time.Minute},
			"reload":     {RequestsPerMinute: 6, Burst: 2, Window: time.Minute},
			"viz_push":   {RequestsPerMinute: 120, Burst: 30, Window: time.Minute},
			"read":       {RequestsPerMinute: 300, Burst: 60, Window: time.Minute},
			"health":     {RequestsPerMinute: 1000, Burst: 100, Window: time.Minute},
			"default":    {RequestsPerMinute: 120, Burst: 30, Window: time.Minute},
		},
		KeyPrefix:       "dashfleet:ratelimit:",
		CleanupInterval: 5 * time.Minute,
		Enabled:         true,
	}
}

// limitFor resolves the budget of a class, falling back to "default".
func (c *Config) limitFor(class string) Limit {
	if limit, ok := c.Limits[class]; ok {
		return limit
	}
	if limit, ok := c.Limits["default"]; ok {
		return limit
	}
	return Limit{RequestsPerMinute: 120, Burst: 30, Window: time.Minute}
}
