package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatasetSource  string
	AllowedOrigins []string
	JWTSecret      string
	JWTExpiry      time.Duration
	AdminEmail     string
	AdminPassword  string // bcrypt hash of the operator password
	SnapshotTTL    time.Duration
	Redis          RedisConfig
}

type RedisConfig struct {
	URL          string
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func Load() *Config {
	// load .env variables if present
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	datasetSource := os.Getenv("DATASET_SOURCE")
	if datasetSource == "" {
		datasetSource = "electric_vehicles_spec_2025.csv"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173"
	}

	return &Config{
		Port:           port,
		DatasetSource:  datasetSource,
		AllowedOrigins: strings.Split(allowedOrigins, ","),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiry:      durationEnv("JWT_EXPIRY", 24*time.Hour),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD_HASH"),
		SnapshotTTL:    durationEnv("SNAPSHOT_TTL", 15*time.Minute),
		Redis:          loadRedisConfig(),
	}
}

// AuthEnabled reports whether the operator endpoints require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func loadRedisConfig() RedisConfig {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	return RedisConfig{
		URL:          os.Getenv("REDIS_URL"),
		Host:         host,
		Port:         port,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           intEnv("REDIS_DB", 0),
		PoolSize:     intEnv("REDIS_POOL_SIZE", 10),
		MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
	}
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return v
}
