package main

import (
	"context"
	"log"

	"dashfleet/internal/api/routes"
	"dashfleet/internal/config"
	"dashfleet/internal/dataset"
	"dashfleet/internal/services"
	"dashfleet/internal/viz"
	"dashfleet/internal/websocket"
	"dashfleet/pkg/cache"
	"dashfleet/pkg/ratelimit"
	"dashfleet/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize Redis client for the snapshot cache
	redisClient := redis.NewClient(cfg.Redis)
	defer redisClient.Close()

	healthStatus := redisClient.HealthCheck()
	if healthStatus.IsConnected {
		log.Printf("Redis connected successfully at %s", healthStatus.ConnectionInfo)
	} else {
		log.Printf("Redis connection failed: %s (will retry automatically)", healthStatus.Error)
	}

	// Start the visualization WebSocket hub
	wsManager := websocket.NewManager()
	if err := wsManager.Start(); err != nil {
		log.Fatal("Failed to start WebSocket manager:", err)
	}
	defer wsManager.Stop()

	vizHandle := viz.NewHandle(wsManager)

	// Build the fleet service and load the initial snapshot. A dataset
	// failure is not fatal: the service starts with an empty fleet and
	// reload can recover it later.
	fleetService := services.NewFleetService(dataset.NewLoader(cfg.DatasetSource))
	fleetService.SetSnapshotCache(cache.NewDefaultSnapshotCache(redisClient))
	fleetService.SetSnapshotTTL(cfg.SnapshotTTL)
	fleetService.SetBroadcaster(wsManager)

	if err := fleetService.Load(context.Background()); err != nil {
		log.Printf("Initial dataset load failed: %v (starting with empty fleet)", err)
	} else {
		log.Printf("Fleet loaded: %d vehicles from %s", len(fleetService.Vehicles()), cfg.DatasetSource)
	}

	// Setup Gin router
	router := gin.Default()

	// CORS middleware
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Upgrade", "Connection", "Sec-WebSocket-Key", "Sec-WebSocket-Version", "Sec-WebSocket-Protocol"},
		ExposeHeaders: []string{"Content-Length"},
	}

	// Handle wildcard origin for development
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false // Cannot use credentials with AllowAllOrigins
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}

	router.Use(cors.New(corsConfig))

	// Rate limiting: shared buckets in Redis when available, per-process
	// buckets otherwise.
	var limiter ratelimit.Limiter
	if redisClient.IsConnected() {
		limiter = ratelimit.NewRedisLimiter(redisClient, ratelimit.DefaultConfig())
	} else {
		limiter = ratelimit.NewMemoryLimiter(ratelimit.DefaultConfig())
	}

	// Setup routes
	routes.SetupRoutes(router, fleetService, wsManager, vizHandle, redisClient, limiter, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(router.Run(":" + cfg.Port))
}
