package routes

import (
	"dashfleet/internal/api/handlers"
	"dashfleet/internal/api/middleware"
	"dashfleet/internal/config"
	"dashfleet/internal/services"
	"dashfleet/internal/viz"
	"dashfleet/internal/websocket"
	"dashfleet/pkg/jwt"
	"dashfleet/pkg/ratelimit"
	"dashfleet/pkg/redis"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler onto the router. When no JWT secret is
// configured the mutating routes run unauthenticated, matching a local
// dashboard deployment.
func SetupRoutes(router *gin.Engine, fleetService *services.FleetService, wsManager *websocket.Manager, vizHandle viz.Handle, redisClient *redis.Client, limiter ratelimit.Limiter, cfg *config.Config) {
	// Initialize handlers
	fleetHandler := handlers.NewFleetHandler(fleetService)
	dashboardHandler := handlers.NewDashboardHandler(fleetService)
	maintenanceHandler := handlers.NewMaintenanceHandler(fleetService)
	failuresHandler := handlers.NewFailuresHandler(fleetService)
	scheduleHandler := handlers.NewScheduleHandler(fleetService)
	vizHandler := handlers.NewVizHandler(wsManager, vizHandle)
	healthHandler := handlers.NewHealthHandler(fleetService, redisClient)

	api := router.Group("/api/v1")
	if limiter != nil {
		api.Use(middleware.RateLimitMiddleware(limiter))
	}

	api.GET("/health", healthHandler.HealthCheck)

	// Mutating routes are guarded only when auth is configured.
	guard := func(c *gin.Context) { c.Next() }
	if cfg.AuthEnabled() {
		jwtUtil := jwt.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpiry)
		authService := services.NewAuthService(cfg, jwtUtil)
		authHandler := handlers.NewAuthHandler(authService)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
		}

		guard = middleware.AuthMiddleware(jwtUtil)
	}

	fleet := api.Group("/fleet")
	{
		fleet.GET("", fleetHandler.ListVehicles)
		fleet.GET("/:id", fleetHandler.GetVehicle)
		fleet.GET("/:id/history", fleetHandler.GetHistory)
		fleet.POST("/reload", guard, fleetHandler.Reload)
	}

	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("", dashboardHandler.GetDashboard)
		dashboard.GET("/health-trend", dashboardHandler.GetHealthTrend)
		dashboard.GET("/failure-trend", dashboardHandler.GetFailureTrend)
	}

	api.GET("/maintenance", maintenanceHandler.GetActiveMaintenance)
	api.GET("/failures", failuresHandler.GetPredictedFailures)
	api.GET("/schedule", scheduleHandler.GetSchedule)

	vizRoutes := api.Group("/viz")
	{
		vizRoutes.GET("/ws", vizHandler.Subscribe)
		vizRoutes.POST("/highlight", guard, vizHandler.Highlight)
		vizRoutes.POST("/component-health", guard, vizHandler.ComponentHealth)
	}
}
