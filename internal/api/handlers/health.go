package handlers

import (
	"net/http"
	"time"

	"dashfleet/internal/services"
	"dashfleet/pkg/redis"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	fleetService *services.FleetService
	redisClient  *redis.Client
}

type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
}

func NewHealthHandler(fleetService *services.FleetService, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		fleetService: fleetService,
		redisClient:  redisClient,
	}
}

// HealthCheck reports fleet and cache status. Redis being down degrades the
// report but never the HTTP status: the service runs fine without its cache.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]interface{}),
	}

	response.Services["fleet"] = h.checkFleet()
	response.Services["redis"] = h.checkRedis()

	c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) checkFleet() map[string]interface{} {
	status := map[string]interface{}{
		"service":       "fleet",
		"totalVehicles": len(h.fleetService.Vehicles()),
	}

	if loadedAt := h.fleetService.LoadedAt(); !loadedAt.IsZero() {
		status["loadedAt"] = loadedAt
		status["healthy"] = true
	} else {
		status["healthy"] = false
		status["message"] = "No dataset loaded"
	}
	return status
}

func (h *HealthHandler) checkRedis() map[string]interface{} {
	status := map[string]interface{}{
		"service": "redis",
		"healthy": false,
	}

	if h.redisClient == nil {
		status["message"] = "Not configured"
		return status
	}

	health := h.redisClient.HealthCheck()
	status["healthy"] = health.IsConnected
	if health.IsConnected {
		status["responseTime"] = health.ResponseTime.String()
	} else if health.Error != "" {
		status["error"] = health.Error
	}
	return status
}
