package handlers

import (
	"net/http"
	"time"

	"dashfleet/internal/services"
	"dashfleet/pkg/utils"

	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	fleetService *services.FleetService
}

func NewMaintenanceHandler(fleetService *services.FleetService) *MaintenanceHandler {
	return &MaintenanceHandler{fleetService: fleetService}
}

// GetActiveMaintenance lists vehicles under repair with their repair info
func (h *MaintenanceHandler) GetActiveMaintenance(c *gin.Context) {
	entries := h.fleetService.ActiveMaintenance(time.Now())
	utils.SuccessResponse(c, http.StatusOK, "Active maintenance retrieved successfully", entries)
}
