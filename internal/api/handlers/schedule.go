package handlers

import (
	"net/http"
	"time"

	"dashfleet/internal/services"
	"dashfleet/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	fleetService *services.FleetService
}

func NewScheduleHandler(fleetService *services.FleetService) *ScheduleHandler {
	return &ScheduleHandler{fleetService: fleetService}
}

// GetSchedule returns the month grid with scheduled services plus the
// ranked pending list for a displayed month
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	year, month, ok := monthParams(c)
	if !ok {
		return
	}

	view := h.fleetService.Schedule(year, month, time.Now())
	utils.SuccessResponse(c, http.StatusOK, "Schedule retrieved successfully", view)
}
