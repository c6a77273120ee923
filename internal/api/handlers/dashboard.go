package handlers

import (
	"net/http"
	"strconv"
	"time"

	"dashfleet/internal/services"
	"dashfleet/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	fleetService *services.FleetService
}

func NewDashboardHandler(fleetService *services.FleetService) *DashboardHandler {
	return &DashboardHandler{fleetService: fleetService}
}

// GetDashboard returns the aggregate cards plus both trend series for the
// current month
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	summary := h.fleetService.Dashboard(time.Now())
	utils.SuccessResponse(c, http.StatusOK, "Dashboard retrieved successfully", summary)
}

// GetHealthTrend returns the 4-week health series for a displayed month
func (h *DashboardHandler) GetHealthTrend(c *gin.Context) {
	year, month, ok := monthParams(c)
	if !ok {
		return
	}

	points := h.fleetService.HealthTrendFor(year, month)
	utils.SuccessResponse(c, http.StatusOK, "Health trend retrieved successfully", points)
}

// GetFailureTrend returns the 4-week failure series for a displayed month
func (h *DashboardHandler) GetFailureTrend(c *gin.Context) {
	year, month, ok := monthParams(c)
	if !ok {
		return
	}

	points := h.fleetService.FailureTrendFor(year, month)
	utils.SuccessResponse(c, http.StatusOK, "Failure trend retrieved successfully", points)
}

// monthParams reads optional year/month query params, defaulting to the
// current month. On invalid input it writes the error response itself.
func monthParams(c *gin.Context) (int, time.Month, bool) {
	now := time.Now()
	year, month := now.Year(), now.Month()

	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			utils.ErrorResponse(c, http.StatusBadRequest, "year must be a positive integer", err)
			return 0, 0, false
		}
		year = y
	}
	if raw := c.Query("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			utils.ErrorResponse(c, http.StatusBadRequest, "month must be between 1 and 12", err)
			return 0, 0, false
		}
		month = time.Month(m)
	}
	return year, month, true
}
