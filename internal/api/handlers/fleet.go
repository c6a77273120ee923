package handlers

import (
	"net/http"
	"strconv"
	"time"

	"dashfleet/internal/services"
	"dashfleet/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

type FleetHandler struct {
	fleetService *services.FleetService
}

func NewFleetHandler(fleetService *services.FleetService) *FleetHandler {
	return &FleetHandler{fleetService: fleetService}
}

// ListVehicles retrieves the fleet with search, sort and pagination
func (h *FleetHandler) ListVehicles(c *gin.Context) {
	query := c.Query("q")
	sortKey := c.DefaultQuery("sort", services.SortByID)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	vehicles, total := h.fleetService.ListVehicles(query, sortKey, page, limit)

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	utils.PaginatedResponse(c, http.StatusOK, "Vehicles retrieved successfully", vehicles, utils.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	})
}

// GetVehicle retrieves a single vehicle by its synthesized id
func (h *FleetHandler) GetVehicle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Vehicle ID must be numeric", err)
		return
	}

	vehicle, ok := h.fleetService.VehicleByID(id)
	if !ok {
		utils.ErrorResponse(c, http.StatusNotFound, "Vehicle not found", nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle retrieved successfully", vehicle)
}

// Reload re-fetches the dataset and resynthesizes the fleet. A dataset
// failure is reported in the response but leaves the service running.
func (h *FleetHandler) Reload(c *gin.Context) {
	if err := h.fleetService.Reload(c.Request.Context()); err != nil {
		utils.ErrorResponse(c, http.StatusBadGateway, "Dataset reload failed", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Fleet reloaded successfully", map[string]interface{}{
		"totalVehicles": len(h.fleetService.Vehicles()),
		"loadedAt":      h.fleetService.LoadedAt(),
	})
}

// GetHistory returns the derived maintenance history for a vehicle. An
// "issues" query param carried from the failures view overrides the
// vehicle's own issue count.
func (h *FleetHandler) GetHistory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Vehicle ID must be numeric", err)
		return
	}

	var issuesOverride *int
	if raw := c.Query("issues"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "issues must be a non-negative integer", err)
			return
		}
		issuesOverride = &n
	}

	events, vehicle, ok := h.fleetService.History(id, issuesOverride, time.Now())
	if !ok {
		utils.ErrorResponse(c, http.StatusNotFound, "Vehicle not found", nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "History retrieved successfully", map[string]interface{}{
		"vehicle": vehicle,
		"events":  events,
	})
}
