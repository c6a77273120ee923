package handlers

import (
	"net/http"

	"dashfleet/internal/services"
	"dashfleet/pkg/utils"

	"github.com/gin-gonic/gin"
)

type FailuresHandler struct {
	fleetService *services.FleetService
}

func NewFailuresHandler(fleetService *services.FleetService) *FailuresHandler {
	return &FailuresHandler{fleetService: fleetService}
}

// GetPredictedFailures lists vehicles with unresolved issues and their
// assigned issue cards
func (h *FailuresHandler) GetPredictedFailures(c *gin.Context) {
	predictions := h.fleetService.PredictedFailures()
	utils.SuccessResponse(c, http.StatusOK, "Predicted failures retrieved successfully", predictions)
}
