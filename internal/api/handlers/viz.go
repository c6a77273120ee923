package handlers

import (
	"fmt"
	"net/http"
	"time"

	"dashfleet/internal/models"
	"dashfleet/internal/viz"
	"dashfleet/internal/websocket"
	"dashfleet/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// VizHandler bridges HTTP to the visualization: viewers subscribe over
// WebSocket, controllers push commands through the viz handle.
type VizHandler struct {
	manager   *websocket.Manager
	handle    viz.Handle
	validator *validator.Validate
}

func NewVizHandler(manager *websocket.Manager, handle viz.Handle) *VizHandler {
	return &VizHandler{
		manager:   manager,
		handle:    handle,
		validator: validator.New(),
	}
}

// Subscribe upgrades the connection to a viewer WebSocket
func (h *VizHandler) Subscribe(c *gin.Context) {
	clientID := c.Query("client_id")
	if clientID == "" {
		clientID = fmt.Sprintf("viewer-%d", time.Now().UnixNano())
	}

	if err := h.manager.Upgrade(c.Writer, c.Request, clientID); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "WebSocket upgrade failed", err)
		return
	}
}

type highlightRequest struct {
	VehicleID int      `json:"vehicleId" validate:"required,min=1"`
	Areas     []string `json:"areas" validate:"required"`
}

// Highlight pushes a vehicle's problem areas to every connected viewer
func (h *VizHandler) Highlight(c *gin.Context) {
	var req highlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	areas := make([]models.IssueType, len(req.Areas))
	for i, a := range req.Areas {
		areas[i] = models.IssueType(a)
	}

	if err := h.handle.SetHighlightedAreas(req.VehicleID, areas); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to push highlight", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Highlight pushed successfully", map[string]interface{}{
		"viewers": h.manager.ConnectedClients(),
	})
}

type componentHealthRequest struct {
	Component string  `json:"component" validate:"required"`
	Value     float64 `json:"value" validate:"min=0,max=100"`
}

// ComponentHealth pushes a health value for a component name or pattern
func (h *VizHandler) ComponentHealth(c *gin.Context) {
	var req componentHealthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	if err := h.handle.SetComponentHealth(req.Component, req.Value); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to push component health", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Component health pushed successfully", map[string]interface{}{
		"viewers": h.manager.ConnectedClients(),
	})
}
