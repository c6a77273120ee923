// Package viz is the boundary to the 3D-visualization collaborator. The core
// never reads visualization state back; it only pushes commands through an
// explicit Handle obtained from the initializer, never through a process-wide
// hook.
package viz

import (
	"fmt"

	"dashfleet/internal/models"
	"dashfleet/internal/websocket"
)

// Handle is what controllers use to drive the visualization.
type Handle interface {
	// SetHighlightedAreas marks a vehicle's problem areas in the viewer.
	SetHighlightedAreas(vehicleID int, areas []models.IssueType) error
	// SetComponentHealth pushes a health value for a component name or glob
	// pattern (e.g. "battery*").
	SetComponentHealth(component string, value float64) error
}

type wsHandle struct {
	broadcaster websocket.VizBroadcaster
}

// NewHandle returns a Handle that pushes commands to every connected viewer
// via the given broadcaster.
func NewHandle(broadcaster websocket.VizBroadcaster) Handle {
	return &wsHandle{broadcaster: broadcaster}
}

func (h *wsHandle) SetHighlightedAreas(vehicleID int, areas []models.IssueType) error {
	for _, area := range areas {
		if _, ok := models.IssueInfo(area); !ok {
			return fmt.Errorf("unknown highlight area %q", area)
		}
	}

	h.broadcaster.Broadcast(websocket.VizCommand{
		Type:      websocket.CommandHighlightAreas,
		VehicleID: vehicleID,
		Areas:     areas,
	})
	return nil
}

func (h *wsHandle) SetComponentHealth(component string, value float64) error {
	if component == "" {
		return fmt.Errorf("component name or pattern is required")
	}
	if value < 0 || value > 100 {
		return fmt.Errorf("component health %v out of range [0,100]", value)
	}

	h.broadcaster.Broadcast(websocket.VizCommand{
		Type:      websocket.CommandComponentHealth,
		Component: component,
		Value:     value,
	})
	return nil
}
