package websocket

import (
	"time"

	"github.com/gorilla/websocket"

	"dashfleet/internal/models"
)

// Command message types pushed to connected viewers.
const (
	CommandHighlightAreas  = "highlight_areas"
	CommandComponentHealth = "component_health"
	CommandFleetReloaded   = "fleet_reloaded"
)

// VizCommand is one message pushed to 3D-visualization viewers. The server
// only writes commands; it never reads visualization state back.
type VizCommand struct {
	Type      string             `json:"type"`
	VehicleID int                `json:"vehicleId,omitempty"`
	Areas     []models.IssueType `json:"areas,omitempty"`
	Component string             `json:"component,omitempty"` // component name or glob pattern
	Value     float64            `json:"value,omitempty"`     // health 0-100
	FleetSize int                `json:"fleetSize,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// Client is one connected viewer.
type Client struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan VizCommand
	LastSeen time.Time
}

// VizBroadcaster is the contract the rest of the service programs against.
type VizBroadcaster interface {
	RegisterClient(clientID string, conn *websocket.Conn) error
	UnregisterClient(clientID string) error
	Broadcast(cmd VizCommand)
	ConnectedClients() int
	Start() error
	Stop() error
}
