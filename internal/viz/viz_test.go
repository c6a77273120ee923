package viz

import (
	"testing"

	"dashfleet/internal/models"
	"dashfleet/internal/websocket"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroadcaster struct {
	commands []websocket.VizCommand
}

func (r *recordingBroadcaster) RegisterClient(string, *gorilla.Conn) error { return nil }
func (r *recordingBroadcaster) UnregisterClient(string) error             { return nil }
func (r *recordingBroadcaster) ConnectedClients() int                     { return 0 }
func (r *recordingBroadcaster) Start() error                              { return nil }
func (r *recordingBroadcaster) Stop() error                               { return nil }
func (r *recordingBroadcaster) Broadcast(cmd websocket.VizCommand) {
	r.commands = append(r.commands, cmd)
}

func TestSetHighlightedAreas(t *testing.T) {
	rec := &recordingBroadcaster{}
	h := NewHandle(rec)

	err := h.SetHighlightedAreas(4, []models.IssueType{models.IssueBrakes, models.IssueCooling})
	require.NoError(t, err)
	require.Len(t, rec.commands, 1)

	cmd := rec.commands[0]
	assert.Equal(t, websocket.CommandHighlightAreas, cmd.Type)
	assert.Equal(t, 4, cmd.VehicleID)
	assert.Equal(t, []models.IssueType{models.IssueBrakes, models.IssueCooling}, cmd.Areas)
}

func TestSetHighlightedAreas_UnknownArea(t *testing.T) {
	rec := &recordingBroadcaster{}
	h := NewHandle(rec)

	err := h.SetHighlightedAreas(4, []models.IssueType{"warp-core"})
	assert.Error(t, err)
	assert.Empty(t, rec.commands, "invalid commands must not be broadcast")
}

func TestSetComponentHealth(t *testing.T) {
	rec := &recordingBroadcaster{}
	h := NewHandle(rec)

	require.NoError(t, h.SetComponentHealth("battery*", 62))
	require.Len(t, rec.commands, 1)
	assert.Equal(t, websocket.CommandComponentHealth, rec.commands[0].Type)
	assert.Equal(t, "battery*", rec.commands[0].Component)
	assert.Equal(t, 62.0, rec.commands[0].Value)

	assert.Error(t, h.SetComponentHealth("", 50))
	assert.Error(t, h.SetComponentHealth("battery*", 130))
	assert.Error(t, h.SetComponentHealth("battery*", -5))
	assert.Len(t, rec.commands, 1)
}
