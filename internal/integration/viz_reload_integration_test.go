package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"dashfleet/internal/api/routes"
	"dashfleet/internal/config"
	"dashfleet/internal/dataset"
	"dashfleet/internal/services"
	"dashfleet/internal/viz"
	wshub "dashfleet/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testStack is the fully wired service behind a live HTTP server.
type testStack struct {
	server  *httptest.Server
	manager *wshub.Manager
}

func newTestStack(t *testing.T, rows int) *testStack {
	t.Helper()

	csv := "brand,model,range_km,battery_capacity_kWh\n"
	for i := 0; i < rows; i++ {
		csv += "Brand" + strconv.Itoa(i) + ",M" + strconv.Itoa(i) + ",250,\n"
	}
	path := filepath.Join(t.TempDir(), "vehicles.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	manager := wshub.NewManager()
	require.NoError(t, manager.Start())
	t.Cleanup(func() { manager.Stop() })

	fleetService := services.NewFleetService(dataset.NewLoader(path))
	fleetService.SetBroadcaster(manager)
	require.NoError(t, fleetService.Load(context.Background()))

	router := gin.New()
	routes.SetupRoutes(router, fleetService, manager, viz.NewHandle(manager), nil, nil, &config.Config{})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testStack{server: server, manager: manager}
}

func (s *testStack) dialViewer(t *testing.T, clientID string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/api/v1/viz/ws?client_id=" + clientID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Give the hub a moment to register the viewer.
	require.Eventually(t, func() bool {
		return s.manager.ConnectedClients() > 0
	}, time.Second, 10*time.Millisecond)

	return conn
}

func readCommand(t *testing.T, conn *websocket.Conn) wshub.VizCommand {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var cmd wshub.VizCommand
	require.NoError(t, conn.ReadJSON(&cmd))
	return cmd
}

func TestReloadNotifiesViewers(t *testing.T) {
	stack := newTestStack(t, 6)
	conn := stack.dialViewer(t, "viewer-1")

	resp, err := http.Post(stack.server.URL+"/api/v1/fleet/reload", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cmd := readCommand(t, conn)
	assert.Equal(t, wshub.CommandFleetReloaded, cmd.Type)
	assert.Equal(t, 6, cmd.FleetSize)
	assert.False(t, cmd.Timestamp.IsZero())
}

func TestHighlightReachesAllViewers(t *testing.T) {
	stack := newTestStack(t, 3)
	first := stack.dialViewer(t, "viewer-1")
	second := stack.dialViewer(t, "viewer-2")

	body, err := json.Marshal(map[string]interface{}{
		"vehicleId": 2,
		"areas":     []string{"brakes", "cooling"},
	})
	require.NoError(t, err)

	resp, err := http.Post(stack.server.URL+"/api/v1/viz/highlight", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, conn := range []*websocket.Conn{first, second} {
		cmd := readCommand(t, conn)
		assert.Equal(t, wshub.CommandHighlightAreas, cmd.Type)
		assert.Equal(t, 2, cmd.VehicleID)
		assert.Len(t, cmd.Areas, 2)
	}
}

func TestReadEndpointsServeWiredFleet(t *testing.T) {
	stack := newTestStack(t, 10)

	for _, path := range []string{
		"/api/v1/health",
		"/api/v1/fleet",
		"/api/v1/dashboard",
		"/api/v1/maintenance",
		"/api/v1/failures",
		"/api/v1/schedule",
		"/api/v1/fleet/1/history",
	} {
		resp, err := http.Get(stack.server.URL + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
