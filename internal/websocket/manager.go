package websocket

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Manager fans VizCommands out to every connected viewer. Slow viewers are
// dropped rather than allowed to back-pressure the broadcast loop.
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan VizCommand
	mutex      sync.RWMutex
	upgrader   websocket.Upgrader
	done       chan struct{}
}

// NewManager creates a viewer broadcast manager.
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan VizCommand, 256),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// CORS policy is enforced at the router; the upgrade accepts
				// whatever got through it.
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		done: make(chan struct{}),
	}
}

// Start begins the manager's broadcast loop.
func (m *Manager) Start() error {
	go m.run()
	log.Println("Viz WebSocket manager started")
	return nil
}

// Stop closes every viewer connection and ends the loop.
func (m *Manager) Stop() error {
	close(m.done)

	m.mutex.Lock()
	for _, client := range m.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
	m.clients = make(map[string]*Client)
	m.mutex.Unlock()

	log.Println("Viz WebSocket manager stopped")
	return nil
}

func (m *Manager) run() {
	for {
		select {
		case client := <-m.register:
			m.mutex.Lock()
			m.clients[client.ID] = client
			m.mutex.Unlock()
			log.Printf("Viewer %s connected", client.ID)
			go m.writePump(client)

		case client := <-m.unregister:
			m.mutex.Lock()
			if _, ok := m.clients[client.ID]; ok {
				delete(m.clients, client.ID)
				close(client.Send)
				if client.Conn != nil {
					client.Conn.Close()
				}
			}
			m.mutex.Unlock()
			log.Printf("Viewer %s disconnected", client.ID)

		case cmd := <-m.broadcast:
			m.fanOut(cmd)

		case <-m.done:
			return
		}
	}
}

// Upgrade turns an HTTP request into a registered viewer connection.
func (m *Manager) Upgrade(w http.ResponseWriter, r *http.Request, clientID string) error {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade viewer connection: %w", err)
	}
	return m.RegisterClient(clientID, conn)
}

// RegisterClient registers a connected viewer.
func (m *Manager) RegisterClient(clientID string, conn *websocket.Conn) error {
	select {
	case <-m.done:
		return fmt.Errorf("manager is stopped")
	default:
	}

	m.register <- &Client{
		ID:       clientID,
		Conn:     conn,
		Send:     make(chan VizCommand, 64),
		LastSeen: time.Now(),
	}
	return nil
}

// UnregisterClient drops a viewer by id.
func (m *Manager) UnregisterClient(clientID string) error {
	m.mutex.RLock()
	client, ok := m.clients[clientID]
	m.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("unknown viewer %s", clientID)
	}
	m.unregister <- client
	return nil
}

// Broadcast queues a command for every connected viewer. Commands are
// timestamped here so callers don't have to.
func (m *Manager) Broadcast(cmd VizCommand) {
	if cmd.Timestamp.IsZero() {
		cmd.Timestamp = time.Now()
	}

	select {
	case m.broadcast <- cmd:
	case <-m.done:
	default:
		log.Printf("Viz broadcast buffer full, dropping %s command", cmd.Type)
	}
}

// ConnectedClients returns the number of connected viewers.
func (m *Manager) ConnectedClients() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

func (m *Manager) fanOut(cmd VizCommand) {
	m.mutex.RLock()
	clients := make([]*Client, 0, len(m.clients))
	for _, c := range m.clients {
		clients = append(clients, c)
	}
	m.mutex.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- cmd:
		default:
			// Viewer can't keep up; disconnect it.
			log.Printf("Viewer %s send buffer full, dropping connection", client.ID)
			go func(c *Client) { m.unregister <- c }(client)
		}
	}
}

func (m *Manager) writePump(client *Client) {
	for cmd := range client.Send {
		if client.Conn == nil {
			continue
		}
		client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := client.Conn.WriteJSON(cmd); err != nil {
			log.Printf("Failed to write to viewer %s: %v", client.ID, err)
			m.unregister <- client
			return
		}
	}
}
