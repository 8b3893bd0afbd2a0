package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/relay-one/tray-service/internal/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The gateway binds to loopback; cross-origin pages cannot reach it.
		return true
	},
}

// WebSocketHub maintains active WebSocket connections and fans tray events
// out to them.
type WebSocketHub struct {
	clients    map[*WebSocketClient]bool
	broadcast  chan *service.TrayEvent
	register   chan *WebSocketClient
	unregister chan *WebSocketClient
	logger     *slog.Logger
	mu         sync.RWMutex
}

// WebSocketClient represents a WebSocket client connection
type WebSocketClient struct {
	hub    *WebSocketHub
	conn   *websocket.Conn
	send   chan []byte
	id     string
	filter *ClientFilter
}

// ClientFilter restricts which event types a client receives.
type ClientFilter struct {
	Types []string `json:"types,omitempty"`
}

// SubscribeMessage represents a subscription request from client
type SubscribeMessage struct {
	Action string       `json:"action"`
	Filter ClientFilter `json:"filter"`
}

// NewWebSocketHub creates a new WebSocketHub
func NewWebSocketHub(logger *slog.Logger) *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*WebSocketClient]bool),
		broadcast:  make(chan *service.TrayEvent, 256),
		register:   make(chan *WebSocketClient),
		unregister: make(chan *WebSocketClient),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("websocket client connected", "client_id", client.id)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("websocket client disconnected", "client_id", client.id)

		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal tray event", "error", err)
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				if client.shouldReceive(event) {
					select {
					case client.send <- message:
					default:
						// Client buffer full, skip
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastEvent pushes a tray event to connected clients.
func (h *WebSocketHub) BroadcastEvent(event *service.TrayEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping event")
	}
}

// GetClientCount returns the number of connected clients
func (h *WebSocketHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// shouldReceive checks if the client subscribed to the event type
func (c *WebSocketClient) shouldReceive(event *service.TrayEvent) bool {
	if c.filter == nil || len(c.filter.Types) == 0 {
		return true
	}
	for _, t := range c.filter.Types {
		if t == event.Type {
			return true
		}
	}
	return false
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub *WebSocketHub
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *WebSocketHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleWebSocket handles WebSocket upgrade and connection
// @Summary WebSocket connection
// @Description Connect to WebSocket for real-time tray events
// @Tags websocket
// @Success 101 {string} string "Switching Protocols"
// @Router /ws [get]
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.logger.Error("failed to upgrade websocket", "error", err)
		return
	}

	client := &WebSocketClient{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
		id:   uuid.New().String(),
	}

	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub
func (c *WebSocketClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("websocket error", "error", err)
			}
			break
		}

		var subMsg SubscribeMessage
		if err := json.Unmarshal(message, &subMsg); err != nil {
			continue
		}

		if subMsg.Action == "subscribe" {
			c.filter = &subMsg.Filter
			c.hub.logger.Debug("websocket client subscribed",
				"client_id", c.id,
				"types", subMsg.Filter.Types,
			)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
