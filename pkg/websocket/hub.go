package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"healthwatch/internal/models"
)

// Message represents the standard message format exchanged over WebSocket.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	MessageAlertCreated     = "alert_created"
	MessageAlertDeactivated = "alert_deactivated"

	messageSubscribe = "subscribe"

	// allRegions is the room for displays that follow every region.
	allRegions = ""
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Public displays are served from arbitrary kiosks.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans alert events out to public displays grouped by region.
type Hub struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	stopped    chan struct{}
	mu         sync.RWMutex
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopped:    make(chan struct{}),
		log:        log.With().Str("component", "ws_hub").Logger(),
	}
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	region string
	done   chan struct{}
	// registered is closed by Run once the client is in its room.
	registered chan struct{}
}

// Run owns membership changes until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.join(client, client.region)
			region := client.region
			h.mu.Unlock()
			close(client.registered)
			h.log.Debug().Str("region", region).Msg("display connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.leave(client)
				delete(h.clients, client)
				close(client.send)
				close(client.done)
			}
			h.mu.Unlock()

		case <-ctx.Done():
			close(h.stopped)
			h.mu.Lock()
			for client := range h.clients {
				h.leave(client)
				delete(h.clients, client)
				close(client.send)
				close(client.done)
			}
			h.mu.Unlock()
			return
		}
	}
}

// join and leave expect h.mu to be held.
func (h *Hub) join(c *Client, region string) {
	room, ok := h.rooms[region]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[region] = room
	}
	room[c] = true
	c.region = region
}

func (h *Hub) leave(c *Client) {
	if room, ok := h.rooms[c.region]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.region)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastAlert notifies displays following the alert's region and those following all regions.
func (h *Hub) BroadcastAlert(messageType string, alert *models.HealthAlert) {
	data, err := json.Marshal(Message{Type: messageType, Data: alert})
	if err != nil {
		h.log.Error().Err(err).Msg("marshal alert message")
		return
	}

	var dropped []*Client
	h.mu.RLock()
	// Sends happen under the read lock so Run cannot close a channel mid-send.
	for _, room := range h.roomsFor(alert.Region) {
		for c := range room {
			select {
			case c.send <- data:
			default:
				dropped = append(dropped, c)
			}
		}
	}
	h.mu.RUnlock()

	for _, c := range dropped {
		h.log.Warn().Msg("send buffer full; dropping display")
		go h.drop(c)
	}
}

func (h *Hub) roomsFor(region string) []map[*Client]bool {
	rooms := []map[*Client]bool{h.rooms[region]}
	if region != allRegions {
		rooms = append(rooms, h.rooms[allRegions])
	}
	return rooms
}

func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}

// HandleWebSocket upgrades the request; the optional region query narrows the feed.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 64),
		region: r.URL.Query().Get("region"),
		done:   make(chan struct{}),

		registered: make(chan struct{}),
	}
	select {
	case h.register <- client:
	case <-h.stopped:
		conn.Close()
		return
	}
	// Pumps start only after Run has placed the client, so an early
	// subscribe message is never ignored.
	<-client.registered

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.drop(c)
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
				c.hub.log.Debug().Err(err).Msg("unexpected close")
			}
			return
		}
		c.handleMessage(message)
	}
}

func (c *Client) handleMessage(message []byte) {
	var msg struct {
		Type string `json:"type"`
		Data struct {
			Region string `json:"region"`
		} `json:"data"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		return
	}

	switch msg.Type {
	case messageSubscribe:
		c.hub.mu.Lock()
		if c.hub.clients[c] {
			c.hub.leave(c)
			c.hub.join(c, msg.Data.Region)
		}
		c.hub.mu.Unlock()
	}
}

func (c *Client) writePump() {
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
		case <-c.done:
			return
		}
	}
}
