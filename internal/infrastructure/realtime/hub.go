// Package realtime pushes plan events to connected websocket clients
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/alchemorsel/mealplan/internal/domain/plan"
	"github.com/alchemorsel/mealplan/internal/domain/shared"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message is the JSON frame sent for every plan event
type Message struct {
	Type       string    `json:"type"`
	PlanID     uint      `json:"planId,omitempty"`
	EntryID    uint      `json:"entryId,omitempty"`
	RecipeID   uint      `json:"recipeId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Config controls connection housekeeping
type Config struct {
	PingInterval time.Duration
	WriteTimeout time.Duration
	SendBuffer   int
}

type client struct {
	userID uint
	conn   *websocket.Conn
	send   chan []byte
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub tracks websocket clients per user and fans events out to them. It
// implements shared.EventPublisher.
type Hub struct {
	config   Config
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu      sync.RWMutex
	clients map[uint]map[*client]struct{}
}

// NewHub creates a hub
func NewHub(cfg Config, logger *zap.Logger) *Hub {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 25 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 16
	}

	return &Hub{
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origin checks are left to the CORS configuration in front of the API
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger.Named("realtime"),
		clients: make(map[uint]map[*client]struct{}),
	}
}

var _ shared.EventPublisher = (*Hub)(nil)

// Publish delivers user-scoped events to that user's connections. A client
// whose buffer is full is disconnected rather than blocking the caller.
func (h *Hub) Publish(ctx context.Context, events ...shared.DomainEvent) {
	for _, event := range events {
		scoped, ok := event.(shared.UserScopedEvent)
		if !ok {
			continue
		}

		payload, err := json.Marshal(toMessage(event))
		if err != nil {
			h.logger.Error("Failed to encode event", zap.String("event", event.EventName()), zap.Error(err))
			continue
		}

		// sends happen under the read lock so no channel is closed mid-send
		var slow []*client
		h.mu.RLock()
		for c := range h.clients[scoped.OwnerID()] {
			select {
			case c.send <- payload:
			default:
				slow = append(slow, c)
			}
		}
		h.mu.RUnlock()

		for _, c := range slow {
			h.logger.Warn("Dropping slow websocket client", zap.Uint("user_id", c.userID))
			h.unregister(c)
		}
	}
}

func toMessage(event shared.DomainEvent) Message {
	msg := Message{Type: event.EventName(), OccurredAt: event.OccurredAt()}
	if e, ok := event.(plan.EntryEvent); ok {
		msg.PlanID = e.PlanID
		msg.EntryID = e.EntryID
		msg.RecipeID = e.RecipeID
	}
	return msg
}

// Serve upgrades the request and streams userID's events until the client
// goes away
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uint) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, h.config.SendBuffer),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
	return nil
}

// Connections returns the number of open connections for userID
func (h *Hub) Connections(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, set := range h.clients {
		for c := range set {
			c.close()
		}
		delete(h.clients, userID)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
	h.logger.Debug("Client connected", zap.Uint("user_id", c.userID), zap.Int("connections", len(set)))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.clients[c.userID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			c.close()
		}
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
}

// readPump discards client frames; it exists to process pongs and notice disconnects
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	wait := 2 * h.config.PingInterval
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(wait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("Websocket read failed", zap.Uint("user_id", c.userID), zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(h.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.unregister(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(c)
				return
			}
		}
	}
}
