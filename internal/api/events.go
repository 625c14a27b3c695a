package api

import (
	"net/http"
	"sync"
	"time"

	"chorequest/pkg/auth"
	"chorequest/pkg/logger"
	"go.uber.org/zap"

	json "github.com/goccy/go-json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event is pushed to a kid's connected devices when something they are
// waiting on gets resolved.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

const (
	EventSubmissionReviewed = "submission_reviewed"
	EventQuestTaskReviewed  = "quest_task_reviewed"
	EventRedemptionReviewed = "redemption_reviewed"
)

// EventHub fans review outcomes out to websocket connections, keyed by
// kid. A kid may hold several connections at once (tablet + phone).
type EventHub struct {
	mu    sync.Mutex
	conns map[uuid.UUID]map[*websocket.Conn]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{
		conns: make(map[uuid.UUID]map[*websocket.Conn]struct{}),
	}
}

func (h *EventHub) add(kidID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[kidID]
	if !ok {
		set = make(map[*websocket.Conn]struct{})
		h.conns[kidID] = set
	}
	set[conn] = struct{}{}
}

func (h *EventHub) remove(kidID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.conns[kidID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, kidID)
		}
	}
}

// Publish sends an event to every live connection of one kid. Dead
// connections are dropped on write failure. Safe on a nil hub.
func (h *EventHub) Publish(kidID uuid.UUID, eventType string, payload interface{}) {
	if h == nil {
		return
	}

	data, err := json.Marshal(Event{
		Type:    eventType,
		Payload: payload,
		At:      time.Now().UTC(),
	})
	if err != nil {
		logger.Logger().Warn("failed to marshal event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.conns[kidID]
	for conn := range set {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(set, conn)
		}
	}
	if len(set) == 0 {
		delete(h.conns, kidID)
	}
}

type eventRoutes struct {
	hub *EventHub
	a   *auth.TokenAuth
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewEventRoutes(handler *gin.RouterGroup, hub *EventHub, a *auth.TokenAuth) {
	h := &eventRoutes{hub: hub, a: a}

	kid := handler.Group("/kid")
	kid.Use(a.KidMiddleware())
	{
		kid.GET("/events", h.Events)
	}
}

func (h *eventRoutes) Events(c *gin.Context) {
	kid, ok := auth.KidFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Logger().Warn("failed to upgrade websocket", zap.Error(err))
		return
	}

	h.hub.add(kid.ID, conn)
	defer func() {
		h.hub.remove(kid.ID, conn)
		conn.Close()
	}()

	// The stream is push-only. The read loop exists to notice the
	// client going away; inbound messages are discarded.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
