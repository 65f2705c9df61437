package httpapi

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/aminhilali/minaret/internal/domain"
	"github.com/aminhilali/minaret/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub pushes the live countdown to connected PWA clients: a tick
// message once per second and an alert message whenever the scheduler
// fires. The tick interval is separate from the scheduler's coarser
// evaluation interval; display smoothness and alert correctness have
// different precision needs.
type Hub struct {
	scheduler *usecase.AlertScheduler
	interval  time.Duration
	logger    *zap.Logger
	upgrader  websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

type wsMessage struct {
	Type       string             `json:"type"` // "tick" or "alert"
	Transition *transitionPayload `json:"transition,omitempty"`
	Kind       string             `json:"kind,omitempty"`
	Prayer     string             `json:"prayer,omitempty"`
	At         string             `json:"at,omitempty"`
}

func NewHub(scheduler *usecase.AlertScheduler, interval time.Duration, logger *zap.Logger) *Hub {
	return &Hub{
		scheduler: scheduler,
		interval:  interval,
		logger:    logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handle upgrades the request and keeps the connection registered
// until the client goes away.
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", zap.Int("clients", count))

	// Clients only listen; the read loop exists to notice the close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
}

// Run broadcasts the countdown until ctx is cancelled. Nothing is sent
// while no schedule is resolved.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			transition, err := h.scheduler.CurrentTransition()
			if err != nil {
				if !errors.Is(err, domain.ErrNoSchedule) {
					h.logger.Warn("countdown tick failed", zap.Error(err))
				}
				continue
			}
			payload := toTransitionPayload(transition)
			h.broadcast(wsMessage{Type: "tick", Transition: &payload})
		}
	}
}

// Name and Deliver make the hub an alert sink alongside telegram.
func (h *Hub) Name() string { return "websocket" }

func (h *Hub) Deliver(_ context.Context, event domain.AlertEvent) error {
	h.broadcast(wsMessage{
		Type:   "alert",
		Kind:   string(event.Key.Kind),
		Prayer: string(event.Key.Prayer),
		At:     event.At.Format(time.RFC3339),
	})
	return nil
}

func (h *Hub) broadcast(msg wsMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(msg); err != nil {
			delete(h.clients, conn)
			_ = conn.Close()
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
	}
}
