// Package handlers contains HTTP handlers that belong to the server
// itself rather than to any one module.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/skoller/showsync/internal/events"
	"github.com/skoller/showsync/internal/logger"
)

// EventsHandler exposes the in-process event bus over HTTP
type EventsHandler struct {
	eventBus events.EventBus
	upgrader websocket.Upgrader
}

// NewEventsHandler creates an events handler
func NewEventsHandler(eventBus events.EventBus) *EventsHandler {
	return &EventsHandler{
		eventBus: eventBus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect cross-origin in development
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GetEvents handles GET /api/events
// It returns the most recent events, newest last. ?limit= caps the
// count; the bus keeps a bounded buffer either way.
func (h *EventsHandler) GetEvents(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	recent := h.eventBus.GetRecent(limit)
	c.JSON(http.StatusOK, gin.H{
		"events": recent,
		"count":  len(recent),
	})
}

// StreamEvents handles GET /api/events/stream
// It upgrades to a websocket and forwards every bus event to the client
// as JSON until the connection drops.
func (h *EventsHandler) StreamEvents(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Buffered so a slow client drops events instead of stalling the bus
	stream := make(chan events.Event, 64)
	subscription, err := h.eventBus.Subscribe(events.EventFilter{}, func(event events.Event) error {
		select {
		case stream <- event:
		default:
		}
		return nil
	})
	if err != nil {
		logger.Warn("Event stream subscription failed", "error", err)
		return
	}
	defer h.eventBus.Unsubscribe(subscription.ID)

	// Reader goroutine notices the client going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case event := <-stream:
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}
