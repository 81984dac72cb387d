// Package realtime fans tracking events out to websocket subscribers.
// There is one global room plus one room per employee; the tracking
// service publishes into both after every committed write.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/tracking"
)

// IngestFunc lets websocket clients push location payloads through the
// same entry point the REST handlers use.
type IngestFunc func(ctx context.Context, action tracking.Action, req tracking.IngestRequest) (tracking.IngestResult, error)

type Hub struct {
	mu          sync.RWMutex
	global      map[*Client]struct{}
	perEmployee map[string]map[*Client]struct{}
	ingest      IngestFunc
	logger      *slog.Logger
}

func NewHub(ingest IngestFunc, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		global:      make(map[*Client]struct{}),
		perEmployee: make(map[string]map[*Client]struct{}),
		ingest:      ingest,
		logger:      logger,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.employeeID == "" {
		h.global[c] = struct{}{}
		return
	}
	room, ok := h.perEmployee[c.employeeID]
	if !ok {
		room = make(map[*Client]struct{})
		h.perEmployee[c.employeeID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.employeeID == "" {
		if _, ok := h.global[c]; ok {
			delete(h.global, c)
			close(c.send)
		}
		return
	}
	room, ok := h.perEmployee[c.employeeID]
	if !ok {
		return
	}
	if _, ok := room[c]; ok {
		delete(room, c)
		close(c.send)
	}
	if len(room) == 0 {
		delete(h.perEmployee, c.employeeID)
	}
}

// PublishGlobal implements tracking.Broadcaster.
func (h *Hub) PublishGlobal(event tracking.LocationEvent) {
	payload, err := json.Marshal(envelope{Type: "location_update", Data: event})
	if err != nil {
		h.logger.Warn("failed to encode broadcast event", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.global {
		h.send(c, payload)
	}
}

// PublishEmployee implements tracking.Broadcaster.
func (h *Hub) PublishEmployee(employeeID string, event tracking.LocationEvent) {
	payload, err := json.Marshal(envelope{Type: "location_update", Data: event})
	if err != nil {
		h.logger.Warn("failed to encode broadcast event", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.perEmployee[employeeID] {
		h.send(c, payload)
	}
}

// send never blocks the publisher. A subscriber whose buffer is full
// loses the message; the write pump will catch up or time out on its own.
func (h *Hub) send(c *Client, payload []byte) {
	select {
	case c.send <- payload:
	default:
		h.logger.Warn("dropping broadcast for slow subscriber",
			slog.String("employee_room", c.employeeID),
		)
	}
}

// GlobalSubscribers reports the current global room size.
func (h *Hub) GlobalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.global)
}

type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type errorEnvelope struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// resultEnvelope is the reply to an inbound ingest message, echoed to the
// sending client only.
type resultEnvelope struct {
	Type    string      `json:"type"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
