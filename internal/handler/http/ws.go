package http

import (
	"net/http"

	"github.com/fieldforce-hr/location-backend-go/internal/realtime"
	"github.com/go-chi/chi/v5"
)

type WebSocketHandler interface {
	Global(w http.ResponseWriter, r *http.Request)
	Employee(w http.ResponseWriter, r *http.Request)
}

type WebSocketHandlerImpl struct {
	hub *realtime.Hub
}

// Global implements WebSocketHandler: the all-employees feed.
func (h *WebSocketHandlerImpl) Global(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r, "")
}

// Employee implements WebSocketHandler: one employee's feed.
func (h *WebSocketHandlerImpl) Employee(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r, chi.URLParam(r, "employeeID"))
}

func NewWebSocketHandler(hub *realtime.Hub) WebSocketHandler {
	return &WebSocketHandlerImpl{hub: hub}
}
