package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/tracking"
	"github.com/fieldforce-hr/location-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TrackingHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	UpdateLocation(w http.ResponseWriter, r *http.Request)
	GetStatus(w http.ResponseWriter, r *http.Request)
	ListStatuses(w http.ResponseWriter, r *http.Request)
	ListOnline(w http.ResponseWriter, r *http.Request)
	ByGeofence(w http.ResponseWriter, r *http.Request)
	TodayCheckIns(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Analytics(w http.ResponseWriter, r *http.Request)
}

type TrackingHandlerImpl struct {
	trackingService tracking.Service
}

func (h *TrackingHandlerImpl) decodeIngest(w http.ResponseWriter, r *http.Request) (tracking.IngestRequest, bool) {
	var req tracking.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return tracking.IngestRequest{}, false
	}
	return req, true
}

// CheckIn implements TrackingHandler.
func (h *TrackingHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeIngest(w, r)
	if !ok {
		return
	}

	result, err := h.trackingService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in", result)
}

// CheckOut implements TrackingHandler.
func (h *TrackingHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeIngest(w, r)
	if !ok {
		return
	}

	result, err := h.trackingService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked out", result)
}

// UpdateLocation implements TrackingHandler.
func (h *TrackingHandlerImpl) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeIngest(w, r)
	if !ok {
		return
	}

	result, err := h.trackingService.UpdateLocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetStatus implements TrackingHandler.
func (h *TrackingHandlerImpl) GetStatus(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	status, err := h.trackingService.GetEmployeeStatus(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// ListStatuses implements TrackingHandler.
func (h *TrackingHandlerImpl) ListStatuses(w http.ResponseWriter, r *http.Request) {
	var filter tracking.StatusFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := tracking.Status(raw)
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("online_only"); raw != "" {
		filter.OnlineOnly = raw == "true" || raw == "1"
	}

	statuses, err := h.trackingService.ListStatuses(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, statuses)
}

// ListOnline implements TrackingHandler.
func (h *TrackingHandlerImpl) ListOnline(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.trackingService.ListOnline(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, statuses)
}

// ByGeofence implements TrackingHandler. With a geofence id it lists the
// occupants of that fence; without, it groups everyone by fence name.
func (h *TrackingHandlerImpl) ByGeofence(w http.ResponseWriter, r *http.Request) {
	if geofenceID := r.URL.Query().Get("geofence_id"); geofenceID != "" {
		statuses, err := h.trackingService.EmployeesInGeofence(r.Context(), geofenceID)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, statuses)
		return
	}

	grouped, err := h.trackingService.StatusesByGeofence(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, grouped)
}

// TodayCheckIns implements TrackingHandler.
func (h *TrackingHandlerImpl) TodayCheckIns(w http.ResponseWriter, r *http.Request) {
	events, err := h.trackingService.TodayCheckIns(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, events)
}

// History implements TrackingHandler.
func (h *TrackingHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "limit must be a number", nil)
			return
		}
		limit = parsed
	}

	samples, err := h.trackingService.History(r.Context(), employeeID, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, samples)
}

// Summary implements TrackingHandler.
func (h *TrackingHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.trackingService.Summary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// Analytics implements TrackingHandler.
func (h *TrackingHandlerImpl) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.trackingService.Analytics(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, analytics)
}

func NewTrackingHandler(trackingService tracking.Service) TrackingHandler {
	return &TrackingHandlerImpl{trackingService: trackingService}
}
