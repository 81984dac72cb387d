package http

import (
	"encoding/json"
	"net/http"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/geofence"
	"github.com/fieldforce-hr/location-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type GeofenceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type GeofenceHandlerImpl struct {
	geofenceService geofence.Service
}

// Create implements GeofenceHandler.
func (h *GeofenceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req geofence.CreateGeofenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.geofenceService.CreateGeofence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Geofence created", result)
}

// Get implements GeofenceHandler.
func (h *GeofenceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.geofenceService.GetGeofence(r.Context(), chi.URLParam(r, "geofenceID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements GeofenceHandler.
func (h *GeofenceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.geofenceService.ListGeofences(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Update implements GeofenceHandler.
func (h *GeofenceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req geofence.UpdateGeofenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "geofenceID")

	result, err := h.geofenceService.UpdateGeofence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Geofence updated", result)
}

// Delete implements GeofenceHandler.
func (h *GeofenceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.geofenceService.DeleteGeofence(r.Context(), chi.URLParam(r, "geofenceID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Geofence deleted", nil)
}

func NewGeofenceHandler(geofenceService geofence.Service) GeofenceHandler {
	return &GeofenceHandlerImpl{geofenceService: geofenceService}
}
