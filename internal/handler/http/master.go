package http

import (
	"encoding/json"
	"net/http"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/master"
	"github.com/fieldforce-hr/location-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type MasterHandler interface {
	CreateDepartment(w http.ResponseWriter, r *http.Request)
	GetDepartment(w http.ResponseWriter, r *http.Request)
	ListDepartments(w http.ResponseWriter, r *http.Request)
	UpdateDepartment(w http.ResponseWriter, r *http.Request)
	DeleteDepartment(w http.ResponseWriter, r *http.Request)

	CreatePosition(w http.ResponseWriter, r *http.Request)
	GetPosition(w http.ResponseWriter, r *http.Request)
	ListPositions(w http.ResponseWriter, r *http.Request)
	UpdatePosition(w http.ResponseWriter, r *http.Request)
	DeletePosition(w http.ResponseWriter, r *http.Request)
}

type MasterHandlerImpl struct {
	masterService master.Service
}

// CreateDepartment implements MasterHandler.
func (h *MasterHandlerImpl) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req master.DepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.masterService.CreateDepartment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Department created", result)
}

// GetDepartment implements MasterHandler.
func (h *MasterHandlerImpl) GetDepartment(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.GetDepartment(r.Context(), chi.URLParam(r, "departmentID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListDepartments implements MasterHandler.
func (h *MasterHandlerImpl) ListDepartments(w http.ResponseWriter, r *http.Request) {
	results, err := h.masterService.ListDepartments(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// UpdateDepartment implements MasterHandler.
func (h *MasterHandlerImpl) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	var req master.DepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "departmentID")

	result, err := h.masterService.UpdateDepartment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Department updated", result)
}

// DeleteDepartment implements MasterHandler.
func (h *MasterHandlerImpl) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	if err := h.masterService.DeleteDepartment(r.Context(), chi.URLParam(r, "departmentID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Department deleted", nil)
}

// CreatePosition implements MasterHandler.
func (h *MasterHandlerImpl) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req master.PositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.masterService.CreatePosition(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Position created", result)
}

// GetPosition implements MasterHandler.
func (h *MasterHandlerImpl) GetPosition(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.GetPosition(r.Context(), chi.URLParam(r, "positionID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPositions implements MasterHandler.
func (h *MasterHandlerImpl) ListPositions(w http.ResponseWriter, r *http.Request) {
	results, err := h.masterService.ListPositions(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// UpdatePosition implements MasterHandler.
func (h *MasterHandlerImpl) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	var req master.PositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "positionID")

	result, err := h.masterService.UpdatePosition(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Position updated", result)
}

// DeletePosition implements MasterHandler.
func (h *MasterHandlerImpl) DeletePosition(w http.ResponseWriter, r *http.Request) {
	if err := h.masterService.DeletePosition(r.Context(), chi.URLParam(r, "positionID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Position deleted", nil)
}

func NewMasterHandler(masterService master.Service) MasterHandler {
	return &MasterHandlerImpl{masterService: masterService}
}
