package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/employee"
	"github.com/fieldforce-hr/location-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const maxUploadMemory = 10 << 20 // 10MB

type EmployeeHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)

	UploadDocument(w http.ResponseWriter, r *http.Request)
	ListDocuments(w http.ResponseWriter, r *http.Request)
	DownloadDocument(w http.ResponseWriter, r *http.Request)
	DeleteDocument(w http.ResponseWriter, r *http.Request)

	CreateNote(w http.ResponseWriter, r *http.Request)
	ListNotes(w http.ResponseWriter, r *http.Request)
	DeleteNote(w http.ResponseWriter, r *http.Request)
}

type EmployeeHandlerImpl struct {
	employeeService employee.Service
}

// Create implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created", result)
}

// Get implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements EmployeeHandler.
func (h *EmployeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := employee.EmployeeFilter{}
	query := r.URL.Query()

	if v := query.Get("department_id"); v != "" {
		filter.DepartmentID = &v
	}
	if v := query.Get("position_id"); v != "" {
		filter.PositionID = &v
	}
	if v := query.Get("employment_status"); v != "" {
		filter.EmploymentStatus = &v
	}
	if v := query.Get("search"); v != "" {
		filter.Search = &v
	}
	if v := query.Get("page"); v != "" {
		filter.Page, _ = strconv.Atoi(v)
	}
	if v := query.Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}

	result, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "employeeID")

	result, err := h.employeeService.UpdateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated", result)
}

// UploadDocument implements EmployeeHandler. Expects multipart form data
// with a "file" part plus metadata fields.
func (h *EmployeeHandlerImpl) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file is required", nil)
		return
	}
	defer file.Close()

	req := employee.UploadDocumentRequest{
		EmployeeID:   chi.URLParam(r, "employeeID"),
		DocumentType: r.FormValue("document_type"),
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		File:         file,
		FileHeader:   header,
	}

	result, err := h.employeeService.UploadDocument(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Document uploaded", result)
}

// ListDocuments implements EmployeeHandler.
func (h *EmployeeHandlerImpl) ListDocuments(w http.ResponseWriter, r *http.Request) {
	results, err := h.employeeService.ListDocuments(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// DownloadDocument implements EmployeeHandler. Streams the stored file.
func (h *EmployeeHandlerImpl) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	reader, doc, err := h.employeeService.DownloadDocument(r.Context(), chi.URLParam(r, "documentID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Title+`"`)
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = io.Copy(w, reader)
}

// DeleteDocument implements EmployeeHandler.
func (h *EmployeeHandlerImpl) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.employeeService.DeleteDocument(r.Context(), chi.URLParam(r, "documentID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Document deleted", nil)
}

// CreateNote implements EmployeeHandler.
func (h *EmployeeHandlerImpl) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeID")

	result, err := h.employeeService.CreateNote(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Note created", result)
}

// ListNotes implements EmployeeHandler. Confidential notes require the
// admin flag on the access token.
func (h *EmployeeHandlerImpl) ListNotes(w http.ResponseWriter, r *http.Request) {
	includeConfidential := isAdminRequest(r)

	results, err := h.employeeService.ListNotes(r.Context(), chi.URLParam(r, "employeeID"), includeConfidential)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// DeleteNote implements EmployeeHandler.
func (h *EmployeeHandlerImpl) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.employeeService.DeleteNote(r.Context(), chi.URLParam(r, "noteID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Note deleted", nil)
}

func NewEmployeeHandler(employeeService employee.Service) EmployeeHandler {
	return &EmployeeHandlerImpl{employeeService: employeeService}
}
