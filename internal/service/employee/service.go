package employee

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/employee"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/master"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/database"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/validator"
	"github.com/fieldforce-hr/location-backend-go/internal/service/file"
)

type EmployeeServiceImpl struct {
	db          *database.DB
	repo        employee.Repository
	departments master.DepartmentRepository
	positions   master.PositionRepository
	fileService file.FileService
}

// CreateEmployee implements employee.Service. Department and position are
// verified up front so the insert can only fail on uniqueness.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if _, err := s.departments.GetByID(ctx, req.DepartmentID); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if _, err := s.positions.GetByID(ctx, req.PositionID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hireDate, _ := validator.IsValidDate(req.HireDate)

	status := employee.EmploymentActive
	if req.EmploymentStatus != "" {
		status = employee.EmploymentStatus(req.EmploymentStatus)
	}
	empType := employee.EmploymentFullTime
	if req.EmploymentType != "" {
		empType = employee.EmploymentType(req.EmploymentType)
	}

	created, err := s.repo.Create(ctx, employee.Employee{
		EmployeeCode:     req.EmployeeCode,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		PhoneNumber:      req.PhoneNumber,
		DepartmentID:     req.DepartmentID,
		PositionID:       req.PositionID,
		EmploymentStatus: status,
		EmploymentType:   empType,
		HireDate:         hireDate,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return s.GetEmployee(ctx, created.ID)
}

// GetEmployee implements employee.Service.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return toEmployeeResponse(emp), nil
}

// ListEmployees implements employee.Service.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeesResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeesResponse{}, err
	}

	employees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeesResponse{}, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, toEmployeeResponse(emp))
	}

	return employee.ListEmployeesResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Employees:  responses,
	}, nil
}

// UpdateEmployee implements employee.Service.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.FirstName != nil {
		emp.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		emp.LastName = *req.LastName
	}
	if req.Email != nil {
		emp.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		emp.PhoneNumber = *req.PhoneNumber
	}
	if req.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *req.DepartmentID); err != nil {
			return employee.EmployeeResponse{}, err
		}
		emp.DepartmentID = *req.DepartmentID
	}
	if req.PositionID != nil {
		if _, err := s.positions.GetByID(ctx, *req.PositionID); err != nil {
			return employee.EmployeeResponse{}, err
		}
		emp.PositionID = *req.PositionID
	}
	if req.EmploymentStatus != nil {
		emp.EmploymentStatus = employee.EmploymentStatus(*req.EmploymentStatus)
	}
	if req.EmploymentType != nil {
		emp.EmploymentType = employee.EmploymentType(*req.EmploymentType)
	}
	if req.TerminationDate != nil {
		if *req.TerminationDate == "" {
			emp.TerminationDate = nil
		} else {
			parsed, _ := validator.IsValidDate(*req.TerminationDate)
			emp.TerminationDate = &parsed
		}
	}

	if err := s.repo.Update(ctx, emp); err != nil {
		return employee.EmployeeResponse{}, err
	}

	return s.GetEmployee(ctx, req.ID)
}

// UploadDocument implements employee.Service. The file lands in storage
// first; a failed metadata insert removes the orphan.
func (s *EmployeeServiceImpl) UploadDocument(ctx context.Context, req employee.UploadDocumentRequest) (employee.DocumentResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.DocumentResponse{}, err
	}

	if _, err := s.repo.GetByID(ctx, req.EmployeeID); err != nil {
		return employee.DocumentResponse{}, err
	}

	contentType := req.FileHeader.Header.Get("Content-Type")
	path, err := s.fileService.UploadEmployeeDocument(ctx, req.EmployeeID, req.FileHeader.Filename, contentType, req.File)
	if err != nil {
		return employee.DocumentResponse{}, err
	}

	doc, err := s.repo.CreateDocument(ctx, employee.Document{
		EmployeeID:   req.EmployeeID,
		DocumentType: req.DocumentType,
		Title:        req.Title,
		Description:  req.Description,
		FilePath:     path,
	})
	if err != nil {
		_ = s.fileService.Delete(ctx, path)
		return employee.DocumentResponse{}, err
	}

	return s.toDocumentResponse(ctx, doc), nil
}

// ListDocuments implements employee.Service.
func (s *EmployeeServiceImpl) ListDocuments(ctx context.Context, employeeID string) ([]employee.DocumentResponse, error) {
	docs, err := s.repo.ListDocuments(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, s.toDocumentResponse(ctx, doc))
	}

	return responses, nil
}

// DownloadDocument implements employee.Service.
func (s *EmployeeServiceImpl) DownloadDocument(ctx context.Context, id string) (io.ReadCloser, employee.Document, error) {
	doc, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return nil, employee.Document{}, err
	}

	reader, err := s.fileService.Download(ctx, doc.FilePath)
	if err != nil {
		return nil, employee.Document{}, fmt.Errorf("failed to open stored document: %w", err)
	}

	return reader, doc, nil
}

// DeleteDocument implements employee.Service. Metadata goes first; a
// dangling file is better than a dangling row.
func (s *EmployeeServiceImpl) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteDocument(ctx, id); err != nil {
		return err
	}

	return s.fileService.Delete(ctx, doc.FilePath)
}

// CreateNote implements employee.Service.
func (s *EmployeeServiceImpl) CreateNote(ctx context.Context, req employee.CreateNoteRequest) (employee.NoteResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.NoteResponse{}, err
	}

	if _, err := s.repo.GetByID(ctx, req.EmployeeID); err != nil {
		return employee.NoteResponse{}, err
	}

	note, err := s.repo.CreateNote(ctx, employee.Note{
		EmployeeID:     req.EmployeeID,
		Title:          req.Title,
		Content:        req.Content,
		IsConfidential: req.IsConfidential,
	})
	if err != nil {
		return employee.NoteResponse{}, err
	}

	return toNoteResponse(note), nil
}

// ListNotes implements employee.Service.
func (s *EmployeeServiceImpl) ListNotes(ctx context.Context, employeeID string, includeConfidential bool) ([]employee.NoteResponse, error) {
	notes, err := s.repo.ListNotes(ctx, employeeID, includeConfidential)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.NoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, toNoteResponse(note))
	}

	return responses, nil
}

// DeleteNote implements employee.Service.
func (s *EmployeeServiceImpl) DeleteNote(ctx context.Context, id string) error {
	return s.repo.DeleteNote(ctx, id)
}

func (s *EmployeeServiceImpl) toDocumentResponse(ctx context.Context, doc employee.Document) employee.DocumentResponse {
	url, err := s.fileService.GetFileURL(ctx, doc.FilePath)
	if err != nil {
		url = ""
	}

	return employee.DocumentResponse{
		ID:           doc.ID,
		EmployeeID:   doc.EmployeeID,
		DocumentType: doc.DocumentType,
		Title:        doc.Title,
		Description:  doc.Description,
		FileURL:      url,
		UploadedAt:   doc.UploadedAt.Format(time.RFC3339),
	}
}

func toNoteResponse(note employee.Note) employee.NoteResponse {
	return employee.NoteResponse{
		ID:             note.ID,
		EmployeeID:     note.EmployeeID,
		Title:          note.Title,
		Content:        note.Content,
		IsConfidential: note.IsConfidential,
		CreatedAt:      note.CreatedAt.Format(time.RFC3339),
	}
}

func toEmployeeResponse(emp employee.Employee) employee.EmployeeResponse {
	resp := employee.EmployeeResponse{
		ID:               emp.ID,
		EmployeeCode:     emp.EmployeeCode,
		FirstName:        emp.FirstName,
		LastName:         emp.LastName,
		FullName:         emp.FullName(),
		Email:            emp.Email,
		PhoneNumber:      emp.PhoneNumber,
		Department:       emp.DepartmentName,
		Position:         emp.PositionTitle,
		EmploymentStatus: string(emp.EmploymentStatus),
		EmploymentType:   string(emp.EmploymentType),
		HireDate:         emp.HireDate.Format("2006-01-02"),
	}

	if emp.TerminationDate != nil {
		formatted := emp.TerminationDate.Format("2006-01-02")
		resp.TerminationDate = &formatted
	}

	return resp
}

func NewEmployeeService(
	db *database.DB,
	repo employee.Repository,
	departments master.DepartmentRepository,
	positions master.PositionRepository,
	fileService file.FileService,
) employee.Service {
	return &EmployeeServiceImpl{
		db:          db,
		repo:        repo,
		departments: departments,
		positions:   positions,
		fileService: fileService,
	}
}
