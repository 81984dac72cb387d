package employee

import (
	"context"
	"io"
)

// Service defines business logic for employee record management.
type Service interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeesResponse, error)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	UploadDocument(ctx context.Context, req UploadDocumentRequest) (DocumentResponse, error)
	ListDocuments(ctx context.Context, employeeID string) ([]DocumentResponse, error)
	DownloadDocument(ctx context.Context, id string) (io.ReadCloser, Document, error)
	DeleteDocument(ctx context.Context, id string) error

	CreateNote(ctx context.Context, req CreateNoteRequest) (NoteResponse, error)
	ListNotes(ctx context.Context, employeeID string, includeConfidential bool) ([]NoteResponse, error)
	DeleteNote(ctx context.Context, id string) error
}
