package employee

import (
	"context"
)

// Repository defines data access for employee records and their
// document/note attachments.
type Repository interface {
	// Create creates a new employee record
	Create(ctx context.Context, emp Employee) (Employee, error)

	// GetByID retrieves an employee by id; ErrEmployeeNotFound when missing
	GetByID(ctx context.Context, id string) (Employee, error)

	// List retrieves employees matching the filter with pagination
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)

	// Update updates an existing employee record
	Update(ctx context.Context, emp Employee) error

	// Count returns the total number of employees
	Count(ctx context.Context) (int64, error)

	// SearchByName finds the best-matching employee for a free-text name
	SearchByName(ctx context.Context, name string) (*Employee, error)

	// Documents
	CreateDocument(ctx context.Context, doc Document) (Document, error)
	ListDocuments(ctx context.Context, employeeID string) ([]Document, error)
	GetDocument(ctx context.Context, id string) (Document, error)
	DeleteDocument(ctx context.Context, id string) error

	// Notes
	CreateNote(ctx context.Context, note Note) (Note, error)
	ListNotes(ctx context.Context, employeeID string, includeConfidential bool) ([]Note, error)
	DeleteNote(ctx context.Context, id string) error
}
