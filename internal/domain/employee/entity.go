package employee

import (
	"time"
)

type EmploymentStatus string

const (
	EmploymentActive     EmploymentStatus = "active"
	EmploymentInactive   EmploymentStatus = "inactive"
	EmploymentTerminated EmploymentStatus = "terminated"
	EmploymentOnLeave    EmploymentStatus = "on_leave"
)

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "full_time"
	EmploymentPartTime EmploymentType = "part_time"
	EmploymentContract EmploymentType = "contract"
	EmploymentIntern   EmploymentType = "intern"
)

type Employee struct {
	ID               string
	EmployeeCode     string
	FirstName        string
	LastName         string
	Email            string
	PhoneNumber      string
	DepartmentID     string
	PositionID       string
	EmploymentStatus EmploymentStatus
	EmploymentType   EmploymentType
	HireDate         time.Time
	TerminationDate  *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO
	DepartmentName *string
	PositionTitle  *string
}

// FullName joins first and last name for display and broadcasts.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Document is an uploaded file attached to an employee record.
type Document struct {
	ID           string
	EmployeeID   string
	DocumentType string
	Title        string
	Description  string
	FilePath     string
	UploadedAt   time.Time
}

// Note is a free-text note attached to an employee record.
type Note struct {
	ID             string
	EmployeeID     string
	Title          string
	Content        string
	IsConfidential bool
	CreatedAt      time.Time
}
