package employee

import (
	"mime/multipart"

	"github.com/fieldforce-hr/location-backend-go/internal/pkg/validator"
)

// ========================================
// EMPLOYEE DTOs
// ========================================

type CreateEmployeeRequest struct {
	EmployeeCode     string `json:"employee_code"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phone_number"`
	DepartmentID     string `json:"department_id"`
	PositionID       string `json:"position_id"`
	EmploymentStatus string `json:"employment_status"`
	EmploymentType   string `json:"employment_type"`
	HireDate         string `json:"hire_date"` // YYYY-MM-DD
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code is required"})
	}
	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name is required"})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name is required"})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be valid"})
	}
	if validator.IsEmpty(r.DepartmentID) {
		errs = append(errs, validator.ValidationError{Field: "department_id", Message: "department_id is required"})
	}
	if validator.IsEmpty(r.PositionID) {
		errs = append(errs, validator.ValidationError{Field: "position_id", Message: "position_id is required"})
	}
	if r.EmploymentStatus != "" {
		valid := []string{"active", "inactive", "terminated", "on_leave"}
		if !validator.IsInSlice(r.EmploymentStatus, valid) {
			errs = append(errs, validator.ValidationError{Field: "employment_status", Message: "employment_status must be one of: active, inactive, terminated, on_leave"})
		}
	}
	if r.EmploymentType != "" {
		valid := []string{"full_time", "part_time", "contract", "intern"}
		if !validator.IsInSlice(r.EmploymentType, valid) {
			errs = append(errs, validator.ValidationError{Field: "employment_type", Message: "employment_type must be one of: full_time, part_time, contract, intern"})
		}
	}
	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "hire_date must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEmployeeRequest struct {
	ID               string  `json:"-"`
	FirstName        *string `json:"first_name"`
	LastName         *string `json:"last_name"`
	Email            *string `json:"email"`
	PhoneNumber      *string `json:"phone_number"`
	DepartmentID     *string `json:"department_id"`
	PositionID       *string `json:"position_id"`
	EmploymentStatus *string `json:"employment_status"`
	EmploymentType   *string `json:"employment_type"`
	TerminationDate  *string `json:"termination_date"` // YYYY-MM-DD
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be valid"})
	}
	if r.EmploymentStatus != nil {
		valid := []string{"active", "inactive", "terminated", "on_leave"}
		if !validator.IsInSlice(*r.EmploymentStatus, valid) {
			errs = append(errs, validator.ValidationError{Field: "employment_status", Message: "employment_status must be one of: active, inactive, terminated, on_leave"})
		}
	}
	if r.TerminationDate != nil && *r.TerminationDate != "" {
		if _, ok := validator.IsValidDate(*r.TerminationDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "termination_date", Message: "termination_date must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EmployeeFilter enumerates the recognized listing filters explicitly; no
// free-form query parameter passthrough.
type EmployeeFilter struct {
	DepartmentID     *string `json:"department_id,omitempty"`
	PositionID       *string `json:"position_id,omitempty"`
	EmploymentStatus *string `json:"employment_status,omitempty"`
	Search           *string `json:"search,omitempty"` // matches name, code, email

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}

	if f.EmploymentStatus != nil {
		valid := []string{"active", "inactive", "terminated", "on_leave"}
		if !validator.IsInSlice(*f.EmploymentStatus, valid) {
			errs = append(errs, validator.ValidationError{Field: "employment_status", Message: "employment_status must be one of: active, inactive, terminated, on_leave"})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID               string  `json:"id"`
	EmployeeCode     string  `json:"employee_code"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	FullName         string  `json:"full_name"`
	Email            string  `json:"email"`
	PhoneNumber      string  `json:"phone_number,omitempty"`
	Department       *string `json:"department,omitempty"`
	Position         *string `json:"position,omitempty"`
	EmploymentStatus string  `json:"employment_status"`
	EmploymentType   string  `json:"employment_type"`
	HireDate         string  `json:"hire_date"`
	TerminationDate  *string `json:"termination_date,omitempty"`
}

type ListEmployeesResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}

// ========================================
// DOCUMENT / NOTE DTOs
// ========================================

type UploadDocumentRequest struct {
	EmployeeID   string                `json:"-"`
	DocumentType string                `json:"document_type"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	File         multipart.File        `json:"-"`
	FileHeader   *multipart.FileHeader `json:"-"`
}

func (r *UploadDocumentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "title is required"})
	}
	valid := []string{"resume", "contract", "id_copy", "certificate", "performance_review", "other"}
	if !validator.IsInSlice(r.DocumentType, valid) {
		errs = append(errs, validator.ValidationError{Field: "document_type", Message: "document_type must be one of: resume, contract, id_copy, certificate, performance_review, other"})
	}
	if r.FileHeader == nil {
		errs = append(errs, validator.ValidationError{Field: "file", Message: "file is required"})
	} else if r.FileHeader.Size > 10<<20 { // 10MB
		errs = append(errs, validator.ValidationError{Field: "file", Message: "file size must not exceed 10MB"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DocumentResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	DocumentType string `json:"document_type"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	FileURL      string `json:"file_url"`
	UploadedAt   string `json:"uploaded_at"`
}

type CreateNoteRequest struct {
	EmployeeID     string `json:"-"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	IsConfidential bool   `json:"is_confidential"`
}

func (r *CreateNoteRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "title is required"})
	}
	if validator.IsEmpty(r.Content) {
		errs = append(errs, validator.ValidationError{Field: "content", Message: "content is required"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type NoteResponse struct {
	ID             string `json:"id"`
	EmployeeID     string `json:"employee_id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	IsConfidential bool   `json:"is_confidential"`
	CreatedAt      string `json:"created_at"`
}
