package master

import (
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/validator"
)

type DepartmentRequest struct {
	ID          string  `json:"-"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ManagerID   *string `json:"manager_id"`
}

func (r *DepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PositionRequest struct {
	ID          string   `json:"-"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SalaryMin   *float64 `json:"salary_min"`
	SalaryMax   *float64 `json:"salary_max"`
}

func (r *PositionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "title is required"})
	}
	if r.SalaryMin != nil && r.SalaryMax != nil && *r.SalaryMin > *r.SalaryMax {
		errs = append(errs, validator.ValidationError{Field: "salary_min", Message: "salary_min must not exceed salary_max"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DepartmentResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ManagerID   *string `json:"manager_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type PositionResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	SalaryMin   *float64 `json:"salary_min,omitempty"`
	SalaryMax   *float64 `json:"salary_max,omitempty"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}
