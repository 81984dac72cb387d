package geofence

import (
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/validator"
)

type CreateGeofenceRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	CenterLatitude  float64 `json:"center_latitude"`
	CenterLongitude float64 `json:"center_longitude"`
	RadiusMeters    float64 `json:"radius_meters"`
	IsActive        *bool   `json:"is_active"`
}

func (r *CreateGeofenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !validator.IsValidLatitude(r.CenterLatitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "center_latitude",
			Message: "center_latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.CenterLongitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "center_longitude",
			Message: "center_longitude must be between -180 and 180",
		})
	}

	if r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateGeofenceRequest struct {
	ID              string   `json:"-"`
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	CenterLatitude  *float64 `json:"center_latitude"`
	CenterLongitude *float64 `json:"center_longitude"`
	RadiusMeters    *float64 `json:"radius_meters"`
	IsActive        *bool    `json:"is_active"`
}

func (r *UpdateGeofenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.CenterLatitude != nil && !validator.IsValidLatitude(*r.CenterLatitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "center_latitude",
			Message: "center_latitude must be between -90 and 90",
		})
	}

	if r.CenterLongitude != nil && !validator.IsValidLongitude(*r.CenterLongitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "center_longitude",
			Message: "center_longitude must be between -180 and 180",
		})
	}

	if r.RadiusMeters != nil && *r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type GeofenceResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	CenterLatitude  float64 `json:"center_latitude"`
	CenterLongitude float64 `json:"center_longitude"`
	RadiusMeters    float64 `json:"radius_meters"`
	IsActive        bool    `json:"is_active"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}
