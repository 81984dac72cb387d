package response

import (
	"errors"
	"net/http"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/auth"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/employee"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/geofence"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/master"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/tracking"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/user"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Tracking guards
	case errors.Is(err, tracking.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, tracking.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out today")
	case errors.Is(err, tracking.ErrNotCheckedIn):
		Conflict(w, "No check-in found for today")
	case errors.Is(err, tracking.ErrStatusNotFound):
		NotFound(w, "Employee status not found")

	// Geofences
	case errors.Is(err, geofence.ErrGeofenceNotFound):
		NotFound(w, "Geofence not found")
	case errors.Is(err, geofence.ErrNameExists):
		Conflict(w, "Geofence name already exists")

	// Employees
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrDocumentNotFound):
		NotFound(w, "Document not found")
	case errors.Is(err, employee.ErrNoteNotFound):
		NotFound(w, "Note not found")

	// Master data
	case errors.Is(err, master.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, master.ErrDepartmentNameExists):
		Conflict(w, "Department name already exists")
	case errors.Is(err, master.ErrPositionNotFound):
		NotFound(w, "Position not found")
	case errors.Is(err, master.ErrPositionTitleExists):
		Conflict(w, "Position title already exists")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
