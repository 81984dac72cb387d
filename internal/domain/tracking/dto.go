package tracking

import (
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/validator"
)

// ========================================
// TRACKING DTOs
// ========================================

// Action selects which ingest path a normalized request takes. The three
// transport channels (REST, WebSocket, internal calls) all reduce to one
// of these.
type Action string

const (
	ActionCheckIn        Action = "check_in"
	ActionCheckOut       Action = "check_out"
	ActionUpdateLocation Action = "location_update"
)

// IngestRequest is the channel-independent ingest payload.
type IngestRequest struct {
	EmployeeID string   `json:"employee_id"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Accuracy   *float64 `json:"accuracy,omitempty"`
	Speed      *float64 `json:"speed,omitempty"`
	Heading    *float64 `json:"heading,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// Validate rejects out-of-range coordinates before any state is touched.
func (r *IngestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckInResult struct {
	EventID        string  `json:"event_id"`
	Timestamp      string  `json:"timestamp"`
	Location       string  `json:"location"`
	Geofence       *string `json:"geofence"`
	WithinGeofence bool    `json:"within_geofence"`
}

type CheckOutResult struct {
	EventID      string  `json:"event_id"`
	Timestamp    string  `json:"timestamp"`
	Location     string  `json:"location"`
	WorkDuration string  `json:"work_duration"`
	WorkHours    float64 `json:"work_hours"`
}

type LocationUpdateResult struct {
	EmployeeID string  `json:"employee_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Timestamp  string  `json:"timestamp"`
	Geofence   *string `json:"geofence"`
}

// IngestResult is the union result of the normalized Ingest entry point;
// exactly one of the three pointers is set on success.
type IngestResult struct {
	CheckIn  *CheckInResult  `json:"check_in,omitempty"`
	CheckOut *CheckOutResult `json:"check_out,omitempty"`
	Update   *LocationUpdateResult `json:"update,omitempty"`
}

// LocationEvent is the broadcast payload handed to the realtime hub after
// a successful ingest write.
type LocationEvent struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timestamp    string  `json:"timestamp"`
	GeofenceName *string `json:"geofence_name"`
	Status       Status  `json:"status"`
}

type StatusResponse struct {
	EmployeeID       string   `json:"employee_id"`
	EmployeeName     string   `json:"employee_name"`
	Status           Status   `json:"status"`
	CurrentLatitude  *float64 `json:"current_latitude"`
	CurrentLongitude *float64 `json:"current_longitude"`
	LastUpdate       *string  `json:"last_update"`
	LastCheckIn      *string  `json:"last_check_in,omitempty"`
	LastCheckOut     *string  `json:"last_check_out,omitempty"`
	Geofence         *string  `json:"geofence"`
	IsOnline         bool     `json:"is_online"`
}

// StatusFilter enumerates the recognized status-list filters explicitly.
type StatusFilter struct {
	Status     *Status `json:"status,omitempty"`
	OnlineOnly bool    `json:"online_only,omitempty"`
}

func (f *StatusFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil {
		valid := []string{
			string(StatusOffline), string(StatusCheckedIn),
			string(StatusCheckedOut), string(StatusOnBreak),
		}
		if !validator.IsInSlice(string(*f.Status), valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: offline, checked_in, checked_out, on_break",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckEventResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	Kind           string  `json:"kind"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	WithinGeofence bool    `json:"within_geofence"`
	Notes          string  `json:"notes,omitempty"`
	Timestamp      string  `json:"timestamp"`
}

type SampleResponse struct {
	ID        string   `json:"id"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Heading   *float64 `json:"heading,omitempty"`
	Timestamp string   `json:"timestamp"`
}

type SummaryResponse struct {
	TotalEmployees  int64 `json:"total_employees"`
	CheckedInToday  int64 `json:"checked_in_today"`
	CheckedOutToday int64 `json:"checked_out_today"`
	CurrentlyOnline int64 `json:"currently_online"`
}

type GeofenceOccupancy struct {
	Geofence string `json:"geofence"`
	Count    int64  `json:"count"`
}

type AnalyticsResponse struct {
	DailyCheckIns     int64               `json:"daily_checkins"`
	WeeklyCheckIns    int64               `json:"weekly_checkins"`
	ActiveGeofences   int64               `json:"active_geofences"`
	EmployeesByStatus map[string]int64    `json:"employees_by_status"`
	TopLocations      []GeofenceOccupancy `json:"top_locations"`
}
