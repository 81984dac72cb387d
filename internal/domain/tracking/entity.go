package tracking

import (
	"time"
)

// Status is the current attendance state of an employee.
type Status string

const (
	StatusOffline    Status = "offline"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	// StatusOnBreak is storable and served to readers but never produced
	// by the ingest paths.
	StatusOnBreak Status = "on_break"
)

// CheckKind discriminates check-in from check-out events.
type CheckKind string

const (
	CheckKindIn  CheckKind = "in"
	CheckKindOut CheckKind = "out"
)

// OnlineWindow is how recent the last update must be for an employee to
// count as online.
const OnlineWindow = 10 * time.Minute

// LocationSample is one append-only location history entry. Samples are
// never mutated or deleted.
type LocationSample struct {
	ID         string
	EmployeeID string
	Latitude   float64
	Longitude  float64
	Accuracy   *float64
	Speed      *float64
	Heading    *float64
	Timestamp  time.Time
}

// CheckEvent is one append-only check-in or check-out record. DayLocal is
// the calendar day in the deployment time zone; at most one event per
// (employee, kind, day) exists.
type CheckEvent struct {
	ID             string
	EmployeeID     string
	Latitude       float64
	Longitude      float64
	Kind           CheckKind
	WithinGeofence bool
	Notes          string
	DayLocal       string // YYYY-MM-DD
	Timestamp      time.Time

	// DTO
	EmployeeName *string
}

// EmployeeStatus is the single current-state row per employee, the source
// of truth for "where is X now". Only the tracking service writes it.
type EmployeeStatus struct {
	EmployeeID        string
	Status            Status
	CurrentLatitude   *float64
	CurrentLongitude  *float64
	LastUpdate        time.Time
	LastCheckIn       *time.Time
	LastCheckOut      *time.Time
	CurrentGeofenceID *string

	// DTO
	EmployeeName *string
	GeofenceName *string
}

// IsOnline reports whether the status was updated within OnlineWindow of
// now. The boundary is strict: exactly OnlineWindow old is offline.
func (s EmployeeStatus) IsOnline(now time.Time) bool {
	if s.LastUpdate.IsZero() {
		return false
	}
	return now.Sub(s.LastUpdate) < OnlineWindow
}
