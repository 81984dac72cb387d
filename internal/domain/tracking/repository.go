package tracking

import (
	"context"
)

// Repository defines data access for the tracking store. The tracking
// service is the only writer for all three record kinds; every other
// consumer reads.
type Repository interface {
	// AppendSample appends one location history entry
	AppendSample(ctx context.Context, sample LocationSample) (LocationSample, error)

	// AppendCheckEvent appends one check-in/check-out event. The store
	// enforces uniqueness on (employee_id, kind, day_local); a violation
	// is returned as ErrAlreadyCheckedIn or ErrAlreadyCheckedOut.
	AppendCheckEvent(ctx context.Context, event CheckEvent) (CheckEvent, error)

	// GetCheckEventOn returns the event of the given kind for the local
	// calendar day, or nil when none exists.
	GetCheckEventOn(ctx context.Context, employeeID string, kind CheckKind, dayLocal string) (*CheckEvent, error)

	// GetStatus retrieves the current status row; ErrStatusNotFound when missing
	GetStatus(ctx context.Context, employeeID string) (EmployeeStatus, error)

	// UpsertStatus inserts or overwrites the per-employee status row
	UpsertStatus(ctx context.Context, status EmployeeStatus) (EmployeeStatus, error)

	// ListStatuses lists status rows joined with employee and geofence names
	ListStatuses(ctx context.Context, filter StatusFilter) ([]EmployeeStatus, error)

	// ListStatusesInGeofence lists status rows currently resolved to a geofence
	ListStatusesInGeofence(ctx context.Context, geofenceID string) ([]EmployeeStatus, error)

	// ListCheckEventsOn lists all events of a kind for one local day
	ListCheckEventsOn(ctx context.Context, dayLocal string, kind CheckKind) ([]CheckEvent, error)

	// CountCheckEvents counts events of a kind over an inclusive local-day range
	CountCheckEvents(ctx context.Context, fromDay, toDay string, kind CheckKind) (int64, error)

	// CountByStatus returns status row totals grouped by status value
	CountByStatus(ctx context.Context) (map[Status]int64, error)

	// ListSamples returns the newest history entries for an employee
	ListSamples(ctx context.Context, employeeID string, limit int) ([]LocationSample, error)
}

// Broadcaster receives events after a committed ingest write. Delivery is
// best-effort; implementations must never block the caller.
type Broadcaster interface {
	PublishGlobal(event LocationEvent)
	PublishEmployee(employeeID string, event LocationEvent)
}
