package tracking

import (
	"context"
)

// Service defines the tracking engine: the attendance state machine, the
// normalized ingest entry point, and the read projections served from the
// same store.
type Service interface {
	// Ingest is the single entry point for all channels; it validates the
	// request and dispatches on action.
	Ingest(ctx context.Context, action Action, req IngestRequest) (IngestResult, error)

	// CheckIn processes an explicit once-daily arrival
	CheckIn(ctx context.Context, req IngestRequest) (CheckInResult, error)

	// CheckOut processes an explicit once-daily departure
	CheckOut(ctx context.Context, req IngestRequest) (CheckOutResult, error)

	// UpdateLocation processes passive background tracking; never changes status
	UpdateLocation(ctx context.Context, req IngestRequest) (LocationUpdateResult, error)

	// GetEmployeeStatus returns the current status projection for one employee
	GetEmployeeStatus(ctx context.Context, employeeID string) (StatusResponse, error)

	// ListStatuses returns status projections with explicit filters
	ListStatuses(ctx context.Context, filter StatusFilter) ([]StatusResponse, error)

	// ListOnline returns employees whose last update is inside OnlineWindow
	ListOnline(ctx context.Context) ([]StatusResponse, error)

	// EmployeesInGeofence returns employees currently resolved to a geofence
	EmployeesInGeofence(ctx context.Context, geofenceID string) ([]StatusResponse, error)

	// StatusesByGeofence groups status projections by geofence name
	StatusesByGeofence(ctx context.Context) (map[string][]StatusResponse, error)

	// TodayCheckIns lists today's check-in events
	TodayCheckIns(ctx context.Context) ([]CheckEventResponse, error)

	// History returns the newest location samples for an employee
	History(ctx context.Context, employeeID string, limit int) ([]SampleResponse, error)

	// Summary returns today's attendance headline numbers
	Summary(ctx context.Context) (SummaryResponse, error)

	// Analytics returns daily/weekly counts and per-geofence occupancy
	Analytics(ctx context.Context) (AnalyticsResponse, error)
}
