package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/employee"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/geofence"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/tracking"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/database"
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/keylock"
	"github.com/fieldforce-hr/location-backend-go/internal/repository/postgresql"
)

const defaultHistoryLimit = 100

type TrackingServiceImpl struct {
	db          *database.DB
	repo        tracking.Repository
	employees   employee.Repository
	resolver    geofence.Resolver
	broadcaster tracking.Broadcaster
	keys        *keylock.KeyedMutex
	loc         *time.Location
	logger      *slog.Logger
}

// Ingest implements tracking.Service. All three transport channels reduce
// to this one entry point.
func (s *TrackingServiceImpl) Ingest(ctx context.Context, action tracking.Action, req tracking.IngestRequest) (tracking.IngestResult, error) {
	switch action {
	case tracking.ActionCheckIn:
		result, err := s.CheckIn(ctx, req)
		if err != nil {
			return tracking.IngestResult{}, err
		}
		return tracking.IngestResult{CheckIn: &result}, nil
	case tracking.ActionCheckOut:
		result, err := s.CheckOut(ctx, req)
		if err != nil {
			return tracking.IngestResult{}, err
		}
		return tracking.IngestResult{CheckOut: &result}, nil
	case tracking.ActionUpdateLocation:
		result, err := s.UpdateLocation(ctx, req)
		if err != nil {
			return tracking.IngestResult{}, err
		}
		return tracking.IngestResult{Update: &result}, nil
	default:
		return tracking.IngestResult{}, fmt.Errorf("unknown tracking action: %q", action)
	}
}

// CheckIn implements tracking.Service. The per-employee lock makes the
// daily guard and the writes one unit; the unique index on check_events
// backs it up across processes.
func (s *TrackingServiceImpl) CheckIn(ctx context.Context, req tracking.IngestRequest) (tracking.CheckInResult, error) {
	if err := req.Validate(); err != nil {
		return tracking.CheckInResult{}, err
	}

	s.keys.Lock(req.EmployeeID)
	defer s.keys.Unlock(req.EmployeeID)

	emp, err := s.loadEmployee(ctx, req.EmployeeID)
	if err != nil {
		return tracking.CheckInResult{}, err
	}

	now := time.Now().In(s.loc)
	dayLocal := now.Format("2006-01-02")

	existing, err := s.repo.GetCheckEventOn(ctx, req.EmployeeID, tracking.CheckKindIn, dayLocal)
	if err != nil {
		return tracking.CheckInResult{}, fmt.Errorf("failed to look up today's check-in: %w", err)
	}
	if existing != nil {
		return tracking.CheckInResult{}, tracking.ErrAlreadyCheckedIn
	}

	fence, err := s.resolver.Resolve(ctx, req.Latitude, req.Longitude)
	if err != nil {
		return tracking.CheckInResult{}, fmt.Errorf("failed to resolve geofence: %w", err)
	}

	event := tracking.CheckEvent{
		EmployeeID:     req.EmployeeID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Kind:           tracking.CheckKindIn,
		WithinGeofence: fence != nil,
		Notes:          req.Notes,
		DayLocal:       dayLocal,
		Timestamp:      now,
	}

	var saved tracking.CheckEvent
	err = s.withTx(ctx, func(txCtx context.Context) error {
		var txErr error
		saved, txErr = s.repo.AppendCheckEvent(txCtx, event)
		if txErr != nil {
			return txErr
		}

		if _, txErr = s.repo.AppendSample(txCtx, sampleFromRequest(req, now)); txErr != nil {
			return txErr
		}

		status := tracking.EmployeeStatus{
			EmployeeID:       req.EmployeeID,
			Status:           tracking.StatusCheckedIn,
			CurrentLatitude:  &req.Latitude,
			CurrentLongitude: &req.Longitude,
			LastUpdate:       now,
			LastCheckIn:      &now,
		}
		if fence != nil {
			status.CurrentGeofenceID = &fence.ID
		}
		prev, txErr := s.repo.GetStatus(txCtx, req.EmployeeID)
		if txErr == nil {
			status.LastCheckOut = prev.LastCheckOut
		} else if !errors.Is(txErr, tracking.ErrStatusNotFound) {
			return txErr
		}

		_, txErr = s.repo.UpsertStatus(txCtx, status)
		return txErr
	})
	if err != nil {
		return tracking.CheckInResult{}, err
	}

	var fenceName *string
	if fence != nil {
		fenceName = &fence.Name
	}

	s.publish(req, emp.FullName(), now, fenceName, tracking.StatusCheckedIn)

	return tracking.CheckInResult{
		EventID:        saved.ID,
		Timestamp:      now.Format(time.RFC3339),
		Location:       formatCoordinates(req.Latitude, req.Longitude),
		Geofence:       fenceName,
		WithinGeofence: fence != nil,
	}, nil
}

// CheckOut implements tracking.Service. Requires a same-day check-in and
// rejects a second check-out. Checking out always clears the current
// geofence regardless of where the employee stands.
func (s *TrackingServiceImpl) CheckOut(ctx context.Context, req tracking.IngestRequest) (tracking.CheckOutResult, error) {
	if err := req.Validate(); err != nil {
		return tracking.CheckOutResult{}, err
	}

	s.keys.Lock(req.EmployeeID)
	defer s.keys.Unlock(req.EmployeeID)

	emp, err := s.loadEmployee(ctx, req.EmployeeID)
	if err != nil {
		return tracking.CheckOutResult{}, err
	}

	now := time.Now().In(s.loc)
	dayLocal := now.Format("2006-01-02")

	checkIn, err := s.repo.GetCheckEventOn(ctx, req.EmployeeID, tracking.CheckKindIn, dayLocal)
	if err != nil {
		return tracking.CheckOutResult{}, fmt.Errorf("failed to look up today's check-in: %w", err)
	}
	if checkIn == nil {
		return tracking.CheckOutResult{}, tracking.ErrNotCheckedIn
	}

	checkOut, err := s.repo.GetCheckEventOn(ctx, req.EmployeeID, tracking.CheckKindOut, dayLocal)
	if err != nil {
		return tracking.CheckOutResult{}, fmt.Errorf("failed to look up today's check-out: %w", err)
	}
	if checkOut != nil {
		return tracking.CheckOutResult{}, tracking.ErrAlreadyCheckedOut
	}

	// No geofence resolution on the way out; within_geofence only has
	// meaning for arrivals.
	event := tracking.CheckEvent{
		EmployeeID:     req.EmployeeID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Kind:           tracking.CheckKindOut,
		WithinGeofence: false,
		Notes:          req.Notes,
		DayLocal:       dayLocal,
		Timestamp:      now,
	}

	var saved tracking.CheckEvent
	err = s.withTx(ctx, func(txCtx context.Context) error {
		var txErr error
		saved, txErr = s.repo.AppendCheckEvent(txCtx, event)
		if txErr != nil {
			return txErr
		}

		if _, txErr = s.repo.AppendSample(txCtx, sampleFromRequest(req, now)); txErr != nil {
			return txErr
		}

		status := tracking.EmployeeStatus{
			EmployeeID:       req.EmployeeID,
			Status:           tracking.StatusCheckedOut,
			CurrentLatitude:  &req.Latitude,
			CurrentLongitude: &req.Longitude,
			LastUpdate:       now,
			LastCheckIn:      &checkIn.Timestamp,
			LastCheckOut:     &now,
			// CurrentGeofenceID stays nil: off the clock means off the map.
		}

		_, txErr = s.repo.UpsertStatus(txCtx, status)
		return txErr
	})
	if err != nil {
		return tracking.CheckOutResult{}, err
	}

	s.publish(req, emp.FullName(), now, nil, tracking.StatusCheckedOut)

	worked := now.Sub(checkIn.Timestamp)
	return tracking.CheckOutResult{
		EventID:      saved.ID,
		Timestamp:    now.Format(time.RFC3339),
		Location:     formatCoordinates(req.Latitude, req.Longitude),
		WorkDuration: formatDuration(worked),
		WorkHours:    roundHours(worked),
	}, nil
}

// UpdateLocation implements tracking.Service. Passive tracking: moves the
// pin and re-resolves the geofence but never touches the attendance state.
func (s *TrackingServiceImpl) UpdateLocation(ctx context.Context, req tracking.IngestRequest) (tracking.LocationUpdateResult, error) {
	if err := req.Validate(); err != nil {
		return tracking.LocationUpdateResult{}, err
	}

	s.keys.Lock(req.EmployeeID)
	defer s.keys.Unlock(req.EmployeeID)

	emp, err := s.loadEmployee(ctx, req.EmployeeID)
	if err != nil {
		return tracking.LocationUpdateResult{}, err
	}

	now := time.Now().In(s.loc)

	fence, err := s.resolver.Resolve(ctx, req.Latitude, req.Longitude)
	if err != nil {
		return tracking.LocationUpdateResult{}, fmt.Errorf("failed to resolve geofence: %w", err)
	}

	status := tracking.EmployeeStatus{
		EmployeeID: req.EmployeeID,
		Status:     tracking.StatusOffline,
	}
	prev, err := s.repo.GetStatus(ctx, req.EmployeeID)
	if err == nil {
		status = prev
	} else if !errors.Is(err, tracking.ErrStatusNotFound) {
		return tracking.LocationUpdateResult{}, err
	}

	status.CurrentLatitude = &req.Latitude
	status.CurrentLongitude = &req.Longitude
	status.LastUpdate = now
	status.CurrentGeofenceID = nil
	if fence != nil {
		status.CurrentGeofenceID = &fence.ID
	}

	err = s.withTx(ctx, func(txCtx context.Context) error {
		if _, txErr := s.repo.AppendSample(txCtx, sampleFromRequest(req, now)); txErr != nil {
			return txErr
		}
		_, txErr := s.repo.UpsertStatus(txCtx, status)
		return txErr
	})
	if err != nil {
		return tracking.LocationUpdateResult{}, err
	}

	var fenceName *string
	if fence != nil {
		fenceName = &fence.Name
	}

	s.publish(req, emp.FullName(), now, fenceName, status.Status)

	return tracking.LocationUpdateResult{
		EmployeeID: req.EmployeeID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Timestamp:  now.Format(time.RFC3339),
		Geofence:   fenceName,
	}, nil
}

// loadEmployee resolves the ingest subject before any state is touched.
// Unknown ids fail with the employee domain's not-found error.
func (s *TrackingServiceImpl) loadEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		s.logger.ErrorContext(ctx, "employee lookup failed",
			slog.String("employee_id", employeeID),
			slog.Any("error", err),
		)
		return employee.Employee{}, fmt.Errorf("failed to load employee: %w", err)
	}
	return emp, nil
}

// publish hands the event to the realtime hub after the write committed.
// Delivery is best-effort; tracking never fails because a websocket
// consumer is slow or gone.
func (s *TrackingServiceImpl) publish(req tracking.IngestRequest, name string, now time.Time, fenceName *string, status tracking.Status) {
	if s.broadcaster == nil {
		return
	}

	event := tracking.LocationEvent{
		EmployeeID:   req.EmployeeID,
		EmployeeName: name,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Timestamp:    now.Format(time.RFC3339),
		GeofenceName: fenceName,
		Status:       status,
	}

	s.broadcaster.PublishGlobal(event)
	s.broadcaster.PublishEmployee(req.EmployeeID, event)
}

// GetEmployeeStatus implements tracking.Service.
func (s *TrackingServiceImpl) GetEmployeeStatus(ctx context.Context, employeeID string) (tracking.StatusResponse, error) {
	status, err := s.repo.GetStatus(ctx, employeeID)
	if err != nil {
		return tracking.StatusResponse{}, err
	}

	return toStatusResponse(status, time.Now()), nil
}

// ListStatuses implements tracking.Service. The online-only filter is
// applied here so the window arithmetic lives next to IsOnline.
func (s *TrackingServiceImpl) ListStatuses(ctx context.Context, filter tracking.StatusFilter) ([]tracking.StatusResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	statuses, err := s.repo.ListStatuses(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]tracking.StatusResponse, 0, len(statuses))
	for _, status := range statuses {
		if filter.OnlineOnly && !status.IsOnline(now) {
			continue
		}
		responses = append(responses, toStatusResponse(status, now))
	}

	return responses, nil
}

// ListOnline implements tracking.Service.
func (s *TrackingServiceImpl) ListOnline(ctx context.Context) ([]tracking.StatusResponse, error) {
	return s.ListStatuses(ctx, tracking.StatusFilter{OnlineOnly: true})
}

// EmployeesInGeofence implements tracking.Service.
func (s *TrackingServiceImpl) EmployeesInGeofence(ctx context.Context, geofenceID string) ([]tracking.StatusResponse, error) {
	statuses, err := s.repo.ListStatusesInGeofence(ctx, geofenceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]tracking.StatusResponse, 0, len(statuses))
	for _, status := range statuses {
		responses = append(responses, toStatusResponse(status, now))
	}

	return responses, nil
}

// StatusesByGeofence implements tracking.Service. Employees outside every
// fence are grouped under the empty key.
func (s *TrackingServiceImpl) StatusesByGeofence(ctx context.Context) (map[string][]tracking.StatusResponse, error) {
	statuses, err := s.repo.ListStatuses(ctx, tracking.StatusFilter{})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	grouped := make(map[string][]tracking.StatusResponse)
	for _, status := range statuses {
		key := ""
		if status.GeofenceName != nil {
			key = *status.GeofenceName
		}
		grouped[key] = append(grouped[key], toStatusResponse(status, now))
	}

	return grouped, nil
}

// TodayCheckIns implements tracking.Service.
func (s *TrackingServiceImpl) TodayCheckIns(ctx context.Context) ([]tracking.CheckEventResponse, error) {
	dayLocal := time.Now().In(s.loc).Format("2006-01-02")

	events, err := s.repo.ListCheckEventsOn(ctx, dayLocal, tracking.CheckKindIn)
	if err != nil {
		return nil, err
	}

	responses := make([]tracking.CheckEventResponse, 0, len(events))
	for _, event := range events {
		name := ""
		if event.EmployeeName != nil {
			name = *event.EmployeeName
		}
		responses = append(responses, tracking.CheckEventResponse{
			ID:             event.ID,
			EmployeeID:     event.EmployeeID,
			EmployeeName:   name,
			Kind:           string(event.Kind),
			Latitude:       event.Latitude,
			Longitude:      event.Longitude,
			WithinGeofence: event.WithinGeofence,
			Notes:          event.Notes,
			Timestamp:      event.Timestamp.Format(time.RFC3339),
		})
	}

	return responses, nil
}

// History implements tracking.Service.
func (s *TrackingServiceImpl) History(ctx context.Context, employeeID string, limit int) ([]tracking.SampleResponse, error) {
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}

	samples, err := s.repo.ListSamples(ctx, employeeID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]tracking.SampleResponse, 0, len(samples))
	for _, sample := range samples {
		responses = append(responses, tracking.SampleResponse{
			ID:        sample.ID,
			Latitude:  sample.Latitude,
			Longitude: sample.Longitude,
			Accuracy:  sample.Accuracy,
			Speed:     sample.Speed,
			Heading:   sample.Heading,
			Timestamp: sample.Timestamp.Format(time.RFC3339),
		})
	}

	return responses, nil
}

// Summary implements tracking.Service.
func (s *TrackingServiceImpl) Summary(ctx context.Context) (tracking.SummaryResponse, error) {
	dayLocal := time.Now().In(s.loc).Format("2006-01-02")

	total, err := s.employees.Count(ctx)
	if err != nil {
		return tracking.SummaryResponse{}, err
	}

	checkedIn, err := s.repo.CountCheckEvents(ctx, dayLocal, dayLocal, tracking.CheckKindIn)
	if err != nil {
		return tracking.SummaryResponse{}, err
	}

	checkedOut, err := s.repo.CountCheckEvents(ctx, dayLocal, dayLocal, tracking.CheckKindOut)
	if err != nil {
		return tracking.SummaryResponse{}, err
	}

	online, err := s.countOnline(ctx)
	if err != nil {
		return tracking.SummaryResponse{}, err
	}

	return tracking.SummaryResponse{
		TotalEmployees:  total,
		CheckedInToday:  checkedIn,
		CheckedOutToday: checkedOut,
		CurrentlyOnline: online,
	}, nil
}

// Analytics implements tracking.Service.
func (s *TrackingServiceImpl) Analytics(ctx context.Context) (tracking.AnalyticsResponse, error) {
	now := time.Now().In(s.loc)
	today := now.Format("2006-01-02")
	weekAgo := now.AddDate(0, 0, -6).Format("2006-01-02")

	daily, err := s.repo.CountCheckEvents(ctx, today, today, tracking.CheckKindIn)
	if err != nil {
		return tracking.AnalyticsResponse{}, err
	}

	weekly, err := s.repo.CountCheckEvents(ctx, weekAgo, today, tracking.CheckKindIn)
	if err != nil {
		return tracking.AnalyticsResponse{}, err
	}

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return tracking.AnalyticsResponse{}, err
	}
	statusCounts := make(map[string]int64, len(byStatus))
	for status, count := range byStatus {
		statusCounts[string(status)] = count
	}

	statuses, err := s.repo.ListStatuses(ctx, tracking.StatusFilter{})
	if err != nil {
		return tracking.AnalyticsResponse{}, err
	}

	occupancy := make(map[string]int64)
	occupiedFences := make(map[string]struct{})
	for _, status := range statuses {
		if status.CurrentGeofenceID == nil {
			continue
		}
		occupiedFences[*status.CurrentGeofenceID] = struct{}{}
		name := *status.CurrentGeofenceID
		if status.GeofenceName != nil {
			name = *status.GeofenceName
		}
		occupancy[name]++
	}

	top := make([]tracking.GeofenceOccupancy, 0, len(occupancy))
	for name, count := range occupancy {
		top = append(top, tracking.GeofenceOccupancy{Geofence: name, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Geofence < top[j].Geofence
	})
	if len(top) > 5 {
		top = top[:5]
	}

	return tracking.AnalyticsResponse{
		DailyCheckIns:     daily,
		WeeklyCheckIns:    weekly,
		ActiveGeofences:   int64(len(occupiedFences)),
		EmployeesByStatus: statusCounts,
		TopLocations:      top,
	}, nil
}

func (s *TrackingServiceImpl) countOnline(ctx context.Context) (int64, error) {
	statuses, err := s.repo.ListStatuses(ctx, tracking.StatusFilter{})
	if err != nil {
		return 0, err
	}

	now := time.Now()
	var online int64
	for _, status := range statuses {
		if status.IsOnline(now) {
			online++
		}
	}

	return online, nil
}

// withTx wraps fn in a database transaction when a pool is wired; unit
// tests run the fakes without one.
func (s *TrackingServiceImpl) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, fn)
}

func sampleFromRequest(req tracking.IngestRequest, now time.Time) tracking.LocationSample {
	return tracking.LocationSample{
		EmployeeID: req.EmployeeID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Accuracy:   req.Accuracy,
		Speed:      req.Speed,
		Heading:    req.Heading,
		Timestamp:  now,
	}
}

func toStatusResponse(status tracking.EmployeeStatus, now time.Time) tracking.StatusResponse {
	name := ""
	if status.EmployeeName != nil {
		name = *status.EmployeeName
	}

	resp := tracking.StatusResponse{
		EmployeeID:       status.EmployeeID,
		EmployeeName:     name,
		Status:           status.Status,
		CurrentLatitude:  status.CurrentLatitude,
		CurrentLongitude: status.CurrentLongitude,
		Geofence:         status.GeofenceName,
		IsOnline:         status.IsOnline(now),
	}

	if !status.LastUpdate.IsZero() {
		formatted := status.LastUpdate.Format(time.RFC3339)
		resp.LastUpdate = &formatted
	}
	resp.LastCheckIn = timePtrToString(status.LastCheckIn)
	resp.LastCheckOut = timePtrToString(status.LastCheckOut)

	return resp
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

func formatCoordinates(latitude, longitude float64) string {
	return fmt.Sprintf("%.6f, %.6f", latitude, longitude)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// roundHours converts a worked duration to hours with two decimals.
func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}

func NewTrackingService(
	db *database.DB,
	trackingRepo tracking.Repository,
	employeeRepo employee.Repository,
	resolver geofence.Resolver,
	broadcaster tracking.Broadcaster,
	loc *time.Location,
	logger *slog.Logger,
) tracking.Service {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackingServiceImpl{
		db:          db,
		repo:        trackingRepo,
		employees:   employeeRepo,
		resolver:    resolver,
		broadcaster: broadcaster,
		keys:        keylock.New(),
		loc:         loc,
		logger:      logger,
	}
}
