package tracking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/employee"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/geofence"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----------------------------------------
// in-memory fakes
// ----------------------------------------

type memTrackingRepo struct {
	mu       sync.Mutex
	samples  []tracking.LocationSample
	events   []tracking.CheckEvent
	statuses map[string]tracking.EmployeeStatus
	nextID   int
}

func newMemTrackingRepo() *memTrackingRepo {
	return &memTrackingRepo{statuses: make(map[string]tracking.EmployeeStatus)}
}

func (m *memTrackingRepo) AppendSample(ctx context.Context, sample tracking.LocationSample) (tracking.LocationSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	sample.ID = fmt.Sprintf("sample-%d", m.nextID)
	m.samples = append(m.samples, sample)
	return sample, nil
}

func (m *memTrackingRepo) AppendCheckEvent(ctx context.Context, event tracking.CheckEvent) (tracking.CheckEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.EmployeeID == event.EmployeeID && e.Kind == event.Kind && e.DayLocal == event.DayLocal {
			if event.Kind == tracking.CheckKindOut {
				return tracking.CheckEvent{}, tracking.ErrAlreadyCheckedOut
			}
			return tracking.CheckEvent{}, tracking.ErrAlreadyCheckedIn
		}
	}
	m.nextID++
	event.ID = fmt.Sprintf("event-%d", m.nextID)
	m.events = append(m.events, event)
	return event, nil
}

func (m *memTrackingRepo) GetCheckEventOn(ctx context.Context, employeeID string, kind tracking.CheckKind, dayLocal string) (*tracking.CheckEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.EmployeeID == employeeID && e.Kind == kind && e.DayLocal == dayLocal {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memTrackingRepo) GetStatus(ctx context.Context, employeeID string) (tracking.EmployeeStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.statuses[employeeID]
	if !ok {
		return tracking.EmployeeStatus{}, tracking.ErrStatusNotFound
	}
	return status, nil
}

func (m *memTrackingRepo) UpsertStatus(ctx context.Context, status tracking.EmployeeStatus) (tracking.EmployeeStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[status.EmployeeID] = status
	return status, nil
}

func (m *memTrackingRepo) ListStatuses(ctx context.Context, filter tracking.StatusFilter) ([]tracking.EmployeeStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tracking.EmployeeStatus
	for _, status := range m.statuses {
		if filter.Status != nil && status.Status != *filter.Status {
			continue
		}
		out = append(out, status)
	}
	return out, nil
}

func (m *memTrackingRepo) ListStatusesInGeofence(ctx context.Context, geofenceID string) ([]tracking.EmployeeStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tracking.EmployeeStatus
	for _, status := range m.statuses {
		if status.CurrentGeofenceID != nil && *status.CurrentGeofenceID == geofenceID {
			out = append(out, status)
		}
	}
	return out, nil
}

func (m *memTrackingRepo) ListCheckEventsOn(ctx context.Context, dayLocal string, kind tracking.CheckKind) ([]tracking.CheckEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tracking.CheckEvent
	for _, e := range m.events {
		if e.DayLocal == dayLocal && e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memTrackingRepo) CountCheckEvents(ctx context.Context, fromDay, toDay string, kind tracking.CheckKind) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, e := range m.events {
		if e.Kind == kind && e.DayLocal >= fromDay && e.DayLocal <= toDay {
			count++
		}
	}
	return count, nil
}

func (m *memTrackingRepo) CountByStatus(ctx context.Context) (map[tracking.Status]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[tracking.Status]int64)
	for _, status := range m.statuses {
		counts[status.Status]++
	}
	return counts, nil
}

func (m *memTrackingRepo) ListSamples(ctx context.Context, employeeID string, limit int) ([]tracking.LocationSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tracking.LocationSample
	for i := len(m.samples) - 1; i >= 0 && len(out) < limit; i-- {
		if m.samples[i].EmployeeID == employeeID {
			out = append(out, m.samples[i])
		}
	}
	return out, nil
}

// memEmployeeRepo serves GetByID and Count; the tracking service touches
// nothing else on the employee store.
type memEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (m *memEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (m *memEmployeeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.employees)), nil
}

func (m *memEmployeeRepo) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	return emp, nil
}
func (m *memEmployeeRepo) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	return nil, 0, nil
}
func (m *memEmployeeRepo) Update(ctx context.Context, emp employee.Employee) error { return nil }
func (m *memEmployeeRepo) SearchByName(ctx context.Context, name string) (*employee.Employee, error) {
	return nil, nil
}
func (m *memEmployeeRepo) CreateDocument(ctx context.Context, doc employee.Document) (employee.Document, error) {
	return doc, nil
}
func (m *memEmployeeRepo) ListDocuments(ctx context.Context, employeeID string) ([]employee.Document, error) {
	return nil, nil
}
func (m *memEmployeeRepo) GetDocument(ctx context.Context, id string) (employee.Document, error) {
	return employee.Document{}, employee.ErrDocumentNotFound
}
func (m *memEmployeeRepo) DeleteDocument(ctx context.Context, id string) error { return nil }
func (m *memEmployeeRepo) CreateNote(ctx context.Context, note employee.Note) (employee.Note, error) {
	return note, nil
}
func (m *memEmployeeRepo) ListNotes(ctx context.Context, employeeID string, includeConfidential bool) ([]employee.Note, error) {
	return nil, nil
}
func (m *memEmployeeRepo) DeleteNote(ctx context.Context, id string) error { return nil }

type staticResolver struct {
	fence *geofence.Geofence
	calls int
}

func (r *staticResolver) Resolve(ctx context.Context, latitude, longitude float64) (*geofence.Geofence, error) {
	r.calls++
	return r.fence, nil
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	global   []tracking.LocationEvent
	perEmp   map[string][]tracking.LocationEvent
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{perEmp: make(map[string][]tracking.LocationEvent)}
}

func (b *recordingBroadcaster) PublishGlobal(event tracking.LocationEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.global = append(b.global, event)
}

func (b *recordingBroadcaster) PublishEmployee(employeeID string, event tracking.LocationEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.perEmp[employeeID] = append(b.perEmp[employeeID], event)
}

// ----------------------------------------
// fixtures
// ----------------------------------------

const empID = "emp-1"

func newTestService(repo *memTrackingRepo, fence *geofence.Geofence, bc tracking.Broadcaster) tracking.Service {
	emps := &memEmployeeRepo{employees: map[string]employee.Employee{
		empID: {ID: empID, FirstName: "Siti", LastName: "Rahayu"},
	}}
	return NewTrackingService(nil, repo, emps, &staticResolver{fence: fence}, bc, time.UTC, nil)
}

func officeFence() *geofence.Geofence {
	return &geofence.Geofence{ID: "gf-1", Name: "HQ", RadiusMeters: 100, IsActive: true}
}

func validRequest() tracking.IngestRequest {
	return tracking.IngestRequest{EmployeeID: empID, Latitude: -6.1754, Longitude: 106.8272}
}

// ----------------------------------------
// check-in
// ----------------------------------------

func TestCheckIn_Success(t *testing.T) {
	repo := newMemTrackingRepo()
	bc := newRecordingBroadcaster()
	svc := newTestService(repo, officeFence(), bc)

	result, err := svc.CheckIn(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, result.EventID)
	assert.True(t, result.WithinGeofence)
	require.NotNil(t, result.Geofence)
	assert.Equal(t, "HQ", *result.Geofence)

	status, err := repo.GetStatus(context.Background(), empID)
	require.NoError(t, err)
	assert.Equal(t, tracking.StatusCheckedIn, status.Status)
	require.NotNil(t, status.CurrentGeofenceID)
	assert.Equal(t, "gf-1", *status.CurrentGeofenceID)
	assert.NotNil(t, status.LastCheckIn)

	assert.Len(t, repo.samples, 1)
	assert.Len(t, repo.events, 1)

	// Both channels got exactly one event.
	assert.Len(t, bc.global, 1)
	assert.Len(t, bc.perEmp[empID], 1)
	assert.Equal(t, "Siti Rahayu", bc.global[0].EmployeeName)
}

func TestCheckIn_OutsideAnyFence(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, nil, nil)

	result, err := svc.CheckIn(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, result.WithinGeofence)
	assert.Nil(t, result.Geofence)

	status, err := repo.GetStatus(context.Background(), empID)
	require.NoError(t, err)
	assert.Equal(t, tracking.StatusCheckedIn, status.Status)
	assert.Nil(t, status.CurrentGeofenceID)
}

func TestCheckIn_TwicePerDayRejected(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, officeFence(), nil)

	_, err := svc.CheckIn(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), validRequest())
	assert.ErrorIs(t, err, tracking.ErrAlreadyCheckedIn)

	// The failed attempt wrote nothing.
	assert.Len(t, repo.events, 1)
	assert.Len(t, repo.samples, 1)
}

func TestCheckIn_InvalidCoordinatesNoWrites(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, officeFence(), nil)

	req := validRequest()
	req.Latitude = 200

	_, err := svc.CheckIn(context.Background(), req)
	require.Error(t, err)

	assert.Empty(t, repo.events)
	assert.Empty(t, repo.samples)
	assert.Empty(t, repo.statuses)
}

func TestCheckIn_Concurrent(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, officeFence(), nil)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CheckIn(context.Background(), validRequest())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, rejected int
	for err := range errs {
		if err == nil {
			ok++
		} else {
			require.ErrorIs(t, err, tracking.ErrAlreadyCheckedIn)
			rejected++
		}
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, rejected)
	assert.Len(t, repo.events, 1)
}

func TestCheckIn_UnknownEmployee(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, officeFence(), nil)

	req := validRequest()
	req.EmployeeID = "emp-ghost"
	_, err := svc.CheckIn(context.Background(), req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	assert.Empty(t, repo.events)
	assert.Empty(t, repo.samples)
	assert.Empty(t, repo.statuses)
}

// ----------------------------------------
// check-out
// ----------------------------------------

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, officeFence(), nil)

	_, err := svc.CheckOut(context.Background(), validRequest())
	assert.ErrorIs(t, err, tracking.ErrNotCheckedIn)
}

func TestCheckOut_TwicePerDayRejected(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, officeFence(), nil)

	_, err := svc.CheckIn(context.Background(), validRequest())
	require.NoError(t, err)
	_, err = svc.CheckOut(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.CheckOut(context.Background(), validRequest())
	assert.ErrorIs(t, err, tracking.ErrAlreadyCheckedOut)
}

func TestCheckOut_ClearsGeofenceEvenInsideOne(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, officeFence(), nil)

	_, err := svc.CheckIn(context.Background(), validRequest())
	require.NoError(t, err)

	// Still standing inside the fence at checkout time.
	_, err = svc.CheckOut(context.Background(), validRequest())
	require.NoError(t, err)

	status, err := repo.GetStatus(context.Background(), empID)
	require.NoError(t, err)
	assert.Equal(t, tracking.StatusCheckedOut, status.Status)
	assert.Nil(t, status.CurrentGeofenceID)
	assert.NotNil(t, status.LastCheckOut)
}

func TestCheckOut_WorkHours(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, officeFence(), nil)

	// Seed a check-in 8h30m ago so the checkout computes 8.5 hours.
	now := time.Now().UTC()
	_, err := repo.AppendCheckEvent(context.Background(), tracking.CheckEvent{
		EmployeeID: empID,
		Kind:       tracking.CheckKindIn,
		DayLocal:   now.Format("2006-01-02"),
		Timestamp:  now.Add(-8*time.Hour - 30*time.Minute),
	})
	require.NoError(t, err)

	result, err := svc.CheckOut(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 8.5, result.WorkHours)
	assert.Equal(t, "8h 30m", result.WorkDuration)
}

func TestCheckOut_UnknownEmployee(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, officeFence(), nil)

	req := validRequest()
	req.EmployeeID = "emp-ghost"
	_, err := svc.CheckOut(context.Background(), req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	assert.Empty(t, repo.events)
	assert.Empty(t, repo.samples)
}

func TestCheckOut_DoesNotResolveGeofence(t *testing.T) {
	repo := newMemTrackingRepo()
	resolver := &staticResolver{fence: officeFence()}
	emps := &memEmployeeRepo{employees: map[string]employee.Employee{empID: {ID: empID}}}
	svc := NewTrackingService(nil, repo, emps, resolver, nil, time.UTC, nil)

	_, err := svc.CheckIn(context.Background(), validRequest())
	require.NoError(t, err)
	callsAfterCheckIn := resolver.calls

	// Checking out inside the fence still records within_geofence false
	// and never asks the resolver.
	_, err = svc.CheckOut(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, callsAfterCheckIn, resolver.calls)
	require.Len(t, repo.events, 2)
	out := repo.events[1]
	assert.Equal(t, tracking.CheckKindOut, out.Kind)
	assert.False(t, out.WithinGeofence)
}

// ----------------------------------------
// location updates
// ----------------------------------------

func TestUpdateLocation_PreservesStatus(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, officeFence(), nil)

	_, err := svc.CheckIn(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Latitude = -6.18
	_, err = svc.UpdateLocation(context.Background(), req)
	require.NoError(t, err)

	status, err := repo.GetStatus(context.Background(), empID)
	require.NoError(t, err)
	assert.Equal(t, tracking.StatusCheckedIn, status.Status)
	require.NotNil(t, status.CurrentLatitude)
	assert.Equal(t, -6.18, *status.CurrentLatitude)
}

func TestUpdateLocation_FirstContactIsOffline(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, nil, nil)

	_, err := svc.UpdateLocation(context.Background(), validRequest())
	require.NoError(t, err)

	status, err := repo.GetStatus(context.Background(), empID)
	require.NoError(t, err)
	assert.Equal(t, tracking.StatusOffline, status.Status)
}

func TestUpdateLocation_UnknownEmployee(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, officeFence(), nil)

	req := validRequest()
	req.EmployeeID = "emp-ghost"
	_, err := svc.UpdateLocation(context.Background(), req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	assert.Empty(t, repo.samples)
	assert.Empty(t, repo.statuses)
}

func TestUpdateLocation_ReResolvesGeofence(t *testing.T) {
	repo := newMemTrackingRepo()
	resolver := &staticResolver{fence: officeFence()}
	emps := &memEmployeeRepo{employees: map[string]employee.Employee{empID: {ID: empID}}}
	svc := NewTrackingService(nil, repo, emps, resolver, nil, time.UTC, nil)

	_, err := svc.UpdateLocation(context.Background(), validRequest())
	require.NoError(t, err)
	status, _ := repo.GetStatus(context.Background(), empID)
	require.NotNil(t, status.CurrentGeofenceID)

	// Walked out of the fence.
	resolver.fence = nil
	_, err = svc.UpdateLocation(context.Background(), validRequest())
	require.NoError(t, err)
	status, _ = repo.GetStatus(context.Background(), empID)
	assert.Nil(t, status.CurrentGeofenceID)
}

// ----------------------------------------
// ingest dispatch
// ----------------------------------------

func TestIngest_Dispatch(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, officeFence(), nil)

	result, err := svc.Ingest(context.Background(), tracking.ActionCheckIn, validRequest())
	require.NoError(t, err)
	assert.NotNil(t, result.CheckIn)
	assert.Nil(t, result.CheckOut)
	assert.Nil(t, result.Update)

	result, err = svc.Ingest(context.Background(), tracking.ActionUpdateLocation, validRequest())
	require.NoError(t, err)
	assert.NotNil(t, result.Update)

	result, err = svc.Ingest(context.Background(), tracking.ActionCheckOut, validRequest())
	require.NoError(t, err)
	assert.NotNil(t, result.CheckOut)

	_, err = svc.Ingest(context.Background(), tracking.Action("bogus"), validRequest())
	assert.Error(t, err)
}

// ----------------------------------------
// read projections
// ----------------------------------------

func TestListOnline_WindowFilter(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, nil, nil)

	now := time.Now()
	fresh := tracking.EmployeeStatus{EmployeeID: "emp-fresh", Status: tracking.StatusCheckedIn, LastUpdate: now.Add(-time.Minute)}
	stale := tracking.EmployeeStatus{EmployeeID: "emp-stale", Status: tracking.StatusCheckedIn, LastUpdate: now.Add(-tracking.OnlineWindow)}
	_, err := repo.UpsertStatus(context.Background(), fresh)
	require.NoError(t, err)
	_, err = repo.UpsertStatus(context.Background(), stale)
	require.NoError(t, err)

	online, err := svc.ListOnline(context.Background())
	require.NoError(t, err)

	require.Len(t, online, 1)
	assert.Equal(t, "emp-fresh", online[0].EmployeeID)
	assert.True(t, online[0].IsOnline)
}

func TestSummary(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, officeFence(), nil)

	_, err := svc.CheckIn(context.Background(), validRequest())
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.TotalEmployees)
	assert.Equal(t, int64(1), summary.CheckedInToday)
	assert.Equal(t, int64(0), summary.CheckedOutToday)
	assert.Equal(t, int64(1), summary.CurrentlyOnline)
}

func TestAnalytics_TopLocations(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, nil, nil)

	hq := "HQ"
	warehouse := "Warehouse"
	gfA, gfB := "gf-a", "gf-b"
	for i := 0; i < 3; i++ {
		_, err := repo.UpsertStatus(context.Background(), tracking.EmployeeStatus{
			EmployeeID:        fmt.Sprintf("emp-hq-%d", i),
			Status:            tracking.StatusCheckedIn,
			CurrentGeofenceID: &gfA,
			GeofenceName:      &hq,
		})
		require.NoError(t, err)
	}
	_, err := repo.UpsertStatus(context.Background(), tracking.EmployeeStatus{
		EmployeeID:        "emp-wh",
		Status:            tracking.StatusCheckedIn,
		CurrentGeofenceID: &gfB,
		GeofenceName:      &warehouse,
	})
	require.NoError(t, err)

	analytics, err := svc.Analytics(context.Background())
	require.NoError(t, err)

	require.Len(t, analytics.TopLocations, 2)
	assert.Equal(t, "HQ", analytics.TopLocations[0].Geofence)
	assert.Equal(t, int64(3), analytics.TopLocations[0].Count)
	assert.Equal(t, int64(2), analytics.ActiveGeofences)
	assert.Equal(t, int64(4), analytics.EmployeesByStatus[string(tracking.StatusCheckedIn)])
}

func TestGetEmployeeStatus_NotFound(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, nil, nil)

	_, err := svc.GetEmployeeStatus(context.Background(), "emp-unknown")
	assert.ErrorIs(t, err, tracking.ErrStatusNotFound)
}

func TestStatusesByGeofence_GroupsUnfencedUnderEmptyKey(t *testing.T) {
	repo := newMemTrackingRepo()
	svc := newTestService(repo, nil, nil)

	hq := "HQ"
	gfA := "gf-a"
	_, err := repo.UpsertStatus(context.Background(), tracking.EmployeeStatus{
		EmployeeID: "emp-out", Status: tracking.StatusCheckedIn,
	})
	require.NoError(t, err)
	_, err = repo.UpsertStatus(context.Background(), tracking.EmployeeStatus{
		EmployeeID: "emp-in", Status: tracking.StatusCheckedIn,
		CurrentGeofenceID: &gfA, GeofenceName: &hq,
	})
	require.NoError(t, err)

	grouped, err := svc.StatusesByGeofence(context.Background())
	require.NoError(t, err)

	assert.Len(t, grouped["HQ"], 1)
	assert.Len(t, grouped[""], 1)
}
