package assistant

import (
	"context"
	"testing"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/assistant"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/employee"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrackingService struct {
	statuses map[string]tracking.StatusResponse
	online   []tracking.StatusResponse
	checkIns []tracking.CheckEventResponse
	grouped  map[string][]tracking.StatusResponse
	summary  tracking.SummaryResponse
}

func (f *fakeTrackingService) Ingest(ctx context.Context, action tracking.Action, req tracking.IngestRequest) (tracking.IngestResult, error) {
	return tracking.IngestResult{}, nil
}
func (f *fakeTrackingService) CheckIn(ctx context.Context, req tracking.IngestRequest) (tracking.CheckInResult, error) {
	return tracking.CheckInResult{}, nil
}
func (f *fakeTrackingService) CheckOut(ctx context.Context, req tracking.IngestRequest) (tracking.CheckOutResult, error) {
	return tracking.CheckOutResult{}, nil
}
func (f *fakeTrackingService) UpdateLocation(ctx context.Context, req tracking.IngestRequest) (tracking.LocationUpdateResult, error) {
	return tracking.LocationUpdateResult{}, nil
}
func (f *fakeTrackingService) GetEmployeeStatus(ctx context.Context, employeeID string) (tracking.StatusResponse, error) {
	status, ok := f.statuses[employeeID]
	if !ok {
		return tracking.StatusResponse{}, tracking.ErrStatusNotFound
	}
	return status, nil
}
func (f *fakeTrackingService) ListStatuses(ctx context.Context, filter tracking.StatusFilter) ([]tracking.StatusResponse, error) {
	return nil, nil
}
func (f *fakeTrackingService) ListOnline(ctx context.Context) ([]tracking.StatusResponse, error) {
	return f.online, nil
}
func (f *fakeTrackingService) EmployeesInGeofence(ctx context.Context, geofenceID string) ([]tracking.StatusResponse, error) {
	return nil, nil
}
func (f *fakeTrackingService) StatusesByGeofence(ctx context.Context) (map[string][]tracking.StatusResponse, error) {
	return f.grouped, nil
}
func (f *fakeTrackingService) TodayCheckIns(ctx context.Context) ([]tracking.CheckEventResponse, error) {
	return f.checkIns, nil
}
func (f *fakeTrackingService) History(ctx context.Context, employeeID string, limit int) ([]tracking.SampleResponse, error) {
	return nil, nil
}
func (f *fakeTrackingService) Summary(ctx context.Context) (tracking.SummaryResponse, error) {
	return f.summary, nil
}
func (f *fakeTrackingService) Analytics(ctx context.Context) (tracking.AnalyticsResponse, error) {
	return tracking.AnalyticsResponse{}, nil
}

type fakeEmployeeSearch struct {
	employee.Repository
	byName map[string]*employee.Employee
}

func (f *fakeEmployeeSearch) SearchByName(ctx context.Context, name string) (*employee.Employee, error) {
	return f.byName[name], nil
}

func newTestAssistant() (assistant.Service, *fakeTrackingService) {
	siti := &employee.Employee{ID: "emp-1", FirstName: "Siti", LastName: "Rahayu"}
	emps := &fakeEmployeeSearch{byName: map[string]*employee.Employee{
		"Siti":        siti,
		"Siti Rahayu": siti,
	}}
	ts := &fakeTrackingService{statuses: map[string]tracking.StatusResponse{}}
	return NewAssistantService(ts, emps), ts
}

func TestQuery_WhereIs(t *testing.T) {
	svc, ts := newTestAssistant()
	hq := "HQ"
	ts.statuses["emp-1"] = tracking.StatusResponse{
		EmployeeID:   "emp-1",
		EmployeeName: "Siti Rahayu",
		Status:       tracking.StatusCheckedIn,
		Geofence:     &hq,
		IsOnline:     true,
	}

	resp, err := svc.Query(context.Background(), assistant.QueryRequest{Question: "Where is Siti?"})
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentWhereIs, resp.Intent)
	assert.Contains(t, resp.Answer, "Siti Rahayu")
	assert.Contains(t, resp.Answer, "checked in")
	assert.Contains(t, resp.Answer, "HQ")
}

func TestQuery_WhereIs_UnknownEmployee(t *testing.T) {
	svc, _ := newTestAssistant()

	resp, err := svc.Query(context.Background(), assistant.QueryRequest{Question: "where is Bambang"})
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentWhereIs, resp.Intent)
	assert.Contains(t, resp.Answer, "could not find")
}

func TestQuery_WhereIs_NoLocationYet(t *testing.T) {
	svc, _ := newTestAssistant()

	resp, err := svc.Query(context.Background(), assistant.QueryRequest{Question: "where is Siti"})
	require.NoError(t, err)

	assert.Contains(t, resp.Answer, "not reported any location")
}

func TestQuery_WhoOnline(t *testing.T) {
	svc, ts := newTestAssistant()
	ts.online = []tracking.StatusResponse{
		{EmployeeID: "emp-1", EmployeeName: "Siti Rahayu", IsOnline: true},
		{EmployeeID: "emp-2", EmployeeName: "Budi Santoso", IsOnline: true},
	}

	resp, err := svc.Query(context.Background(), assistant.QueryRequest{Question: "who is online right now?"})
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentWhoOnline, resp.Intent)
	assert.Contains(t, resp.Answer, "2 online")
	assert.Contains(t, resp.Answer, "Siti Rahayu")
	assert.Contains(t, resp.Answer, "Budi Santoso")
}

func TestQuery_CheckInTime(t *testing.T) {
	svc, ts := newTestAssistant()
	checkIn := "2026-08-28T08:02:11Z"
	ts.statuses["emp-1"] = tracking.StatusResponse{
		EmployeeID:   "emp-1",
		EmployeeName: "Siti Rahayu",
		Status:       tracking.StatusCheckedIn,
		LastCheckIn:  &checkIn,
	}

	resp, err := svc.Query(context.Background(), assistant.QueryRequest{Question: "what time did Siti check in?"})
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentCheckTime, resp.Intent)
	assert.Contains(t, resp.Answer, checkIn)
}

func TestQuery_AttendanceToday(t *testing.T) {
	svc, ts := newTestAssistant()
	ts.checkIns = []tracking.CheckEventResponse{
		{EmployeeID: "emp-1", EmployeeName: "Siti Rahayu"},
	}

	resp, err := svc.Query(context.Background(), assistant.QueryRequest{Question: "who checked in today"})
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentAttendance, resp.Intent)
	assert.Contains(t, resp.Answer, "1 checked in today")
}

func TestQuery_WhoInsideNamedFence(t *testing.T) {
	svc, ts := newTestAssistant()
	ts.grouped = map[string][]tracking.StatusResponse{
		"HQ": {{EmployeeID: "emp-1", EmployeeName: "Siti Rahayu"}},
		"":   {{EmployeeID: "emp-2", EmployeeName: "Budi Santoso"}},
	}

	resp, err := svc.Query(context.Background(), assistant.QueryRequest{Question: "who is in the hq?"})
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentWhoInside, resp.Intent)
	assert.Contains(t, resp.Answer, "HQ")
	assert.Contains(t, resp.Answer, "Siti Rahayu")
	assert.NotContains(t, resp.Answer, "Budi")
}

func TestQuery_Summary(t *testing.T) {
	svc, ts := newTestAssistant()
	ts.summary = tracking.SummaryResponse{
		TotalEmployees: 10, CheckedInToday: 6, CheckedOutToday: 2, CurrentlyOnline: 5,
	}

	resp, err := svc.Query(context.Background(), assistant.QueryRequest{Question: "give me a summary"})
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentSummary, resp.Intent)
	assert.Contains(t, resp.Answer, "10 employees")
	assert.Contains(t, resp.Answer, "6 checked in")
}

func TestQuery_Unknown(t *testing.T) {
	svc, _ := newTestAssistant()

	resp, err := svc.Query(context.Background(), assistant.QueryRequest{Question: "sing me a song"})
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentUnknown, resp.Intent)
}

func TestQuery_EmptyQuestion(t *testing.T) {
	svc, _ := newTestAssistant()

	_, err := svc.Query(context.Background(), assistant.QueryRequest{Question: "  "})
	assert.Error(t, err)
}
