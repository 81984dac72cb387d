package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/tracking"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTrackingService returns canned results so handler tests exercise only
// decoding, routing, and the response envelope.
type stubTrackingService struct {
	checkInResult  tracking.CheckInResult
	checkInErr     error
	checkOutResult tracking.CheckOutResult
	checkOutErr    error
	updateResult   tracking.LocationUpdateResult
	updateErr      error
	status         tracking.StatusResponse
	statusErr      error
	statuses       []tracking.StatusResponse
	lastFilter     tracking.StatusFilter
	historyLimit   int
	samples        []tracking.SampleResponse
	summary        tracking.SummaryResponse

	lastRequest tracking.IngestRequest
}

func (s *stubTrackingService) Ingest(ctx context.Context, action tracking.Action, req tracking.IngestRequest) (tracking.IngestResult, error) {
	switch action {
	case tracking.ActionCheckIn:
		r, err := s.CheckIn(ctx, req)
		return tracking.IngestResult{CheckIn: &r}, err
	case tracking.ActionCheckOut:
		r, err := s.CheckOut(ctx, req)
		return tracking.IngestResult{CheckOut: &r}, err
	default:
		r, err := s.UpdateLocation(ctx, req)
		return tracking.IngestResult{Update: &r}, err
	}
}

func (s *stubTrackingService) CheckIn(_ context.Context, req tracking.IngestRequest) (tracking.CheckInResult, error) {
	s.lastRequest = req
	return s.checkInResult, s.checkInErr
}

func (s *stubTrackingService) CheckOut(_ context.Context, req tracking.IngestRequest) (tracking.CheckOutResult, error) {
	s.lastRequest = req
	return s.checkOutResult, s.checkOutErr
}

func (s *stubTrackingService) UpdateLocation(_ context.Context, req tracking.IngestRequest) (tracking.LocationUpdateResult, error) {
	s.lastRequest = req
	return s.updateResult, s.updateErr
}

func (s *stubTrackingService) GetEmployeeStatus(_ context.Context, employeeID string) (tracking.StatusResponse, error) {
	return s.status, s.statusErr
}

func (s *stubTrackingService) ListStatuses(_ context.Context, filter tracking.StatusFilter) ([]tracking.StatusResponse, error) {
	s.lastFilter = filter
	return s.statuses, nil
}

func (s *stubTrackingService) ListOnline(_ context.Context) ([]tracking.StatusResponse, error) {
	return s.statuses, nil
}

func (s *stubTrackingService) EmployeesInGeofence(_ context.Context, geofenceID string) ([]tracking.StatusResponse, error) {
	return s.statuses, nil
}

func (s *stubTrackingService) StatusesByGeofence(_ context.Context) (map[string][]tracking.StatusResponse, error) {
	return map[string][]tracking.StatusResponse{"HQ": s.statuses}, nil
}

func (s *stubTrackingService) TodayCheckIns(_ context.Context) ([]tracking.CheckEventResponse, error) {
	return nil, nil
}

func (s *stubTrackingService) History(_ context.Context, employeeID string, limit int) ([]tracking.SampleResponse, error) {
	s.historyLimit = limit
	return s.samples, nil
}

func (s *stubTrackingService) Summary(_ context.Context) (tracking.SummaryResponse, error) {
	return s.summary, nil
}

func (s *stubTrackingService) Analytics(_ context.Context) (tracking.AnalyticsResponse, error) {
	return tracking.AnalyticsResponse{}, nil
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

// ===== HANDLER TESTS =====

func TestTrackingHandler_CheckIn_Success(t *testing.T) {
	fence := "Head Office"
	svc := &stubTrackingService{
		checkInResult: tracking.CheckInResult{
			EventID:        "evt-1",
			Timestamp:      "2026-08-28T08:00:00Z",
			Location:       "-6.175392, 106.827153",
			Geofence:       &fence,
			WithinGeofence: true,
		},
	}
	handler := NewTrackingHandler(svc)

	body, _ := json.Marshal(tracking.IngestRequest{
		EmployeeID: "emp-1",
		Latitude:   -6.175392,
		Longitude:  106.827153,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tracking/check-in", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.CheckIn(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := decodeEnvelope(t, w)
	assert.True(t, resp["success"].(bool))

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "evt-1", data["event_id"])
	assert.Equal(t, "Head Office", data["geofence"])
	assert.True(t, data["within_geofence"].(bool))

	assert.Equal(t, "emp-1", svc.lastRequest.EmployeeID)
}

func TestTrackingHandler_CheckIn_InvalidJSON(t *testing.T) {
	handler := NewTrackingHandler(&stubTrackingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tracking/check-in", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()

	handler.CheckIn(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeEnvelope(t, w)
	assert.False(t, resp["success"].(bool))
}

func TestTrackingHandler_CheckIn_AlreadyCheckedIn(t *testing.T) {
	svc := &stubTrackingService{checkInErr: tracking.ErrAlreadyCheckedIn}
	handler := NewTrackingHandler(svc)

	body, _ := json.Marshal(tracking.IngestRequest{
		EmployeeID: "emp-1",
		Latitude:   -6.2,
		Longitude:  106.8,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tracking/check-in", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.CheckIn(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	resp := decodeEnvelope(t, w)
	assert.False(t, resp["success"].(bool))
	errObj := resp["error"].(map[string]interface{})
	assert.NotEmpty(t, errObj["message"])
}

func TestTrackingHandler_CheckOut_Success(t *testing.T) {
	svc := &stubTrackingService{
		checkOutResult: tracking.CheckOutResult{
			EventID:      "evt-2",
			Timestamp:    "2026-08-28T17:30:00Z",
			Location:     "-6.175392, 106.827153",
			WorkDuration: "8h 30m",
			WorkHours:    8.5,
		},
	}
	handler := NewTrackingHandler(svc)

	body, _ := json.Marshal(tracking.IngestRequest{
		EmployeeID: "emp-1",
		Latitude:   -6.175392,
		Longitude:  106.827153,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tracking/check-out", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.CheckOut(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp["success"].(bool))

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "8h 30m", data["work_duration"])
	assert.Equal(t, 8.5, data["work_hours"])
}

func TestTrackingHandler_CheckOut_WithoutCheckIn(t *testing.T) {
	svc := &stubTrackingService{checkOutErr: tracking.ErrNotCheckedIn}
	handler := NewTrackingHandler(svc)

	body, _ := json.Marshal(tracking.IngestRequest{
		EmployeeID: "emp-1",
		Latitude:   -6.2,
		Longitude:  106.8,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tracking/check-out", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.CheckOut(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTrackingHandler_UpdateLocation_Success(t *testing.T) {
	svc := &stubTrackingService{
		updateResult: tracking.LocationUpdateResult{
			EmployeeID: "emp-1",
			Latitude:   -6.19,
			Longitude:  106.82,
			Timestamp:  "2026-08-28T10:15:00Z",
		},
	}
	handler := NewTrackingHandler(svc)

	body, _ := json.Marshal(tracking.IngestRequest{
		EmployeeID: "emp-1",
		Latitude:   -6.19,
		Longitude:  106.82,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tracking/location", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.UpdateLocation(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp["success"].(bool))

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "emp-1", data["employee_id"])
	assert.Nil(t, data["geofence"])
}

func TestTrackingHandler_GetStatus_Success(t *testing.T) {
	svc := &stubTrackingService{
		status: tracking.StatusResponse{
			EmployeeID:   "emp-1",
			EmployeeName: "Siti Rahayu",
			Status:       tracking.StatusCheckedIn,
			IsOnline:     true,
		},
	}
	handler := NewTrackingHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tracking/statuses/emp-1", nil)
	req = withURLParam(req, "employeeID", "emp-1")
	w := httptest.NewRecorder()

	handler.GetStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Siti Rahayu", data["employee_name"])
	assert.Equal(t, "checked_in", data["status"])
	assert.True(t, data["is_online"].(bool))
}

func TestTrackingHandler_GetStatus_NotFound(t *testing.T) {
	svc := &stubTrackingService{statusErr: tracking.ErrStatusNotFound}
	handler := NewTrackingHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tracking/statuses/ghost", nil)
	req = withURLParam(req, "employeeID", "ghost")
	w := httptest.NewRecorder()

	handler.GetStatus(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeEnvelope(t, w)
	assert.False(t, resp["success"].(bool))
}

func TestTrackingHandler_ListStatuses_ParsesFilters(t *testing.T) {
	svc := &stubTrackingService{}
	handler := NewTrackingHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tracking/statuses?status=checked_in&online_only=true", nil)
	w := httptest.NewRecorder()

	handler.ListStatuses(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastFilter.Status)
	assert.Equal(t, tracking.StatusCheckedIn, *svc.lastFilter.Status)
	assert.True(t, svc.lastFilter.OnlineOnly)
}

func TestTrackingHandler_History_LimitMustBeNumeric(t *testing.T) {
	handler := NewTrackingHandler(&stubTrackingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tracking/history/emp-1?limit=lots", nil)
	req = withURLParam(req, "employeeID", "emp-1")
	w := httptest.NewRecorder()

	handler.History(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrackingHandler_History_PassesLimit(t *testing.T) {
	svc := &stubTrackingService{}
	handler := NewTrackingHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tracking/history/emp-1?limit=25", nil)
	req = withURLParam(req, "employeeID", "emp-1")
	w := httptest.NewRecorder()

	handler.History(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 25, svc.historyLimit)
}

func TestTrackingHandler_Summary_Success(t *testing.T) {
	svc := &stubTrackingService{
		summary: tracking.SummaryResponse{
			TotalEmployees:  12,
			CheckedInToday:  8,
			CheckedOutToday: 2,
			CurrentlyOnline: 7,
		},
	}
	handler := NewTrackingHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tracking/summary", nil)
	w := httptest.NewRecorder()

	handler.Summary(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(12), data["total_employees"])
	assert.Equal(t, float64(7), data["currently_online"])
}
