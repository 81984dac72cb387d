package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/tracking"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeWS(w, r, "")
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readReply(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var reply map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &reply))
	return reply
}

func checkInMessage() map[string]interface{} {
	return map[string]interface{}{
		"type":        "check_in",
		"employee_id": "emp-1",
		"latitude":    -6.1754,
		"longitude":   106.8272,
	}
}

func TestServeWS_IngestRunsOnLiveContext(t *testing.T) {
	ctxErr := make(chan error, 1)
	h := NewHub(func(ctx context.Context, action tracking.Action, req tracking.IngestRequest) (tracking.IngestResult, error) {
		ctxErr <- ctx.Err()
		return tracking.IngestResult{CheckIn: &tracking.CheckInResult{EventID: "evt-1"}}, nil
	}, nil)

	conn := dialTestHub(t, h)

	// The upgrade handler has long returned by the time this message
	// arrives; ingest must still see a live context.
	require.NoError(t, conn.WriteJSON(checkInMessage()))

	reply := readReply(t, conn)
	assert.Equal(t, "check_in_response", reply["type"])
	assert.Equal(t, true, reply["success"])

	select {
	case err := <-ctxErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ingest was never called")
	}
}

func TestServeWS_ReplyTypeMirrorsAction(t *testing.T) {
	h := NewHub(func(ctx context.Context, action tracking.Action, req tracking.IngestRequest) (tracking.IngestResult, error) {
		switch action {
		case tracking.ActionCheckOut:
			return tracking.IngestResult{CheckOut: &tracking.CheckOutResult{EventID: "evt-2"}}, nil
		default:
			return tracking.IngestResult{Update: &tracking.LocationUpdateResult{EmployeeID: req.EmployeeID}}, nil
		}
	}, nil)

	conn := dialTestHub(t, h)

	msg := checkInMessage()
	msg["type"] = "check_out"
	require.NoError(t, conn.WriteJSON(msg))
	reply := readReply(t, conn)
	assert.Equal(t, "check_out_response", reply["type"])
	assert.Equal(t, true, reply["success"])

	msg["type"] = "location_update"
	require.NoError(t, conn.WriteJSON(msg))
	reply = readReply(t, conn)
	assert.Equal(t, "location_update", reply["type"])
}

func TestServeWS_IngestErrorIsStructuredFailure(t *testing.T) {
	h := NewHub(func(ctx context.Context, action tracking.Action, req tracking.IngestRequest) (tracking.IngestResult, error) {
		return tracking.IngestResult{}, errors.New("already checked in today")
	}, nil)

	conn := dialTestHub(t, h)

	require.NoError(t, conn.WriteJSON(checkInMessage()))

	reply := readReply(t, conn)
	assert.Equal(t, "check_in_response", reply["type"])
	assert.Equal(t, false, reply["success"])
	assert.Contains(t, reply["message"], "already checked in")
}

func TestServeWS_UnknownTypeIgnored(t *testing.T) {
	var calls atomic.Int32
	h := NewHub(func(ctx context.Context, action tracking.Action, req tracking.IngestRequest) (tracking.IngestResult, error) {
		calls.Add(1)
		return tracking.IngestResult{CheckIn: &tracking.CheckInResult{EventID: "evt-1"}}, nil
	}, nil)

	conn := dialTestHub(t, h)

	unknown := checkInMessage()
	unknown["type"] = "teleport"
	require.NoError(t, conn.WriteJSON(unknown))
	require.NoError(t, conn.WriteJSON(checkInMessage()))

	// The first reply to arrive belongs to the valid message; the
	// unrecognized one produced neither a reply nor an ingest call.
	reply := readReply(t, conn)
	assert.Equal(t, "check_in_response", reply["type"])
	assert.Equal(t, int32(1), calls.Load())
}

func TestServeWS_MalformedMessageGetsError(t *testing.T) {
	h := NewHub(nil, nil)
	conn := dialTestHub(t, h)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	reply := readReply(t, conn)
	assert.Equal(t, "error", reply["type"])
	assert.Equal(t, "malformed message", reply["message"])
}
