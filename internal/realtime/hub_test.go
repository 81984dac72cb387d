package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(h *Hub, employeeID string, buffer int) *Client {
	c := &Client{
		hub:        h,
		send:       make(chan []byte, buffer),
		employeeID: employeeID,
	}
	h.register(c)
	return c
}

func sampleEvent(employeeID string) tracking.LocationEvent {
	return tracking.LocationEvent{
		EmployeeID:   employeeID,
		EmployeeName: "Siti Rahayu",
		Latitude:     -6.1754,
		Longitude:    106.8272,
		Status:       tracking.StatusCheckedIn,
	}
}

func TestPublishGlobal_FansOutToAllGlobalClients(t *testing.T) {
	h := NewHub(nil, nil)
	a := testClient(h, "", 4)
	b := testClient(h, "", 4)
	scoped := testClient(h, "emp-1", 4)

	h.PublishGlobal(sampleEvent("emp-1"))

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.send:
			var env struct {
				Type string                 `json:"type"`
				Data tracking.LocationEvent `json:"data"`
			}
			require.NoError(t, json.Unmarshal(raw, &env))
			assert.Equal(t, "location_update", env.Type)
			assert.Equal(t, "emp-1", env.Data.EmployeeID)
		default:
			t.Fatal("global client did not receive the event")
		}
	}

	// Per-employee rooms are not part of the global fan-out.
	assert.Empty(t, scoped.send)
}

func TestPublishEmployee_OnlyReachesThatRoom(t *testing.T) {
	h := NewHub(nil, nil)
	mine := testClient(h, "emp-1", 4)
	other := testClient(h, "emp-2", 4)
	global := testClient(h, "", 4)

	h.PublishEmployee("emp-1", sampleEvent("emp-1"))

	assert.Len(t, mine.send, 1)
	assert.Empty(t, other.send)
	assert.Empty(t, global.send)
}

func TestPublish_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(nil, nil)
	slow := testClient(h, "", 1)

	// First publish fills the buffer; the rest must drop, not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.PublishGlobal(sampleEvent("emp-1"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publishing blocked on a slow subscriber")
	}

	assert.Len(t, slow.send, 1)
}

func TestUnregister_RemovesClientAndClosesChannel(t *testing.T) {
	h := NewHub(nil, nil)
	c := testClient(h, "", 4)
	require.Equal(t, 1, h.GlobalSubscribers())

	h.unregister(c)
	assert.Equal(t, 0, h.GlobalSubscribers())

	_, open := <-c.send
	assert.False(t, open)

	// A second unregister is a no-op, not a double close.
	h.unregister(c)
}

func TestUnregister_EmptiesEmployeeRoom(t *testing.T) {
	h := NewHub(nil, nil)
	c := testClient(h, "emp-1", 4)

	h.unregister(c)

	h.mu.RLock()
	_, ok := h.perEmployee["emp-1"]
	h.mu.RUnlock()
	assert.False(t, ok)
}
