package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmployeeStatus_IsOnline(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		lastUpdate time.Time
		want       bool
	}{
		{"just updated", now, true},
		{"one second ago", now.Add(-1 * time.Second), true},
		{"just inside window", now.Add(-OnlineWindow + time.Second), true},
		{"exactly at window boundary", now.Add(-OnlineWindow), false},
		{"just past window", now.Add(-OnlineWindow - time.Second), false},
		{"hours stale", now.Add(-3 * time.Hour), false},
		{"never updated", time.Time{}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			st := EmployeeStatus{EmployeeID: "emp-1", Status: StatusCheckedIn, LastUpdate: c.lastUpdate}
			assert.Equal(t, c.want, st.IsOnline(now))
		})
	}
}
