package engine

import (
	"testing"
	"time"

	"github.com/agentpay/agentpay/internal/model"
)

func TestResolveWindow(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	a := &model.Agent{DailySpent: 750, WindowStart: start}

	cases := []struct {
		name      string
		now       time.Time
		wantSpent uint64
		wantReset bool
	}{
		{"same instant", start, 750, false},
		{"mid window", start.Add(12 * time.Hour), 750, false},
		{"one nanosecond short", start.Add(WindowDuration - time.Nanosecond), 750, false},
		{"exactly elapsed", start.Add(WindowDuration), 0, true},
		{"long after", start.Add(72 * time.Hour), 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spent, ws := ResolveWindow(a, tc.now)
			if spent != tc.wantSpent {
				t.Fatalf("spent: want %d, got %d", tc.wantSpent, spent)
			}
			wantStart := start
			if tc.wantReset {
				wantStart = tc.now
			}
			if !ws.Equal(wantStart) {
				t.Fatalf("window start: want %v, got %v", wantStart, ws)
			}
		})
	}
}

// A reset resolves relative to now, not to a fixed schedule: two resets in
// quick succession must not both zero the accounting.
func TestResolveWindowIsIdempotentWithinWindow(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	a := &model.Agent{DailySpent: 500, WindowStart: start}

	now := start.Add(WindowDuration + time.Hour)
	spent, ws := ResolveWindow(a, now)
	if spent != 0 || !ws.Equal(now) {
		t.Fatalf("first resolve: spent=%d ws=%v", spent, ws)
	}

	// Simulate the write-back, then resolve shortly after.
	a.DailySpent = 100
	a.WindowStart = ws
	spent2, ws2 := ResolveWindow(a, now.Add(time.Minute))
	if spent2 != 100 || !ws2.Equal(ws) {
		t.Fatalf("second resolve must keep the fresh window: spent=%d ws=%v", spent2, ws2)
	}
}
