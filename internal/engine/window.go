package engine

import (
	"time"

	"github.com/agentpay/agentpay/internal/model"
)

// WindowDuration is the length of the rolling spending window. The window
// resets when at least this much time has elapsed since WindowStart; the
// reset happens at most once per window and spend never goes below zero.
const WindowDuration = 24 * time.Hour

// ResolveWindow returns the effective daily spend and window start for the
// agent at the given instant. Invoked as the first step of every operation
// that reads or mutates DailySpent, so accounting is always evaluated
// against the correct window without a background job.
func ResolveWindow(a *model.Agent, now time.Time) (spent uint64, windowStart time.Time) {
	if now.Sub(a.WindowStart) >= WindowDuration {
		return 0, now
	}
	return a.DailySpent, a.WindowStart
}
