package nutrition

import "time"

// WindowStatus describes how long a user has been silent relative to the
// messaging provider's 24 hour reply window.
type WindowStatus struct {
	HasMessaged       bool
	HoursSinceInbound float64
	NeedsWarning      bool
	WindowClosed      bool
}

// EvaluateWindow derives the messaging-window status from a user's last
// inbound message time. Users who never wrote are never warned; the warning
// band is [warnAfter, deadline) hours of silence, after which the window is
// considered closed and warning is pointless.
func EvaluateWindow(lastInbound *time.Time, now time.Time, warnAfterHours, deadlineHours int) WindowStatus {
	if lastInbound == nil {
		return WindowStatus{}
	}

	hours := now.Sub(*lastInbound).Hours()
	status := WindowStatus{
		HasMessaged:       true,
		HoursSinceInbound: hours,
	}

	if hours >= float64(deadlineHours) {
		status.WindowClosed = true
		return status
	}
	if hours >= float64(warnAfterHours) {
		status.NeedsWarning = true
	}
	return status
}
