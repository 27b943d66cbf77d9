package scheduler

import "sync/atomic"

// SchedulerMetrics counts what the reminder jobs have done since startup.
type SchedulerMetrics struct {
	mealRemindersSent  atomic.Int64
	waterRemindersSent atomic.Int64
	summariesSent      atomic.Int64
	windowWarningsSent atomic.Int64
	userErrors         atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	MealRemindersSent  int64 `json:"meal_reminders_sent"`
	WaterRemindersSent int64 `json:"water_reminders_sent"`
	SummariesSent      int64 `json:"summaries_sent"`
	WindowWarningsSent int64 `json:"window_warnings_sent"`
	UserErrors         int64 `json:"user_errors"`
}

// NewSchedulerMetrics creates a new metrics holder
func NewSchedulerMetrics() *SchedulerMetrics {
	return &SchedulerMetrics{}
}

// Snapshot returns the current counter values
func (m *SchedulerMetrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		MealRemindersSent:  m.mealRemindersSent.Load(),
		WaterRemindersSent: m.waterRemindersSent.Load(),
		SummariesSent:      m.summariesSent.Load(),
		WindowWarningsSent: m.windowWarningsSent.Load(),
		UserErrors:         m.userErrors.Load(),
	}
}
