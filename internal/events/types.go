package events

import (
	"time"

	"github.com/google/uuid"
)

// Event represents the base event structure with common fields
type Event struct {
	CorrelationID string    `json:"correlation_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewEvent creates a new base event with generated correlation ID
func NewEvent() Event {
	return Event{
		CorrelationID: uuid.New().String(),
		Timestamp:     time.Now(),
	}
}

// MessageReceived is published for every inbound message accepted by the
// webhook, after provider-specific parsing.
type MessageReceived struct {
	Event
	UserPhone   string `json:"user_phone"`
	MessageText string `json:"message_text"`
	MediaFileID string `json:"media_file_id,omitempty"`
	MessageType string `json:"message_type"`
}

// MealLogged is published after a meal entry has been persisted.
type MealLogged struct {
	Event
	UserPhone   string `json:"user_phone"`
	Category    string `json:"category"`
	Calories    int    `json:"calories"`
	Description string `json:"description"`
}

// WaterLogged is published after a water entry has been persisted.
type WaterLogged struct {
	Event
	UserPhone string `json:"user_phone"`
	AmountML  int    `json:"amount_ml"`
}

// ReminderSent is published when the scheduler delivers a reminder.
type ReminderSent struct {
	Event
	UserPhone string `json:"user_phone"`
	Kind      string `json:"kind"`
}

// UserOnboarded is published when a user finishes collecting their meal times.
type UserOnboarded struct {
	Event
	UserPhone string `json:"user_phone"`
}

// Event topics constants
const (
	TopicMessageReceived = "message.received"
	TopicMealLogged      = "meal.logged"
	TopicWaterLogged     = "water.logged"
	TopicReminderSent    = "reminder.sent"
	TopicUserOnboarded   = "user.onboarded"
)

// Reminder kinds carried in ReminderSent events
const (
	ReminderKindMeal    = "meal"
	ReminderKindWater   = "water"
	ReminderKindSummary = "summary"
	ReminderKindWindow  = "window_warning"
)
