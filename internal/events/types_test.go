package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	before := time.Now()
	event := NewEvent()
	after := time.Now()

	_, err := uuid.Parse(event.CorrelationID)
	assert.NoError(t, err, "correlation ID should be a valid UUID")
	assert.False(t, event.Timestamp.Before(before))
	assert.False(t, event.Timestamp.After(after))
}

func TestNewEvent_UniqueCorrelationIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		event := NewEvent()
		assert.False(t, seen[event.CorrelationID], "correlation IDs must be unique")
		seen[event.CorrelationID] = true
	}
}

func TestMessageReceived_JSONRoundTrip(t *testing.T) {
	event := MessageReceived{
		Event:       NewEvent(),
		UserPhone:   "905551112233",
		MessageText: "suhedefi 3000",
		MessageType: "text",
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded MessageReceived
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, event.UserPhone, decoded.UserPhone)
	assert.Equal(t, event.MessageText, decoded.MessageText)
	assert.Equal(t, event.CorrelationID, decoded.CorrelationID)
}

func TestMessageReceived_MediaFileIDOmittedWhenEmpty(t *testing.T) {
	event := MessageReceived{Event: NewEvent(), UserPhone: "905551112233", MessageType: "text"}

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "media_file_id")
}

func TestReminderKinds(t *testing.T) {
	kinds := []string{ReminderKindMeal, ReminderKindWater, ReminderKindSummary, ReminderKindWindow}
	seen := make(map[string]bool)
	for _, k := range kinds {
		assert.NotEmpty(t, k)
		assert.False(t, seen[k], "reminder kinds must be distinct")
		seen[k] = true
	}
}
