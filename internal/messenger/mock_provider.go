package messenger

import (
	"fmt"
	"sync"

	"kaloribot-api/internal/common"
)

// SentMessage records one outbound message captured by the mock provider.
type SentMessage struct {
	UserPhone common.UserID
	Text      string
	Choices   []Choice
}

// MockProvider provides an in-memory implementation for testing
type MockProvider struct {
	mu   sync.Mutex
	sent []SentMessage

	FailWith error
}

// NewMockProvider creates a new mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) SendText(user common.UserID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.sent = append(m.sent, SentMessage{UserPhone: user, Text: text})
	return nil
}

func (m *MockProvider) SendChoices(user common.UserID, text string, choices []Choice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if len(choices) == 0 || len(choices) > MaxChoices {
		return BadRequestError{Details: fmt.Sprintf("choice count %d outside 1-%d", len(choices), MaxChoices)}
	}
	copied := make([]Choice, len(choices))
	copy(copied, choices)
	m.sent = append(m.sent, SentMessage{UserPhone: user, Text: text, Choices: copied})
	return nil
}

func (m *MockProvider) FileURL(fileID string) (string, error) {
	if m.FailWith != nil {
		return "", m.FailWith
	}
	return "https://files.example.invalid/" + fileID, nil
}

func (m *MockProvider) SetWebhook(webhookURL string) error {
	return nil
}

func (m *MockProvider) DeleteWebhook() error {
	return nil
}

// Sent returns a copy of every captured outbound message
func (m *MockProvider) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]SentMessage, len(m.sent))
	copy(copied, m.sent)
	return copied
}

// LastSent returns the most recent captured message, or nil
func (m *MockProvider) LastSent() *SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	last := m.sent[len(m.sent)-1]
	return &last
}

// SentTo returns every captured message addressed to a user
func (m *MockProvider) SentTo(user common.UserID) []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []SentMessage
	for _, msg := range m.sent {
		if msg.UserPhone == user {
			matched = append(matched, msg)
		}
	}
	return matched
}

// Clear drops all captured messages
func (m *MockProvider) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}
