package events

import (
	"fmt"
	"sync"
	"time"
)

// MockEventBus provides an in-memory implementation of EventBus for testing
type MockEventBus struct {
	subscriptions   map[string][]interface{}
	publishedEvents map[string][]interface{}
	mutex           sync.RWMutex
	errors          []error
	synchronousMode bool
}

// NewMockEventBus creates a new MockEventBus instance
func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		subscriptions:   make(map[string][]interface{}),
		publishedEvents: make(map[string][]interface{}),
	}
}

// Subscribe implements the EventBus interface
func (m *MockEventBus) Subscribe(topic string, handler interface{}) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.subscriptions[topic] = append(m.subscriptions[topic], handler)
	return nil
}

// Unsubscribe implements the EventBus interface
func (m *MockEventBus) Unsubscribe(topic string, handler interface{}) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	handlers := m.subscriptions[topic]
	for i := len(handlers) - 1; i >= 0; i-- {
		if fmt.Sprintf("%p", handlers[i]) == fmt.Sprintf("%p", handler) {
			handlers = append(handlers[:i], handlers[i+1:]...)
		}
	}
	m.subscriptions[topic] = handlers
	return nil
}

// Publish implements the EventBus interface
func (m *MockEventBus) Publish(topic string, event interface{}) error {
	m.mutex.Lock()
	m.publishedEvents[topic] = append(m.publishedEvents[topic], event)
	handlers := make([]interface{}, len(m.subscriptions[topic]))
	copy(handlers, m.subscriptions[topic])
	m.mutex.Unlock()

	for _, handler := range handlers {
		if m.synchronousMode {
			m.invokeHandler(handler, event)
		} else {
			go m.invokeHandler(handler, event)
		}
	}
	return nil
}

// Close implements the EventBus interface
func (m *MockEventBus) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.subscriptions = make(map[string][]interface{})
	m.publishedEvents = make(map[string][]interface{})
	return nil
}

// SetSynchronousMode makes Publish invoke handlers inline, which keeps tests
// deterministic.
func (m *MockEventBus) SetSynchronousMode(enabled bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.synchronousMode = enabled
}

// GetPublishedEvents returns published events for a topic
func (m *MockEventBus) GetPublishedEvents(topic string) []interface{} {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	result := make([]interface{}, len(m.publishedEvents[topic]))
	copy(result, m.publishedEvents[topic])
	return result
}

// GetSubscriberCount returns the number of subscribers for a topic
func (m *MockEventBus) GetSubscriberCount(topic string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.subscriptions[topic])
}

// ClearEvents resets all published events
func (m *MockEventBus) ClearEvents() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.publishedEvents = make(map[string][]interface{})
}

// WaitForEvent polls until an event appears on the topic or the timeout expires
func (m *MockEventBus) WaitForEvent(topic string, timeout time.Duration) (interface{}, error) {
	deadline := time.Now().Add(timeout)
	for {
		events := m.GetPublishedEvents(topic)
		if len(events) > 0 {
			return events[len(events)-1], nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timeout waiting for event on topic %s", topic)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// invokeHandler safely invokes an event handler
func (m *MockEventBus) invokeHandler(handler interface{}, event interface{}) {
	defer func() {
		if r := recover(); r != nil {
			m.mutex.Lock()
			m.errors = append(m.errors, fmt.Errorf("handler panic: %v", r))
			m.mutex.Unlock()
		}
	}()

	invoked := false
	switch h := handler.(type) {
	case func(MessageReceived):
		if e, ok := event.(MessageReceived); ok {
			h(e)
			invoked = true
		}
	case func(MealLogged):
		if e, ok := event.(MealLogged); ok {
			h(e)
			invoked = true
		}
	case func(WaterLogged):
		if e, ok := event.(WaterLogged); ok {
			h(e)
			invoked = true
		}
	case func(ReminderSent):
		if e, ok := event.(ReminderSent); ok {
			h(e)
			invoked = true
		}
	case func(UserOnboarded):
		if e, ok := event.(UserOnboarded); ok {
			h(e)
			invoked = true
		}
	case func(interface{}):
		h(event)
		invoked = true
	}

	if !invoked {
		m.mutex.Lock()
		m.errors = append(m.errors, fmt.Errorf("type mismatch: handler does not match event type %T", event))
		m.mutex.Unlock()
	}
}
