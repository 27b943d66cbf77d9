package events

import (
	"errors"
	"sync"

	eventbus "github.com/asaskevich/EventBus"
	"go.uber.org/zap"
)

var errBusClosed = errors.New("event bus is closed")

// EventBus decouples the chatbot and scheduler from whoever reacts to the
// domain events they raise.
type EventBus interface {
	Publish(topic string, data interface{}) error
	Subscribe(topic string, handler interface{}) error
	Unsubscribe(topic string, handler interface{}) error
	Close() error
}

// eventBus wraps the reflection-based EventBus library. A handler is any
// func whose single parameter matches the published event type.
type eventBus struct {
	bus    eventbus.Bus
	logger *zap.Logger
	mu     sync.RWMutex
	closed bool
}

// NewEventBus creates a new event bus instance
func NewEventBus(logger *zap.Logger) EventBus {
	return &eventBus{
		bus:    eventbus.New(),
		logger: logger,
	}
}

func (eb *eventBus) Publish(topic string, data interface{}) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return errBusClosed
	}

	eb.logger.Debug("Publishing event",
		zap.String("topic", topic),
		zap.Any("data", data))

	eb.bus.Publish(topic, data)
	return nil
}

func (eb *eventBus) Subscribe(topic string, handler interface{}) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return errBusClosed
	}

	eb.logger.Debug("Subscribing to topic", zap.String("topic", topic))

	return eb.bus.Subscribe(topic, handler)
}

func (eb *eventBus) Unsubscribe(topic string, handler interface{}) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return errBusClosed
	}

	eb.logger.Debug("Unsubscribing from topic", zap.String("topic", topic))

	return eb.bus.Unsubscribe(topic, handler)
}

// Close rejects any further publishes and subscriptions. Close is final:
// a closed bus is never reopened.
func (eb *eventBus) Close() error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return nil
	}

	eb.logger.Info("Closing event bus")
	eb.closed = true

	return nil
}
