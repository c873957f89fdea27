package event

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/shared"
)

// InMemoryEventBus dispatches domain events to registered handlers
// synchronously, in the caller's goroutine. Handler errors are logged and
// swallowed so a failing subscriber never propagates into the publishing
// flow (a lost notification must not fail an already-committed order).
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler // eventType -> handlers
	wildcard []shared.EventHandler            // handlers for all events
	logger   *zap.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the event types it declares.
// Explicit eventTypes override the handler's own declaration; a handler
// declaring no types receives all events.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, handler)
	} else {
		for _, eventType := range eventTypes {
			b.handlers[eventType] = append(b.handlers[eventType], handler)
		}
	}

	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Publish dispatches events to all matching handlers synchronously
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		for _, handler := range b.handlersFor(evt.EventType()) {
			if err := b.dispatch(ctx, handler, evt); err != nil {
				b.logger.Error("event handler failed",
					zap.String("event_type", evt.EventType()),
					zap.String("event_id", evt.EventID().String()),
					zap.String("aggregate_id", evt.AggregateID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	typed := b.handlers[eventType]
	result := make([]shared.EventHandler, 0, len(typed)+len(b.wildcard))
	result = append(result, typed...)
	result = append(result, b.wildcard...)
	return result
}

// dispatch isolates handler panics so one subscriber cannot take down the bus
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", evt.EventType()),
				zap.Any("panic", r),
				zap.Stack("stacktrace"),
			)
		}
	}()
	return handler.Handle(ctx, evt)
}

var _ shared.EventPublisher = (*InMemoryEventBus)(nil)
