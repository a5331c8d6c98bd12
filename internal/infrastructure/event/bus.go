// Package event dispatches domain events to in-process handlers.
//
// Handlers run synchronously on the publishing goroutine, after the change
// that raised the event has been committed. A failing or panicking handler is
// logged and never fails the publisher: handlers only maintain derived state
// such as cached balances.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/infrastructure/logger"
	"github.com/billbook/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrBusStopped is returned by Publish after Stop
var ErrBusStopped = errors.New("event bus stopped")

// InMemoryEventBus implements shared.EventBus with synchronous dispatch
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	stopped  atomic.Bool
	inflight sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

// Publish hands every event to its handlers, in order
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.stopped.Load() {
		return ErrBusStopped
	}
	b.inflight.Add(1)
	defer b.inflight.Done()

	for _, event := range events {
		b.publishOne(ctx, event)
	}
	return nil
}

func (b *InMemoryEventBus) publishOne(ctx context.Context, event shared.DomainEvent) {
	handlers := b.registry.GetHandlers(event.EventType())
	if len(handlers) == 0 {
		return
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "event", event.EventType(),
		telemetry.SpanAttrUserID, event.UserID(),
		"aggregate_id", event.AggregateID(),
		"handlers", len(handlers),
	)
	defer span.End()

	log := logger.L(ctx).With(
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
	)
	for _, handler := range handlers {
		if err := b.dispatch(ctx, handler, event); err != nil {
			telemetry.RecordError(span, err)
			log.Error("event handler failed", zap.Error(err))
		}
	}
}

// Subscribe registers a handler. Without explicit types the handler's own
// EventTypes are used; if those are empty too, it receives every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start marks the bus ready
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.stopped.Store(false)
	b.logger.Info("event bus started", zap.Int("handlers", b.registry.Len()))
	return nil
}

// Stop rejects new publishes and waits for running dispatches, or for ctx
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.stopped.Store(true)

	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus stop: %w", ctx.Err())
	}
}

// dispatch runs one handler, turning a panic into an error
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

// Ensure InMemoryEventBus implements EventBus
var _ shared.EventBus = (*InMemoryEventBus)(nil)
