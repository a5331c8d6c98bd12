package shared

import "context"

// EventHandler reacts to published domain events, e.g. by dropping cached
// ledger balances. Handlers see the event after its change has committed.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types to receive. Empty means all of them.
	EventTypes() []string
}

// EventPublisher is what application services depend on. A nil publisher is
// allowed and means nobody listens.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is the process-wide dispatcher wired at startup
type EventBus interface {
	EventPublisher
	// Subscribe registers handler for eventTypes, defaulting to the
	// handler's own EventTypes.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
