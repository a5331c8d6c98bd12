package shared

import "github.com/google/uuid"

// BaseAggregateRoot is an entity that raises domain events and carries a
// version for optimistic locking. Services publish the pending events after
// the change commits, then clear them.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// NewBaseAggregateRoot starts at version 1 with no pending events
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// IncrementVersion is called by every mutating method before it touches state
func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the events raised since the last clear
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.domainEvents }

func (a *BaseAggregateRoot) ClearDomainEvents() { a.domainEvents = nil }

// OwnedAggregateRoot is an aggregate owned by one seller account: invoices,
// company bills, settings. Every query against it is scoped by UserID.
type OwnedAggregateRoot struct {
	BaseAggregateRoot
	UserID uuid.UUID
}

func NewOwnedAggregateRoot(userID uuid.UUID) OwnedAggregateRoot {
	return OwnedAggregateRoot{BaseAggregateRoot: NewBaseAggregateRoot(), UserID: userID}
}

// OwnedBy reports whether the aggregate belongs to userID
func (a *OwnedAggregateRoot) OwnedBy(userID uuid.UUID) bool {
	return a.UserID == userID
}
