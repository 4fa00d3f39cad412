package domain

import (
	"time"

	"github.com/google/uuid"
)

// AggregateRoot is an entity that records the domain events raised by its mutations.
type AggregateRoot interface {
	Entity
	DomainEvents() []DomainEvent
	PullDomainEvents() []DomainEvent
}

// BaseAggregateRoot provides event recording for aggregates.
type BaseAggregateRoot struct {
	BaseEntity
	domainEvents []DomainEvent
}

// NewBaseAggregateRoot creates a new aggregate root created at the given instant.
func NewBaseAggregateRoot(createdAt time.Time) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(createdAt)}
}

// RehydrateBaseAggregateRoot recreates an aggregate from persisted state with no pending events.
func RehydrateBaseAggregateRoot(id uuid.UUID, createdAt time.Time) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: RehydrateBaseEntity(id, createdAt)}
}

// DomainEvents returns the events recorded since the last pull.
func (a *BaseAggregateRoot) DomainEvents() []DomainEvent {
	return a.domainEvents
}

// PullDomainEvents returns the recorded events and clears them.
func (a *BaseAggregateRoot) PullDomainEvents() []DomainEvent {
	events := a.domainEvents
	a.domainEvents = nil
	return events
}

// AddDomainEvent records a domain event on the aggregate.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}
