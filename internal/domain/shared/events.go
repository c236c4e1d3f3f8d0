package shared

import (
	"context"
	"strings"
	"time"
)

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// UserScopedEvent is an event that belongs to exactly one user.
type UserScopedEvent interface {
	DomainEvent
	OwnerID() uint
}

// EventPublisher delivers domain events after the state change has been
// persisted. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent)
}

// AggregateRoot is the base type for aggregate roots
type AggregateRoot struct {
	events []DomainEvent
}

// AddEvent adds a domain event to be dispatched
func (a *AggregateRoot) AddEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// Events returns and clears pending domain events
func (a *AggregateRoot) Events() []DomainEvent {
	events := a.events
	a.events = nil
	return events
}

// NormalizeIngredient is the canonical form used for every ingredient name
// stored on a recipe or in a pantry.
func NormalizeIngredient(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
