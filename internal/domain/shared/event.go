package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an event that occurred in the domain
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// BaseDomainEvent provides common fields for all domain events
type BaseDomainEvent struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggID         uuid.UUID `json:"aggregate_id"`
	AggType       string    `json:"aggregate_type"`
	TenantIDValue uuid.UUID `json:"tenant_id"`
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type of the event
func (e *BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e *BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the ID of the aggregate that produced this event
func (e *BaseDomainEvent) AggregateID() uuid.UUID {
	return e.AggID
}

// AggregateType returns the type of the aggregate
func (e *BaseDomainEvent) AggregateType() string {
	return e.AggType
}

// TenantID returns the tenant ID
func (e *BaseDomainEvent) TenantID() uuid.UUID {
	return e.TenantIDValue
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType, aggType string, aggID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:            uuid.New(),
		Type:          eventType,
		Timestamp:     time.Now(),
		AggID:         aggID,
		AggType:       aggType,
		TenantIDValue: tenantID,
	}
}

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes a domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in.
	// An empty slice means the handler receives all events.
	EventTypes() []string
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber subscribes to domain events
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus combines publisher and subscriber capabilities
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
