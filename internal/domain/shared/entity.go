package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Touch bumps the update timestamp
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TenantEntity is a company-scoped entity carrying a version for optimistic locking
// and the domain events raised since it was loaded.
type TenantEntity struct {
	BaseEntity
	TenantID     uuid.UUID
	Version      int
	domainEvents []DomainEvent
}

// NewTenantEntity creates a new tenant-scoped entity
func NewTenantEntity(tenantID uuid.UUID) TenantEntity {
	return TenantEntity{
		BaseEntity: NewBaseEntity(),
		TenantID:   tenantID,
		Version:    1,
	}
}

// IncrementVersion increments the version number
func (e *TenantEntity) IncrementVersion() {
	e.Version++
}

// AddDomainEvent records a domain event to be published after commit
func (e *TenantEntity) AddDomainEvent(event DomainEvent) {
	e.domainEvents = append(e.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (e *TenantEntity) GetDomainEvents() []DomainEvent {
	return e.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (e *TenantEntity) ClearDomainEvents() {
	e.domainEvents = nil
}
