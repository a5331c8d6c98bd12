package models

import (
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity. IDs are stored as char(36) so the same
// tags migrate on postgres, mysql and sqlite.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// OwnedModel adds the owning user to BaseModel
type OwnedModel struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:char(36);not null;index"`
}

// FromDomainOwnedEntity populates OwnedModel from a domain OwnedEntity
func (m *OwnedModel) FromDomainOwnedEntity(e shared.OwnedEntity) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.UserID = e.UserID
}

// Owner returns the owning user
func (m *OwnedModel) Owner() uuid.UUID {
	return m.UserID
}

// ToOwnedEntity converts OwnedModel to a domain OwnedEntity
func (m *OwnedModel) ToOwnedEntity() shared.OwnedEntity {
	return shared.OwnedEntity{BaseEntity: m.BaseModel.ToDomain(), UserID: m.UserID}
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToAggregateRoot converts AggregateModel to a domain BaseAggregateRoot
func (m *AggregateModel) ToAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain(), Version: m.Version}
}

// OwnedAggregateModel provides common persistence fields for user-owned
// aggregate roots.
type OwnedAggregateModel struct {
	AggregateModel
	UserID uuid.UUID `gorm:"type:char(36);not null;index"`
}

// FromDomainOwnedAggregateRoot populates OwnedAggregateModel from domain OwnedAggregateRoot
func (m *OwnedAggregateModel) FromDomainOwnedAggregateRoot(a shared.OwnedAggregateRoot) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.UserID = a.UserID
}

// Owner returns the owning user
func (m *OwnedAggregateModel) Owner() uuid.UUID {
	return m.UserID
}

// ToOwnedAggregateRoot converts OwnedAggregateModel to a domain OwnedAggregateRoot
func (m *OwnedAggregateModel) ToOwnedAggregateRoot() shared.OwnedAggregateRoot {
	return shared.OwnedAggregateRoot{BaseAggregateRoot: m.ToAggregateRoot(), UserID: m.UserID}
}

func calendarDatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := shared.CalendarDate(*t)
	return &d
}
