package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and audit timestamps every stored record has
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity stamps a fresh id and creation time
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch records a modification
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// OwnedEntity is a record that belongs to exactly one seller account, such as
// a bank deposit or a salary payment. Repositories never return it to any
// other account.
type OwnedEntity struct {
	BaseEntity
	UserID uuid.UUID
}

func NewOwnedEntity(userID uuid.UUID) OwnedEntity {
	return OwnedEntity{BaseEntity: NewBaseEntity(), UserID: userID}
}

// OwnedBy reports whether the record belongs to userID
func (e *OwnedEntity) OwnedBy(userID uuid.UUID) bool {
	return e.UserID == userID
}
