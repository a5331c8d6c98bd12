// Package treasury tracks the balances a user holds in bank accounts and
// cash. Records are soft deleted and can be restored or purged.
package treasury

import (
	"time"

	"github.com/billbook/backend/internal/domain/shared"
)

var (
	ErrAlreadyDeleted = shared.NewDomainError("ALREADY_DELETED", "Record is already deleted")
	ErrNotDeleted     = shared.NewDomainError("NOT_DELETED", "Record is not deleted")
)

// Trash is the soft delete state shared by treasury records
type Trash struct {
	IsDeleted bool
	DeletedAt *time.Time
}

// SoftDelete moves the record to the trash
func (t *Trash) SoftDelete(now time.Time) error {
	if t.IsDeleted {
		return ErrAlreadyDeleted
	}
	t.IsDeleted = true
	t.DeletedAt = &now
	return nil
}

// Restore takes the record out of the trash
func (t *Trash) Restore() error {
	if !t.IsDeleted {
		return ErrNotDeleted
	}
	t.IsDeleted = false
	t.DeletedAt = nil
	return nil
}
