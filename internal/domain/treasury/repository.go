package treasury

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists soft-deletable treasury records. The deleted flag
// selects between live records and the trash.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID, deleted bool) (*T, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, deleted bool) ([]T, error)

	// Purge removes a trashed record for good
	Purge(ctx context.Context, userID, id uuid.UUID) error
}

// BankAccountRepository persists bank accounts
type BankAccountRepository = Repository[BankAccount]

// CashEntryRepository persists cash entries
type CashEntryRepository = Repository[CashEntry]
