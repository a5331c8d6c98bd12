package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Cache keeps reconciled ledgers between requests. Entries are scoped to the
// owning user so a single change can drop all of them.
type Cache interface {
	// GetLedger returns nil, nil on a miss
	GetLedger(ctx context.Context, userID uuid.UUID, key string) (*Ledger, error)

	// SetLedger stores l under key
	SetLedger(ctx context.Context, userID uuid.UUID, key string, l *Ledger) error

	// InvalidateUser drops every cached ledger of userID
	InvalidateUser(ctx context.Context, userID uuid.UUID) error
}
