package invoicing

import (
	"context"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrAllocationConflict is returned when two writers claimed the same
// invoice number; the caller should allocate again.
var ErrAllocationConflict = shared.NewDomainError("ALLOCATION_CONFLICT", "Invoice number was taken by a concurrent request")

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	FinancialYear string
	BuyerGSTIN    string
	BuyerName     string
}

// InvoiceRepository defines the persistence contract for invoices.
// Every query is scoped to the owning user.
type InvoiceRepository interface {
	// FindByIDForUser returns ErrNotFound when the invoice does not exist or
	// belongs to another user
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its formatted number
	FindByNumber(ctx context.Context, userID uuid.UUID, invoiceNumber string) (*Invoice, error)

	// FindAllForUser lists invoices ordered by financial year then sequence
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)

	// CountForUser counts invoices matching the filter
	CountForUser(ctx context.Context, userID uuid.UUID, filter InvoiceFilter) (int64, error)

	// FindByBuyerGSTIN lists a buyer's invoices ordered by invoice date ascending
	FindByBuyerGSTIN(ctx context.Context, userID uuid.UUID, gstin string) ([]Invoice, error)

	// FindByBuyerName lists a buyer's invoices ordered by invoice date ascending
	FindByBuyerName(ctx context.Context, userID uuid.UUID, name string) ([]Invoice, error)

	// SaveWithLock updates an existing invoice with optimistic locking.
	// Returns ErrConcurrencyConflict if the version does not match.
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// DeleteForUser removes an invoice
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error
}

// NumberAllocator hands out invoice sequences from the per-(user, financial
// year) counter. Implementations serialise allocation for the same counter.
type NumberAllocator interface {
	// Allocate consumes and returns the next sequence
	Allocate(ctx context.Context, userID uuid.UUID, fy FinancialYear) (int, error)

	// Issue allocates the next sequence, builds the invoice with it and stores
	// the invoice in the same transaction, so a failed insert leaves no gap.
	// A duplicate number surfaces as ErrAllocationConflict.
	Issue(ctx context.Context, userID uuid.UUID, fy FinancialYear, build func(sequence int) (*Invoice, error)) (*Invoice, error)

	// PeekNext returns the sequence the next allocation would return without
	// consuming it
	PeekNext(ctx context.Context, userID uuid.UUID, fy FinancialYear) (int, error)
}
