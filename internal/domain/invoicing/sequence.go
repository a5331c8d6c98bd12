package invoicing

import (
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceSequence is the per-(user, financial year) invoice counter.
// LastValue is the sequence of the most recently issued invoice.
type InvoiceSequence struct {
	shared.BaseEntity
	UserID        uuid.UUID
	FinancialYear FinancialYear
	LastValue     int
}

// NewInvoiceSequence creates a counter that continues after seed
func NewInvoiceSequence(userID uuid.UUID, fy FinancialYear, seed int) *InvoiceSequence {
	if seed < 0 {
		seed = 0
	}
	return &InvoiceSequence{
		BaseEntity:    shared.NewBaseEntity(),
		UserID:        userID,
		FinancialYear: fy,
		LastValue:     seed,
	}
}

// Peek returns the sequence the next call to Next would hand out
func (s *InvoiceSequence) Peek() int {
	return s.LastValue + 1
}

// Next advances the counter and returns the new sequence
func (s *InvoiceSequence) Next() int {
	s.LastValue++
	s.Touch()
	return s.LastValue
}

// CatchUp moves the counter forward to at least highest. Used when invoices
// were written without going through the counter.
func (s *InvoiceSequence) CatchUp(highest int) {
	if highest > s.LastValue {
		s.LastValue = highest
	}
}
