package banking

import (
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types raised by CompanyBill
const (
	EventTypeDepositRecorded = "DepositRecorded"
	EventTypeDepositDeleted  = "DepositDeleted"

	aggregateTypeCompanyBill = "CompanyBill"
)

// DepositRecordedEvent is raised when a deposit against an invoice is stored
type DepositRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceID     *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewDepositRecordedEvent creates a new DepositRecordedEvent
func NewDepositRecordedEvent(b *CompanyBill) *DepositRecordedEvent {
	return &DepositRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDepositRecorded, aggregateTypeCompanyBill, b.ID, b.UserID),
		InvoiceNumber:   b.InvoiceNumber,
		InvoiceID:       b.InvoiceID,
		Amount:          b.Amount,
	}
}

// DepositDeletedEvent is raised when a deposit is removed
type DepositDeletedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
}

// NewDepositDeletedEvent creates a new DepositDeletedEvent
func NewDepositDeletedEvent(b *CompanyBill) *DepositDeletedEvent {
	return &DepositDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDepositDeleted, aggregateTypeCompanyBill, b.ID, b.UserID),
		InvoiceNumber:   b.InvoiceNumber,
	}
}
