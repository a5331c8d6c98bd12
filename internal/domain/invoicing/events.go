package invoicing

import (
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types raised by the Invoice aggregate
const (
	EventTypeInvoiceIssued  = "InvoiceIssued"
	EventTypeInvoiceChanged = "InvoiceChanged"
	EventTypeInvoiceDeleted = "InvoiceDeleted"

	aggregateTypeInvoice = "Invoice"
)

// InvoiceIssuedEvent is raised when a new invoice receives its number
type InvoiceIssuedEvent struct {
	invoiceEventBase
	InvoiceDate  time.Time       `json:"invoice_date"`
	TotalWithGST decimal.Decimal `json:"total_with_gst"`
}

// NewInvoiceIssuedEvent creates a new InvoiceIssuedEvent
func NewInvoiceIssuedEvent(inv *Invoice) *InvoiceIssuedEvent {
	return &InvoiceIssuedEvent{
		invoiceEventBase: newInvoiceEventBase(EventTypeInvoiceIssued, inv),
		InvoiceDate:      inv.InvoiceDate,
		TotalWithGST:     inv.TotalWithGST,
	}
}

// InvoiceChangedEvent is raised when an invoice's editable fields change
type InvoiceChangedEvent struct {
	invoiceEventBase
	TotalWithGST decimal.Decimal `json:"total_with_gst"`
}

// NewInvoiceChangedEvent creates a new InvoiceChangedEvent
func NewInvoiceChangedEvent(inv *Invoice) *InvoiceChangedEvent {
	return &InvoiceChangedEvent{
		invoiceEventBase: newInvoiceEventBase(EventTypeInvoiceChanged, inv),
		TotalWithGST:     inv.TotalWithGST,
	}
}

// InvoiceDeletedEvent is raised when an invoice is removed
type InvoiceDeletedEvent struct {
	invoiceEventBase
}

// NewInvoiceDeletedEvent creates a new InvoiceDeletedEvent
func NewInvoiceDeletedEvent(inv *Invoice) *InvoiceDeletedEvent {
	return &InvoiceDeletedEvent{invoiceEventBase: newInvoiceEventBase(EventTypeInvoiceDeleted, inv)}
}

type invoiceEventBase struct {
	shared.BaseDomainEvent
	InvoiceNumber string    `json:"invoice_number"`
	BuyerKey      string    `json:"buyer_key"`
	InvoiceID     uuid.UUID `json:"invoice_id"`
}

func newInvoiceEventBase(eventType string, inv *Invoice) invoiceEventBase {
	return invoiceEventBase{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, aggregateTypeInvoice, inv.ID, inv.UserID),
		InvoiceNumber:   inv.InvoiceNumber,
		BuyerKey:        inv.BuyerKey(),
		InvoiceID:       inv.ID,
	}
}
