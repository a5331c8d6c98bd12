package banking

import (
	"strings"
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanyBillInput carries the caller's fields for a deposit
type CompanyBillInput struct {
	CompanyName     string
	InvoiceNumber   string
	TransactionDate *time.Time
	Notice          string
	Amount          *decimal.Decimal
	PaymentMethod   string
	BankName        string
}

// CompanyBill is a deposit received against an invoice. InvoiceNumber keeps
// the reference as entered; InvoiceID is filled once the number resolves to
// one of the user's invoices.
type CompanyBill struct {
	shared.OwnedAggregateRoot
	CompanyName     string
	InvoiceNumber   string
	InvoiceID       *uuid.UUID
	TransactionDate time.Time
	Notice          string
	Amount          decimal.Decimal
	Settlement
}

// NewCompanyBill validates input and records a deposit
func NewCompanyBill(userID uuid.UUID, in CompanyBillInput) (*CompanyBill, error) {
	v := shared.NewValidationError()
	number := strings.TrimSpace(in.InvoiceNumber)
	if number == "" {
		v.Add("invoice_id", "This field is required.")
	}
	date := requireDate(v, "transaction_date", in.TransactionDate)
	amount := requirePositive(v, "amount", in.Amount)
	settlement := parseSettlement(v, in.PaymentMethod, in.BankName, false)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	bill := &CompanyBill{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		CompanyName:        strings.TrimSpace(in.CompanyName),
		InvoiceNumber:      number,
		TransactionDate:    date,
		Notice:             strings.TrimSpace(in.Notice),
		Amount:             amount,
		Settlement:         settlement,
	}
	bill.AddDomainEvent(NewDepositRecordedEvent(bill))
	return bill, nil
}

// LinkInvoice records the invoice the deposit was resolved to
func (b *CompanyBill) LinkInvoice(invoiceID uuid.UUID) {
	id := invoiceID
	b.InvoiceID = &id
}

// MarkDeleted raises the deletion event before the row is removed
func (b *CompanyBill) MarkDeleted() {
	b.AddDomainEvent(NewDepositDeletedEvent(b))
}
