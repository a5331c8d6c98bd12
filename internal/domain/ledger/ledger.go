// Package ledger computes running balances of invoices against the deposits
// recorded for them.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType distinguishes debit and credit lines of a ledger
type EntryType string

const (
	EntryTypeInvoice EntryType = "invoice"
	EntryTypeDeposit EntryType = "deposit"
)

// DefaultDepositDescription labels deposits recorded without a notice
const DefaultDepositDescription = "Deposit"

// InvoiceSnapshot is the part of an invoice the reconciler needs
type InvoiceSnapshot struct {
	ID            uuid.UUID
	InvoiceNumber string
	InvoiceDate   time.Time
	BuyerName     string
	BuyerGSTIN    string
	TotalWithGST  decimal.Decimal
}

// BuyerKey is the GSTIN when present, otherwise the buyer name
func (s InvoiceSnapshot) BuyerKey() string {
	if s.BuyerGSTIN != "" {
		return s.BuyerGSTIN
	}
	return s.BuyerName
}

// Deposit is a payment received against an invoice. InvoiceID is set when the
// payment was linked to a stored invoice; older rows only carry the number.
type Deposit struct {
	ID            uuid.UUID
	InvoiceID     *uuid.UUID
	InvoiceNumber string
	Date          time.Time
	Notice        string
	Amount        decimal.Decimal
}

// Matches reports whether the deposit was recorded against inv
func (d Deposit) Matches(inv InvoiceSnapshot) bool {
	if d.InvoiceID != nil && *d.InvoiceID != uuid.Nil {
		return *d.InvoiceID == inv.ID
	}
	return d.InvoiceNumber != "" && d.InvoiceNumber == inv.InvoiceNumber
}

// Entry is one line of a ledger. Exactly one of Debit and Credit is set.
type Entry struct {
	Date        time.Time        `json:"date"`
	Type        EntryType        `json:"type"`
	Description string           `json:"description"`
	Debit       *decimal.Decimal `json:"debit"`
	Credit      *decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal  `json:"balance"`
}

// InvoiceBalance is the outstanding amount of a single invoice
type InvoiceBalance struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	Total         decimal.Decimal `json:"total_with_gst"`
	Deposited     decimal.Decimal `json:"deposited"`
	Remaining     decimal.Decimal `json:"remaining_balance"`
}

// Ledger is the reconciled history of one buyer
type Ledger struct {
	BuyerKey              string           `json:"buyer_key"`
	BuyerName             string           `json:"buyer_name"`
	Entries               []Entry          `json:"transactions"`
	Invoices              []InvoiceBalance `json:"invoices"`
	TotalInvoiceAmount    decimal.Decimal  `json:"total_invoice_amount"`
	TotalDepositAmount    decimal.Decimal  `json:"total_deposit_amount"`
	TotalRemainingBalance decimal.Decimal  `json:"total_remaining_balance"`
}

// IsEmpty reports whether no invoice was reconciled
func (l *Ledger) IsEmpty() bool {
	return len(l.Invoices) == 0
}

// Balances returns the running balance after every entry, in order
func (l *Ledger) Balances() []decimal.Decimal {
	out := make([]decimal.Decimal, len(l.Entries))
	for i, e := range l.Entries {
		out[i] = e.Balance
	}
	return out
}
