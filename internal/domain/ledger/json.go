package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger amounts go over the wire with two decimals ("1180.00") and dates
// as calendar days ("2024-06-15"), the way they are printed on invoices.
// Decoding accepts the same form so cached ledgers read back unchanged.

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func moneyPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := money(*d)
	return &s
}

func parseDay(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(shared.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("ledger: invalid %s %q: %w", field, value, err)
	}
	return t, nil
}

type entryJSON struct {
	Date        string           `json:"date"`
	Type        EntryType        `json:"type"`
	Description string           `json:"description"`
	Debit       *decimal.Decimal `json:"debit"`
	Credit      *decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal  `json:"balance"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date        string    `json:"date"`
		Type        EntryType `json:"type"`
		Description string    `json:"description"`
		Debit       *string   `json:"debit"`
		Credit      *string   `json:"credit"`
		Balance     string    `json:"balance"`
	}{
		Date:        shared.FormatDate(e.Date),
		Type:        e.Type,
		Description: e.Description,
		Debit:       moneyPtr(e.Debit),
		Credit:      moneyPtr(e.Credit),
		Balance:     money(e.Balance),
	})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := parseDay("date", raw.Date)
	if err != nil {
		return err
	}
	*e = Entry{
		Date:        date,
		Type:        raw.Type,
		Description: raw.Description,
		Debit:       raw.Debit,
		Credit:      raw.Credit,
		Balance:     raw.Balance,
	}
	return nil
}

type invoiceBalanceJSON struct {
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	InvoiceDate   string    `json:"invoice_date"`
}

func (b InvoiceBalance) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		invoiceBalanceJSON
		Total     string `json:"total_with_gst"`
		Deposited string `json:"deposited"`
		Remaining string `json:"remaining_balance"`
	}{
		invoiceBalanceJSON: invoiceBalanceJSON{
			InvoiceID:     b.InvoiceID,
			InvoiceNumber: b.InvoiceNumber,
			InvoiceDate:   shared.FormatDate(b.InvoiceDate),
		},
		Total:     money(b.Total),
		Deposited: money(b.Deposited),
		Remaining: money(b.Remaining),
	})
}

func (b *InvoiceBalance) UnmarshalJSON(data []byte) error {
	var raw struct {
		invoiceBalanceJSON
		Total     decimal.Decimal `json:"total_with_gst"`
		Deposited decimal.Decimal `json:"deposited"`
		Remaining decimal.Decimal `json:"remaining_balance"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := parseDay("invoice_date", raw.InvoiceDate)
	if err != nil {
		return err
	}
	*b = InvoiceBalance{
		InvoiceID:     raw.InvoiceID,
		InvoiceNumber: raw.InvoiceNumber,
		InvoiceDate:   date,
		Total:         raw.Total,
		Deposited:     raw.Deposited,
		Remaining:     raw.Remaining,
	}
	return nil
}

// Ledger, BuyerBalance and Summary only override their totals; the
// shallower fields shadow the embedded ones when encoding.

func (l Ledger) MarshalJSON() ([]byte, error) {
	type plain Ledger
	return json.Marshal(struct {
		plain
		TotalInvoiceAmount    string `json:"total_invoice_amount"`
		TotalDepositAmount    string `json:"total_deposit_amount"`
		TotalRemainingBalance string `json:"total_remaining_balance"`
	}{
		plain:                 plain(l),
		TotalInvoiceAmount:    money(l.TotalInvoiceAmount),
		TotalDepositAmount:    money(l.TotalDepositAmount),
		TotalRemainingBalance: money(l.TotalRemainingBalance),
	})
}

func (b BuyerBalance) MarshalJSON() ([]byte, error) {
	type plain BuyerBalance
	return json.Marshal(struct {
		plain
		TotalInvoiceAmount string `json:"total_invoice_amount"`
		TotalDepositAmount string `json:"total_deposit_amount"`
		RemainingBalance   string `json:"remaining_balance"`
	}{
		plain:              plain(b),
		TotalInvoiceAmount: money(b.TotalInvoiceAmount),
		TotalDepositAmount: money(b.TotalDepositAmount),
		RemainingBalance:   money(b.RemainingBalance),
	})
}

func (s Summary) MarshalJSON() ([]byte, error) {
	type plain Summary
	return json.Marshal(struct {
		plain
		TotalRemainingBalance string `json:"total_remaining_balance"`
	}{
		plain:                 plain(s),
		TotalRemainingBalance: money(s.TotalRemainingBalance),
	})
}
