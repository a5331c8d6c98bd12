package invoicing

import (
	"errors"
	"testing"
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func createTestDraft() InvoiceDraft {
	d := date(2024, time.June, 15)
	return InvoiceDraft{
		Buyer:       Party{Name: " Acme Pvt Ltd ", Address: "Ahmedabad", GSTIN: "24abcde1234f1z5"},
		InvoiceDate: &d,
		State:       "Gujarat",
		BaseAmount:  decPtr("1000"),
	}.Normalize()
}

func createTestInvoice(t *testing.T, draft InvoiceDraft) *Invoice {
	t.Helper()
	fy := ResolveFinancialYear(*draft.InvoiceDate)
	inv, err := NewInvoice(uuid.New(), fy, 1, draft, NewPricer())
	require.NoError(t, err)
	return inv
}

// ============ Draft Tests ============

func TestInvoiceDraft_Normalize(t *testing.T) {
	d := InvoiceDraft{Currency: " usd ", Buyer: Party{GSTIN: " 24abc "}}.Normalize()
	assert.Equal(t, "India", d.Country)
	assert.Equal(t, "USD", d.Currency)
	assert.Equal(t, DefaultParticulars, d.Particulars)
	assert.Equal(t, "24ABC", d.Buyer.GSTIN)

	empty := InvoiceDraft{}.Normalize()
	assert.Equal(t, "INR", empty.Currency)
}

func TestInvoiceDraft_Validate(t *testing.T) {
	calc := NewGSTCalculator()

	tests := []struct {
		name   string
		mutate func(d *InvoiceDraft)
		fields []string
	}{
		{"valid", func(d *InvoiceDraft) {}, nil},
		{"missing buyer name", func(d *InvoiceDraft) { d.Buyer.Name = "" }, []string{"buyer_name"}},
		{"missing buyer address", func(d *InvoiceDraft) { d.Buyer.Address = "" }, []string{"buyer_address"}},
		{"missing invoice date", func(d *InvoiceDraft) { d.InvoiceDate = nil }, []string{"invoice_date"}},
		{"missing state in india", func(d *InvoiceDraft) { d.State = "" }, []string{"state"}},
		{"state optional abroad", func(d *InvoiceDraft) { d.State = ""; d.Country = "USA" }, nil},
		{"bad currency", func(d *InvoiceDraft) { d.Currency = "DOLLAR" }, []string{"currency"}},
		{"negative rate", func(d *InvoiceDraft) { d.ExchangeRate = decPtr("-1") }, []string{"exchange_rate"}},
		{"no amount at all", func(d *InvoiceDraft) { d.BaseAmount = nil }, []string{"base_amount"}},
		{"zero amount", func(d *InvoiceDraft) { d.BaseAmount = decPtr("0") }, []string{"base_amount"}},
		{"hours without rate", func(d *InvoiceDraft) {
			d.BaseAmount = nil
			d.TotalHours = decPtr("10")
		}, []string{"base_amount"}},
		{"rate and hours", func(d *InvoiceDraft) {
			d.BaseAmount = nil
			d.TotalHours = decPtr("10")
			d.Rate = decPtr("100")
		}, nil},
		{"several fields", func(d *InvoiceDraft) {
			d.Buyer = Party{}
			d.InvoiceDate = nil
		}, []string{"buyer_address", "buyer_name", "invoice_date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := createTestDraft()
			tt.mutate(&d)
			err := d.Validate(calc)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verr *shared.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.fields, verr.FieldNames())
		})
	}
}

func TestInvoiceDraft_Validate_BaseAmountMessage(t *testing.T) {
	d := createTestDraft()
	d.BaseAmount = nil
	err := d.Validate(NewGSTCalculator())

	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Either provide rate and hours, or directly enter the base amount.", verr.Fields["base_amount"])
}

func TestInvoiceDraft_DeriveBaseAmount(t *testing.T) {
	d := InvoiceDraft{Rate: decPtr("125.5"), TotalHours: decPtr("8")}
	assertDecimal(t, "1004", d.DeriveBaseAmount())

	d.BaseAmount = decPtr("900")
	assertDecimal(t, "900", d.DeriveBaseAmount(), "explicit base wins")

	assert.True(t, InvoiceDraft{}.DeriveBaseAmount().IsZero())
}

// ============ Invoice Creation Tests ============

func TestNewInvoice(t *testing.T) {
	inv := createTestInvoice(t, createTestDraft())

	assert.Equal(t, "01-2024/2025", inv.InvoiceNumber)
	assert.Equal(t, "2024/2025", inv.FinancialYear.String())
	assert.Equal(t, "Acme Pvt Ltd", inv.Buyer.Name)
	assertDecimal(t, "1000", inv.BaseAmount)
	assertDecimal(t, "90", inv.CGST)
	assertDecimal(t, "90", inv.SGST)
	assertDecimal(t, "0", inv.IGST)
	assertDecimal(t, "180", inv.TaxTotal)
	assertDecimal(t, "1180", inv.TotalWithGST)
	assertDecimal(t, "1180", inv.INREquivalent)
	assert.Equal(t, "Rupees One Thousand One Hundred Eighty Only", inv.AmountInWords)
	assert.Equal(t, valueobject.INR, inv.Currency)
	assert.Equal(t, 1, inv.GetVersion())

	events := inv.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeInvoiceIssued, events[0].EventType())
	assert.Equal(t, inv.ID, events[0].AggregateID())
	assert.Equal(t, inv.UserID, events[0].UserID())
}

func TestNewInvoice_RejectsBadAllocation(t *testing.T) {
	draft := createTestDraft()
	fy := NewFinancialYear(2024)

	_, err := NewInvoice(uuid.Nil, fy, 1, draft, NewPricer())
	assert.Error(t, err)

	_, err = NewInvoice(uuid.New(), fy, 0, draft, NewPricer())
	assert.Error(t, err)

	_, err = NewInvoice(uuid.New(), FinancialYear{}, 1, draft, NewPricer())
	assert.Error(t, err)
}

func TestNewInvoice_InterState(t *testing.T) {
	draft := createTestDraft()
	draft.State = "Maharashtra"
	inv := createTestInvoice(t, draft)

	assertDecimal(t, "0", inv.CGST)
	assertDecimal(t, "180", inv.IGST)
	assertDecimal(t, "1180", inv.TotalWithGST)
}

func TestNewInvoice_ForeignCurrency(t *testing.T) {
	draft := createTestDraft()
	draft.Country = "USA"
	draft.State = ""
	draft.Currency = "USD"
	draft.BaseAmount = decPtr("1180")
	draft.ExchangeRate = decPtr("83")
	inv := createTestInvoice(t, draft)

	assertDecimal(t, "0", inv.TaxTotal)
	assertDecimal(t, "1180", inv.TotalWithGST)
	assertDecimal(t, "97940", inv.INREquivalent)
	assertDecimal(t, "83", inv.ExchangeRate)
	assert.False(t, inv.RateDefaulted())
	assert.Equal(t, "USD One Thousand One Hundred Eighty Only", inv.AmountInWords)
}

func TestNewInvoice_ForeignCurrencyWithoutRate(t *testing.T) {
	draft := createTestDraft()
	draft.Country = "UK"
	draft.Currency = "GBP"
	inv := createTestInvoice(t, draft)

	assertDecimal(t, "1000", inv.INREquivalent)
	assertDecimal(t, "1", inv.ExchangeRate)
	assert.True(t, inv.RateDefaulted())
}

func TestNewInvoice_HomeCurrencyKeepsGivenRate(t *testing.T) {
	draft := createTestDraft()
	draft.ExchangeRate = decPtr("75")
	inv := createTestInvoice(t, draft)

	assertDecimal(t, "1180", inv.INREquivalent)
	assertDecimal(t, "75", inv.ExchangeRate)
}

// ============ Invoice Update Tests ============

func TestInvoice_Update(t *testing.T) {
	inv := createTestInvoice(t, createTestDraft())
	number := inv.InvoiceNumber
	inv.ClearDomainEvents()

	draft := inv.Draft()
	draft.BaseAmount = decPtr("2000")
	later := date(2025, time.February, 1)
	draft.InvoiceDate = &later
	inv.Update(draft, NewPricer())

	assert.Equal(t, number, inv.InvoiceNumber, "number is never reassigned")
	assert.Equal(t, "2024/2025", inv.FinancialYear.String())
	assertDecimal(t, "2360", inv.TotalWithGST)
	assert.Equal(t, later, inv.InvoiceDate)

	events := inv.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeInvoiceChanged, events[0].EventType())
}

func TestInvoice_DraftRoundTrip(t *testing.T) {
	inv := createTestInvoice(t, createTestDraft())
	before := inv.TotalWithGST

	inv.Update(inv.Draft(), NewPricer())
	assert.True(t, before.Equal(inv.TotalWithGST))
	assertDecimal(t, "90", inv.CGST)
}

func TestInvoice_UpdateExchangeRate(t *testing.T) {
	tests := []struct {
		name          string
		start         func(d *InvoiceDraft)
		edit          func(d *InvoiceDraft)
		wantRate      string
		wantINR       string
		wantDefaulted bool
	}{
		{
			name:  "home invoice switched to a foreign currency without a rate",
			start: func(d *InvoiceDraft) {},
			edit: func(d *InvoiceDraft) {
				d.Country, d.State, d.Currency = "USA", "", "USD"
			},
			wantRate:      "1",
			wantINR:       "1000",
			wantDefaulted: true,
		},
		{
			name: "defaulted foreign rate stays flagged on a later edit",
			start: func(d *InvoiceDraft) {
				d.Country, d.State, d.Currency = "UK", "", "GBP"
			},
			edit:          func(d *InvoiceDraft) { d.Remark = "resent" },
			wantRate:      "1",
			wantINR:       "1000",
			wantDefaulted: true,
		},
		{
			name: "entered foreign rate is kept",
			start: func(d *InvoiceDraft) {
				d.Country, d.State, d.Currency = "USA", "", "USD"
				d.ExchangeRate = decPtr("83")
			},
			edit:     func(d *InvoiceDraft) { d.Remark = "resent" },
			wantRate: "83",
			wantINR:  "83000",
		},
		{
			name: "rate supplied on the edit",
			start: func(d *InvoiceDraft) {
				d.Country, d.State, d.Currency = "UK", "", "GBP"
			},
			edit:     func(d *InvoiceDraft) { d.ExchangeRate = decPtr("105") },
			wantRate: "105",
			wantINR:  "105000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := createTestDraft()
			tt.start(&start)
			inv := createTestInvoice(t, start)

			stored := *inv
			stored.rateDefaulted = false

			draft := stored.Draft()
			tt.edit(&draft)
			stored.Update(draft.Normalize(), NewPricer())

			assertDecimal(t, tt.wantRate, stored.ExchangeRate)
			assertDecimal(t, tt.wantINR, stored.INREquivalent)
			assert.Equal(t, tt.wantDefaulted, stored.RateDefaulted())
		})
	}
}

func TestInvoice_DraftOmitsFilledInRate(t *testing.T) {
	inv := createTestInvoice(t, createTestDraft())
	assertDecimal(t, "1", inv.ExchangeRate)
	assert.False(t, inv.RateSupplied)
	assert.Nil(t, inv.Draft().ExchangeRate)

	draft := createTestDraft()
	draft.ExchangeRate = decPtr("75")
	inv = createTestInvoice(t, draft)
	assert.True(t, inv.RateSupplied)
	require.NotNil(t, inv.Draft().ExchangeRate)
	assertDecimal(t, "75", *inv.Draft().ExchangeRate)
}

func TestInvoice_MarkDeleted(t *testing.T) {
	inv := createTestInvoice(t, createTestDraft())
	inv.ClearDomainEvents()
	inv.MarkDeleted()

	events := inv.GetDomainEvents()
	require.Len(t, events, 1)
	deleted, ok := events[0].(*InvoiceDeletedEvent)
	require.True(t, ok)
	assert.Equal(t, "01-2024/2025", deleted.InvoiceNumber)
	assert.Equal(t, "24ABCDE1234F1Z5", deleted.BuyerKey)
}

func TestInvoice_BuyerKey(t *testing.T) {
	inv := &Invoice{Buyer: Party{Name: "Acme"}}
	assert.Equal(t, "Acme", inv.BuyerKey())
	inv.Buyer.GSTIN = "24X"
	assert.Equal(t, "24X", inv.BuyerKey())
}
