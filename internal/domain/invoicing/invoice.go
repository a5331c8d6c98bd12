package invoicing

import (
	"strings"
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Defaults applied to new invoices when the caller leaves a field empty
const (
	DefaultParticulars = "Consultancy"
)

// Party identifies a buyer or consignee on an invoice
type Party struct {
	Name    string
	Address string
	GSTIN   string
}

// IsEmpty reports whether no party field is set
func (p Party) IsEmpty() bool {
	return p.Name == "" && p.Address == "" && p.GSTIN == ""
}

func (p Party) normalized() Party {
	return Party{
		Name:    strings.TrimSpace(p.Name),
		Address: strings.TrimSpace(p.Address),
		GSTIN:   strings.ToUpper(strings.TrimSpace(p.GSTIN)),
	}
}

// InvoiceDraft carries caller-supplied invoice fields. Invoice number and
// financial year are never part of a draft: both are derived.
type InvoiceDraft struct {
	Buyer            Party
	Consignee        Party
	InvoiceDate      *time.Time
	DeliveryNote     string
	DeliveryNoteDate *time.Time
	PaymentMode      string
	Destination      string
	TermsOfDelivery  string
	Country          string
	Currency         string
	State            string
	Particulars      string
	HSNSACCode       string
	TotalHours       *decimal.Decimal
	Rate             *decimal.Decimal
	BaseAmount       *decimal.Decimal
	ExchangeRate     *decimal.Decimal
	Remark           string
	CountryFlag      string
}

// Normalize trims text fields and fills defaults for country, currency and
// particulars.
func (d InvoiceDraft) Normalize() InvoiceDraft {
	d.Buyer = d.Buyer.normalized()
	d.Consignee = d.Consignee.normalized()
	d.Country = strings.TrimSpace(d.Country)
	if d.Country == "" {
		d.Country = DefaultHomeCountry
	}
	d.State = strings.TrimSpace(d.State)
	d.Currency = strings.ToUpper(strings.TrimSpace(d.Currency))
	if d.Currency == "" {
		d.Currency = string(valueobject.DefaultCurrency)
	}
	d.Particulars = strings.TrimSpace(d.Particulars)
	if d.Particulars == "" {
		d.Particulars = DefaultParticulars
	}
	d.HSNSACCode = strings.TrimSpace(d.HSNSACCode)
	return d
}

// Validate checks required fields and the base amount rule. The draft should
// be normalized first. The returned error is a *shared.ValidationError.
func (d InvoiceDraft) Validate(calc GSTCalculator) error {
	v := shared.NewValidationError()

	if d.Buyer.Name == "" {
		v.Add("buyer_name", "This field is required.")
	}
	if d.Buyer.Address == "" {
		v.Add("buyer_address", "This field is required.")
	}
	if d.InvoiceDate == nil || d.InvoiceDate.IsZero() {
		v.Add("invoice_date", "This field is required.")
	}
	if calc.IsHomeCountry(d.Country) && d.State == "" {
		v.Add("state", "State is required for invoices within "+calc.HomeCountry+".")
	}
	if _, err := valueobject.ParseCurrency(d.Currency); err != nil {
		v.Add("currency", "Invalid currency code.")
	}

	checkNonNegative(v, "base_amount", d.BaseAmount)
	checkNonNegative(v, "rate", d.Rate)
	checkNonNegative(v, "total_hours", d.TotalHours)
	checkNonNegative(v, "exchange_rate", d.ExchangeRate)

	if !d.hasBaseAmount() && !d.hasRateAndHours() {
		v.Add("base_amount", "Either provide rate and hours, or directly enter the base amount.")
	}

	return v.OrNil()
}

func checkNonNegative(v *shared.ValidationError, field string, value *decimal.Decimal) {
	if value != nil && value.IsNegative() {
		v.Add(field, "Must not be negative.")
	}
}

func (d InvoiceDraft) hasBaseAmount() bool {
	return d.BaseAmount != nil && !d.BaseAmount.IsZero()
}

func (d InvoiceDraft) hasRateAndHours() bool {
	return d.Rate != nil && !d.Rate.IsZero() && d.TotalHours != nil && !d.TotalHours.IsZero()
}

// DeriveBaseAmount returns the entered base amount, or rate x hours when only
// those were entered.
func (d InvoiceDraft) DeriveBaseAmount() decimal.Decimal {
	if d.hasBaseAmount() {
		return valueobject.RoundAmount(*d.BaseAmount)
	}
	if d.hasRateAndHours() {
		return valueobject.RoundAmount(d.Rate.Mul(*d.TotalHours))
	}
	return decimal.Zero
}

// Pricer bundles the tax and currency rules applied to every invoice save
type Pricer struct {
	Tax      GSTCalculator
	Currency CurrencyConverter
}

// NewPricer returns a pricer with the standard GST rates and INR home currency
func NewPricer() Pricer {
	return Pricer{Tax: NewGSTCalculator(), Currency: NewCurrencyConverter()}
}

// Invoice is the aggregate root for a GST tax invoice
type Invoice struct {
	shared.OwnedAggregateRoot
	Buyer            Party
	Consignee        Party
	FinancialYear    FinancialYear
	Sequence         int
	InvoiceNumber    string
	InvoiceDate      time.Time
	DeliveryNote     string
	DeliveryNoteDate *time.Time
	PaymentMode      string
	Destination      string
	TermsOfDelivery  string
	Country          string
	Currency         valueobject.Currency
	State            string
	Particulars      string
	HSNSACCode       string
	TotalHours       *decimal.Decimal
	Rate             *decimal.Decimal
	BaseAmount       decimal.Decimal
	CGST             decimal.Decimal
	SGST             decimal.Decimal
	IGST             decimal.Decimal
	TaxTotal         decimal.Decimal
	TotalWithGST     decimal.Decimal
	AmountInWords    string
	ExchangeRate     decimal.Decimal
	INREquivalent    decimal.Decimal
	Remark           string
	CountryFlag      string
	// RateSupplied records whether ExchangeRate was entered by the caller
	// rather than filled in by Recalculate.
	RateSupplied bool

	// rateDefaulted is set by the last Recalculate when a foreign total was
	// converted without a rate.
	rateDefaulted bool
}

// NewInvoice materializes an invoice from a validated draft. The financial
// year and sequence come from the caller's allocation; totals are computed
// with pricer.
func NewInvoice(userID uuid.UUID, fy FinancialYear, sequence int, draft InvoiceDraft, pricer Pricer) (*Invoice, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Invoice owner cannot be empty")
	}
	if sequence <= 0 {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Invoice sequence must be positive")
	}
	if fy.IsZero() {
		return nil, shared.NewDomainError("INVALID_FINANCIAL_YEAR", "Financial year cannot be empty")
	}

	inv := &Invoice{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		FinancialYear:      fy,
		Sequence:           sequence,
		InvoiceNumber:      FormatInvoiceNumber(sequence, fy),
	}
	inv.apply(draft)
	inv.Recalculate(pricer)

	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))
	return inv, nil
}

// Update replaces the editable fields with draft and recomputes totals.
// Number, sequence and financial year are kept.
func (i *Invoice) Update(draft InvoiceDraft, pricer Pricer) {
	i.apply(draft)
	i.Recalculate(pricer)
	i.Touch()
	i.AddDomainEvent(NewInvoiceChangedEvent(i))
}

// Draft returns the editable fields of the invoice, for partial updates.
// Only an entered exchange rate is carried; a filled-in one stays nil so a
// later switch to a foreign currency is flagged.
func (i *Invoice) Draft() InvoiceDraft {
	date := i.InvoiceDate
	base := i.BaseAmount
	var rate *decimal.Decimal
	if i.RateSupplied && i.ExchangeRate.IsPositive() {
		r := i.ExchangeRate
		rate = &r
	}
	return InvoiceDraft{
		Buyer:            i.Buyer,
		Consignee:        i.Consignee,
		InvoiceDate:      &date,
		DeliveryNote:     i.DeliveryNote,
		DeliveryNoteDate: i.DeliveryNoteDate,
		PaymentMode:      i.PaymentMode,
		Destination:      i.Destination,
		TermsOfDelivery:  i.TermsOfDelivery,
		Country:          i.Country,
		Currency:         string(i.Currency),
		State:            i.State,
		Particulars:      i.Particulars,
		HSNSACCode:       i.HSNSACCode,
		TotalHours:       i.TotalHours,
		Rate:             i.Rate,
		BaseAmount:       &base,
		ExchangeRate:     rate,
		Remark:           i.Remark,
		CountryFlag:      i.CountryFlag,
	}
}

func (i *Invoice) apply(d InvoiceDraft) {
	i.Buyer = d.Buyer
	i.Consignee = d.Consignee
	if d.InvoiceDate != nil {
		i.InvoiceDate = *d.InvoiceDate
	}
	i.DeliveryNote = d.DeliveryNote
	i.DeliveryNoteDate = d.DeliveryNoteDate
	i.PaymentMode = d.PaymentMode
	i.Destination = d.Destination
	i.TermsOfDelivery = d.TermsOfDelivery
	i.Country = d.Country
	i.Currency = valueobject.Currency(d.Currency)
	i.State = d.State
	i.Particulars = d.Particulars
	i.HSNSACCode = d.HSNSACCode
	i.TotalHours = d.TotalHours
	i.Rate = d.Rate
	i.BaseAmount = d.DeriveBaseAmount()
	i.ExchangeRate = decimal.Zero
	i.RateSupplied = d.ExchangeRate != nil && d.ExchangeRate.IsPositive()
	if i.RateSupplied {
		i.ExchangeRate = *d.ExchangeRate
	}
	i.Remark = d.Remark
	i.CountryFlag = d.CountryFlag
}

// Recalculate recomputes tax, grand total, home-currency equivalent and
// amount in words from the current base amount.
func (i *Invoice) Recalculate(pricer Pricer) {
	tax := pricer.Tax.Compute(i.BaseAmount, i.Country, i.State)
	i.CGST = tax.CGST
	i.SGST = tax.SGST
	i.IGST = tax.IGST
	i.TaxTotal = tax.TaxTotal
	i.TotalWithGST = tax.GrandTotal

	var rate *decimal.Decimal
	if i.RateSupplied && i.ExchangeRate.IsPositive() {
		r := i.ExchangeRate
		rate = &r
	}
	conv := pricer.Currency.Convert(i.TotalWithGST, i.Currency, rate)
	i.INREquivalent = conv.Amount
	if rate == nil || i.Currency != pricer.Currency.HomeCurrency {
		i.ExchangeRate = conv.Rate
	}
	i.rateDefaulted = conv.Defaulted

	i.AmountInWords = AmountInWords(i.TotalWithGST, i.Currency)
}

// RateDefaulted reports whether the last recalculation converted a foreign
// total without a supplied exchange rate
func (i *Invoice) RateDefaulted() bool {
	return i.rateDefaulted
}

// MarkDeleted records the deletion event before the repository removes the row
func (i *Invoice) MarkDeleted() {
	i.AddDomainEvent(NewInvoiceDeletedEvent(i))
}

// BuyerKey identifies the buyer for ledger grouping: GSTIN when present,
// otherwise the buyer name.
func (i *Invoice) BuyerKey() string {
	if i.Buyer.GSTIN != "" {
		return i.Buyer.GSTIN
	}
	return i.Buyer.Name
}
