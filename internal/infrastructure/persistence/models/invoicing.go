package models

import (
	"time"

	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// Tax and total columns are stored as computed and never recomputed on read.
type InvoiceModel struct {
	AggregateModel
	UserID           uuid.UUID        `gorm:"type:char(36);not null;uniqueIndex:idx_invoice_user_fy_seq,priority:1;uniqueIndex:idx_invoice_user_number,priority:1"`
	FinancialYear    string           `gorm:"type:varchar(9);not null;uniqueIndex:idx_invoice_user_fy_seq,priority:2;index"`
	Sequence         int              `gorm:"not null;uniqueIndex:idx_invoice_user_fy_seq,priority:3"`
	InvoiceNumber    string           `gorm:"type:varchar(32);not null;uniqueIndex:idx_invoice_user_number,priority:2"`
	BuyerName        string           `gorm:"type:varchar(255);not null;index"`
	BuyerAddress     string           `gorm:"type:text;not null"`
	BuyerGSTIN       string           `gorm:"column:buyer_gst;type:varchar(20);index"`
	ConsigneeName    string           `gorm:"type:varchar(255)"`
	ConsigneeAddress string           `gorm:"type:text"`
	ConsigneeGSTIN   string           `gorm:"column:consignee_gst;type:varchar(20)"`
	InvoiceDate      time.Time        `gorm:"type:date;not null;index"`
	DeliveryNote     string           `gorm:"type:varchar(255)"`
	DeliveryNoteDate *time.Time       `gorm:"type:date"`
	PaymentMode      string           `gorm:"type:varchar(100)"`
	Destination      string           `gorm:"type:varchar(255)"`
	TermsOfDelivery  string           `gorm:"type:text"`
	Country          string           `gorm:"type:varchar(100);not null"`
	Currency         string           `gorm:"type:varchar(3);not null"`
	State            string           `gorm:"type:varchar(100)"`
	Particulars      string           `gorm:"type:text"`
	HSNSACCode       string           `gorm:"column:hsn_sac_code;type:varchar(20)"`
	TotalHours       *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Rate             *decimal.Decimal `gorm:"type:decimal(18,4)"`
	BaseAmount       decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	CGST             decimal.Decimal  `gorm:"column:cgst;type:decimal(18,2);not null"`
	SGST             decimal.Decimal  `gorm:"column:sgst;type:decimal(18,2);not null"`
	IGST             decimal.Decimal  `gorm:"column:igst;type:decimal(18,2);not null"`
	TaxTotal         decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	TotalWithGST     decimal.Decimal  `gorm:"column:total_with_gst;type:decimal(18,2);not null"`
	AmountInWords    string           `gorm:"type:text"`
	ExchangeRate     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	RateSupplied     bool             `gorm:"column:exchange_rate_supplied;not null;default:false"`
	INREquivalent    decimal.Decimal  `gorm:"column:inr_equivalent;type:decimal(18,2);not null"`
	Remark           string           `gorm:"type:text"`
	CountryFlag      string           `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
// An unparseable financial year label is recovered from the invoice date.
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	fy, err := invoicing.ParseFinancialYear(m.FinancialYear)
	if err != nil {
		fy = invoicing.ResolveFinancialYear(m.InvoiceDate)
	}
	return &invoicing.Invoice{
		OwnedAggregateRoot: shared.OwnedAggregateRoot{BaseAggregateRoot: m.ToAggregateRoot(), UserID: m.UserID},
		Buyer:              invoicing.Party{Name: m.BuyerName, Address: m.BuyerAddress, GSTIN: m.BuyerGSTIN},
		Consignee:          invoicing.Party{Name: m.ConsigneeName, Address: m.ConsigneeAddress, GSTIN: m.ConsigneeGSTIN},
		FinancialYear:      fy,
		Sequence:           m.Sequence,
		InvoiceNumber:      m.InvoiceNumber,
		InvoiceDate:        shared.CalendarDate(m.InvoiceDate),
		DeliveryNote:       m.DeliveryNote,
		DeliveryNoteDate:   calendarDatePtr(m.DeliveryNoteDate),
		PaymentMode:        m.PaymentMode,
		Destination:        m.Destination,
		TermsOfDelivery:    m.TermsOfDelivery,
		Country:            m.Country,
		Currency:           valueobject.Currency(m.Currency),
		State:              m.State,
		Particulars:        m.Particulars,
		HSNSACCode:         m.HSNSACCode,
		TotalHours:         m.TotalHours,
		Rate:               m.Rate,
		BaseAmount:         m.BaseAmount,
		CGST:               m.CGST,
		SGST:               m.SGST,
		IGST:               m.IGST,
		TaxTotal:           m.TaxTotal,
		TotalWithGST:       m.TotalWithGST,
		AmountInWords:      m.AmountInWords,
		ExchangeRate:       m.ExchangeRate,
		RateSupplied:       m.RateSupplied,
		INREquivalent:      m.INREquivalent,
		Remark:             m.Remark,
		CountryFlag:        m.CountryFlag,
	}
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *invoicing.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.UserID = inv.UserID
	m.FinancialYear = inv.FinancialYear.String()
	m.Sequence = inv.Sequence
	m.InvoiceNumber = inv.InvoiceNumber
	m.BuyerName = inv.Buyer.Name
	m.BuyerAddress = inv.Buyer.Address
	m.BuyerGSTIN = inv.Buyer.GSTIN
	m.ConsigneeName = inv.Consignee.Name
	m.ConsigneeAddress = inv.Consignee.Address
	m.ConsigneeGSTIN = inv.Consignee.GSTIN
	m.InvoiceDate = inv.InvoiceDate
	m.DeliveryNote = inv.DeliveryNote
	m.DeliveryNoteDate = inv.DeliveryNoteDate
	m.PaymentMode = inv.PaymentMode
	m.Destination = inv.Destination
	m.TermsOfDelivery = inv.TermsOfDelivery
	m.Country = inv.Country
	m.Currency = string(inv.Currency)
	m.State = inv.State
	m.Particulars = inv.Particulars
	m.HSNSACCode = inv.HSNSACCode
	m.TotalHours = inv.TotalHours
	m.Rate = inv.Rate
	m.BaseAmount = inv.BaseAmount
	m.CGST = inv.CGST
	m.SGST = inv.SGST
	m.IGST = inv.IGST
	m.TaxTotal = inv.TaxTotal
	m.TotalWithGST = inv.TotalWithGST
	m.AmountInWords = inv.AmountInWords
	m.ExchangeRate = inv.ExchangeRate
	m.RateSupplied = inv.RateSupplied
	m.INREquivalent = inv.INREquivalent
	m.Remark = inv.Remark
	m.CountryFlag = inv.CountryFlag
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *invoicing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceSequenceModel stores the per-(user, financial year) counter
type InvoiceSequenceModel struct {
	BaseModel
	UserID        uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_invoice_seq_user_fy,priority:1"`
	FinancialYear string    `gorm:"type:varchar(9);not null;uniqueIndex:idx_invoice_seq_user_fy,priority:2"`
	LastValue     int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceSequenceModel) TableName() string {
	return "invoice_sequences"
}

// ToDomain converts the persistence model to a domain InvoiceSequence
func (m *InvoiceSequenceModel) ToDomain() (*invoicing.InvoiceSequence, error) {
	fy, err := invoicing.ParseFinancialYear(m.FinancialYear)
	if err != nil {
		return nil, err
	}
	return &invoicing.InvoiceSequence{
		BaseEntity:    shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		UserID:        m.UserID,
		FinancialYear: fy,
		LastValue:     m.LastValue,
	}, nil
}

// FromDomain populates the persistence model from a domain InvoiceSequence
func (m *InvoiceSequenceModel) FromDomain(s *invoicing.InvoiceSequence) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.UserID = s.UserID
	m.FinancialYear = s.FinancialYear.String()
	m.LastValue = s.LastValue
}
