package invoicing

import (
	"strings"
	"time"

	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Request DTOs
// =============================================================================

// CreateInvoiceRequest represents a request to create a new invoice.
// Invoice number and financial year are always derived and never accepted.
type CreateInvoiceRequest struct {
	BuyerName        string           `json:"buyer_name" binding:"required,max=255"`
	BuyerAddress     string           `json:"buyer_address" binding:"required"`
	BuyerGST         string           `json:"buyer_gst" binding:"max=20"`
	ConsigneeName    string           `json:"consignee_name" binding:"max=255"`
	ConsigneeAddress string           `json:"consignee_address"`
	ConsigneeGST     string           `json:"consignee_gst" binding:"max=20"`
	InvoiceDate      string           `json:"invoice_date" binding:"required"`
	DeliveryNote     string           `json:"delivery_note" binding:"max=255"`
	DeliveryNoteDate string           `json:"delivery_note_date"`
	PaymentMode      string           `json:"payment_mode" binding:"max=100"`
	Destination      string           `json:"destination" binding:"max=255"`
	TermsOfDelivery  string           `json:"terms_of_delivery" binding:"max=255"`
	Country          string           `json:"country" binding:"max=255"`
	Currency         string           `json:"currency" binding:"max=10"`
	State            string           `json:"state" binding:"max=50"`
	Particulars      string           `json:"particulars" binding:"max=255"`
	HSNSACCode       string           `json:"hsn_sac_code" binding:"max=10"`
	TotalHours       *decimal.Decimal `json:"total_hours"`
	Rate             *decimal.Decimal `json:"rate"`
	BaseAmount       *decimal.Decimal `json:"base_amount"`
	ExchangeRate     *decimal.Decimal `json:"exchange_rate"`
	Remark           string           `json:"remark"`
	CountryFlag      string           `json:"country_flag" binding:"max=300"`
}

// ToDraft converts the request into a domain draft. Malformed dates are
// reported as field errors.
func (r CreateInvoiceRequest) ToDraft() (invoicing.InvoiceDraft, error) {
	v := shared.NewValidationError()
	draft := invoicing.InvoiceDraft{
		Buyer:            invoicing.Party{Name: r.BuyerName, Address: r.BuyerAddress, GSTIN: r.BuyerGST},
		Consignee:        invoicing.Party{Name: r.ConsigneeName, Address: r.ConsigneeAddress, GSTIN: r.ConsigneeGST},
		InvoiceDate:      shared.ParseDateField(v, "invoice_date", r.InvoiceDate),
		DeliveryNote:     r.DeliveryNote,
		DeliveryNoteDate: shared.ParseDateField(v, "delivery_note_date", r.DeliveryNoteDate),
		PaymentMode:      r.PaymentMode,
		Destination:      r.Destination,
		TermsOfDelivery:  r.TermsOfDelivery,
		Country:          r.Country,
		Currency:         r.Currency,
		State:            r.State,
		Particulars:      r.Particulars,
		HSNSACCode:       r.HSNSACCode,
		TotalHours:       r.TotalHours,
		Rate:             r.Rate,
		BaseAmount:       r.BaseAmount,
		ExchangeRate:     r.ExchangeRate,
		Remark:           r.Remark,
		CountryFlag:      r.CountryFlag,
	}
	return draft, v.OrNil()
}

// UpdateInvoiceRequest represents a partial update. Nil fields keep their
// stored value.
type UpdateInvoiceRequest struct {
	BuyerName        *string          `json:"buyer_name" binding:"omitempty,max=255"`
	BuyerAddress     *string          `json:"buyer_address"`
	BuyerGST         *string          `json:"buyer_gst" binding:"omitempty,max=20"`
	ConsigneeName    *string          `json:"consignee_name" binding:"omitempty,max=255"`
	ConsigneeAddress *string          `json:"consignee_address"`
	ConsigneeGST     *string          `json:"consignee_gst" binding:"omitempty,max=20"`
	InvoiceDate      *string          `json:"invoice_date"`
	DeliveryNote     *string          `json:"delivery_note" binding:"omitempty,max=255"`
	DeliveryNoteDate *string          `json:"delivery_note_date"`
	PaymentMode      *string          `json:"payment_mode" binding:"omitempty,max=100"`
	Destination      *string          `json:"destination" binding:"omitempty,max=255"`
	TermsOfDelivery  *string          `json:"terms_of_delivery" binding:"omitempty,max=255"`
	Country          *string          `json:"country" binding:"omitempty,max=255"`
	Currency         *string          `json:"currency" binding:"omitempty,max=10"`
	State            *string          `json:"state" binding:"omitempty,max=50"`
	Particulars      *string          `json:"particulars" binding:"omitempty,max=255"`
	HSNSACCode       *string          `json:"hsn_sac_code" binding:"omitempty,max=10"`
	TotalHours       *decimal.Decimal `json:"total_hours"`
	Rate             *decimal.Decimal `json:"rate"`
	BaseAmount       *decimal.Decimal `json:"base_amount"`
	ExchangeRate     *decimal.Decimal `json:"exchange_rate"`
	Remark           *string          `json:"remark"`
	CountryFlag      *string          `json:"country_flag" binding:"omitempty,max=300"`
}

// ApplyTo overlays the set fields onto draft. When rate or hours change
// without an explicit base amount, the base amount is re-derived from them.
// Changing the currency without a new exchange rate drops the stored one.
func (r UpdateInvoiceRequest) ApplyTo(draft invoicing.InvoiceDraft) (invoicing.InvoiceDraft, error) {
	v := shared.NewValidationError()

	setString(&draft.Buyer.Name, r.BuyerName)
	setString(&draft.Buyer.Address, r.BuyerAddress)
	setString(&draft.Buyer.GSTIN, r.BuyerGST)
	setString(&draft.Consignee.Name, r.ConsigneeName)
	setString(&draft.Consignee.Address, r.ConsigneeAddress)
	setString(&draft.Consignee.GSTIN, r.ConsigneeGST)
	if r.InvoiceDate != nil {
		draft.InvoiceDate = shared.ParseDateField(v, "invoice_date", *r.InvoiceDate)
	}
	if r.DeliveryNoteDate != nil {
		draft.DeliveryNoteDate = shared.ParseDateField(v, "delivery_note_date", *r.DeliveryNoteDate)
	}
	setString(&draft.DeliveryNote, r.DeliveryNote)
	setString(&draft.PaymentMode, r.PaymentMode)
	setString(&draft.Destination, r.Destination)
	setString(&draft.TermsOfDelivery, r.TermsOfDelivery)
	setString(&draft.Country, r.Country)
	if r.Currency != nil && !strings.EqualFold(strings.TrimSpace(*r.Currency), draft.Currency) && r.ExchangeRate == nil {
		// a stored rate belongs to the old currency
		draft.ExchangeRate = nil
	}
	setString(&draft.Currency, r.Currency)
	setString(&draft.State, r.State)
	setString(&draft.Particulars, r.Particulars)
	setString(&draft.HSNSACCode, r.HSNSACCode)
	setString(&draft.Remark, r.Remark)
	setString(&draft.CountryFlag, r.CountryFlag)

	if r.TotalHours != nil {
		draft.TotalHours = r.TotalHours
	}
	if r.Rate != nil {
		draft.Rate = r.Rate
	}
	switch {
	case r.BaseAmount != nil:
		draft.BaseAmount = r.BaseAmount
	case r.Rate != nil || r.TotalHours != nil:
		draft.BaseAmount = nil
	}
	if r.ExchangeRate != nil {
		draft.ExchangeRate = r.ExchangeRate
	}
	return draft, v.OrNil()
}

// ListInvoicesRequest filters the invoice list
type ListInvoicesRequest struct {
	Year     string `form:"year"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// =============================================================================
// Response DTOs
// =============================================================================

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID               uuid.UUID        `json:"id"`
	InvoiceNumber    string           `json:"invoice_number"`
	FinancialYear    string           `json:"financial_year"`
	BuyerName        string           `json:"buyer_name"`
	BuyerAddress     string           `json:"buyer_address"`
	BuyerGST         string           `json:"buyer_gst"`
	ConsigneeName    string           `json:"consignee_name"`
	ConsigneeAddress string           `json:"consignee_address"`
	ConsigneeGST     string           `json:"consignee_gst"`
	InvoiceDate      string           `json:"invoice_date"`
	DeliveryNote     string           `json:"delivery_note"`
	DeliveryNoteDate *string          `json:"delivery_note_date"`
	PaymentMode      string           `json:"payment_mode"`
	Destination      string           `json:"destination"`
	TermsOfDelivery  string           `json:"terms_of_delivery"`
	Country          string           `json:"country"`
	Currency         string           `json:"currency"`
	State            string           `json:"state"`
	Particulars      string           `json:"particulars"`
	HSNSACCode       string           `json:"hsn_sac_code"`
	TotalHours       *decimal.Decimal `json:"total_hours"`
	Rate             *decimal.Decimal `json:"rate"`
	BaseAmount       decimal.Decimal  `json:"base_amount"`
	CGST             decimal.Decimal  `json:"cgst"`
	SGST             decimal.Decimal  `json:"sgst"`
	IGST             decimal.Decimal  `json:"igst"`
	TaxTotal         decimal.Decimal  `json:"taxtotal"`
	TotalWithGST     decimal.Decimal  `json:"total_with_gst"`
	AmountInWords    string           `json:"amount_in_words"`
	ExchangeRate     decimal.Decimal  `json:"exchange_rate"`
	INREquivalent    decimal.Decimal  `json:"inr_equivalent"`
	Remark           string           `json:"remark"`
	CountryFlag      string           `json:"country_flag"`
	Version          int              `json:"version"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Warning          string           `json:"warning,omitempty"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *invoicing.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:               inv.ID,
		InvoiceNumber:    inv.InvoiceNumber,
		FinancialYear:    inv.FinancialYear.String(),
		BuyerName:        inv.Buyer.Name,
		BuyerAddress:     inv.Buyer.Address,
		BuyerGST:         inv.Buyer.GSTIN,
		ConsigneeName:    inv.Consignee.Name,
		ConsigneeAddress: inv.Consignee.Address,
		ConsigneeGST:     inv.Consignee.GSTIN,
		InvoiceDate:      inv.InvoiceDate.Format(shared.DateLayout),
		DeliveryNote:     inv.DeliveryNote,
		PaymentMode:      inv.PaymentMode,
		Destination:      inv.Destination,
		TermsOfDelivery:  inv.TermsOfDelivery,
		Country:          inv.Country,
		Currency:         string(inv.Currency),
		State:            inv.State,
		Particulars:      inv.Particulars,
		HSNSACCode:       inv.HSNSACCode,
		TotalHours:       inv.TotalHours,
		Rate:             inv.Rate,
		BaseAmount:       inv.BaseAmount,
		CGST:             inv.CGST,
		SGST:             inv.SGST,
		IGST:             inv.IGST,
		TaxTotal:         inv.TaxTotal,
		TotalWithGST:     inv.TotalWithGST,
		AmountInWords:    inv.AmountInWords,
		ExchangeRate:     inv.ExchangeRate,
		INREquivalent:    inv.INREquivalent,
		Remark:           inv.Remark,
		CountryFlag:      inv.CountryFlag,
		Version:          inv.Version,
		CreatedAt:        inv.CreatedAt,
		UpdatedAt:        inv.UpdatedAt,
	}
	if inv.DeliveryNoteDate != nil {
		d := inv.DeliveryNoteDate.Format(shared.DateLayout)
		resp.DeliveryNoteDate = &d
	}
	return resp
}

// ToInvoiceResponses converts a slice of invoices
func ToInvoiceResponses(invoices []invoicing.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i])
	}
	return out
}

// InvoiceGroupResponse is one buyer of the grouped invoice view
type InvoiceGroupResponse struct {
	SerialNumber int               `json:"serial_number"`
	BuyerName    string            `json:"buyer_name"`
	BuyerAddress string            `json:"buyer_address"`
	BuyerGST     string            `json:"buyer_gst"`
	Invoices     []InvoiceResponse `json:"invoices"`
}

// NextNumberResponse previews the number the next invoice will receive
type NextNumberResponse struct {
	InvoiceNumber string `json:"invoice_number"`
	FinancialYear string `json:"financial_year"`
}

// CreateInvoiceResponse is returned when an invoice is issued
type CreateInvoiceResponse struct {
	InvoiceNumber string          `json:"invoice_number"`
	FinancialYear string          `json:"financial_year"`
	Invoice       InvoiceResponse `json:"invoice"`
	// Warning is set when a foreign-currency total was converted at rate 1
	Warning string `json:"warning,omitempty"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
