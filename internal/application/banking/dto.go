package banking

import (
	"time"

	"github.com/billbook/backend/internal/domain/banking"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Company bill (deposit against an invoice) DTOs
// =============================================================================

// CreateCompanyBillRequest records a deposit received against an invoice
type CreateCompanyBillRequest struct {
	CompanyName     string           `json:"company_name" binding:"max=255"`
	InvoiceNumber   string           `json:"invoice_id" binding:"required,max=50"`
	TransactionDate string           `json:"transaction_date" binding:"required"`
	Notice          string           `json:"notice" binding:"max=255"`
	Amount          *decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod   string           `json:"payment_method" binding:"max=10"`
	BankName        string           `json:"bank_name" binding:"max=100"`
}

func (r CreateCompanyBillRequest) toInput() (banking.CompanyBillInput, error) {
	v := shared.NewValidationError()
	in := banking.CompanyBillInput{
		CompanyName:     r.CompanyName,
		InvoiceNumber:   r.InvoiceNumber,
		TransactionDate: shared.ParseDateField(v, "transaction_date", r.TransactionDate),
		Notice:          r.Notice,
		Amount:          r.Amount,
		PaymentMethod:   r.PaymentMethod,
		BankName:        r.BankName,
	}
	return in, v.OrNil()
}

// CompanyBillResponse represents a deposit in API responses
type CompanyBillResponse struct {
	ID              uuid.UUID       `json:"id"`
	CompanyName     string          `json:"company_name"`
	InvoiceNumber   string          `json:"invoice_id"`
	LinkedInvoiceID *uuid.UUID      `json:"linked_invoice_id"`
	TransactionDate string          `json:"transaction_date"`
	Notice          string          `json:"notice"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method"`
	BankName        string          `json:"bank_name"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToCompanyBillResponse converts a domain CompanyBill to CompanyBillResponse
func ToCompanyBillResponse(b *banking.CompanyBill) CompanyBillResponse {
	return CompanyBillResponse{
		ID:              b.ID,
		CompanyName:     b.CompanyName,
		InvoiceNumber:   b.InvoiceNumber,
		LinkedInvoiceID: b.InvoiceID,
		TransactionDate: shared.FormatDate(b.TransactionDate),
		Notice:          b.Notice,
		Amount:          b.Amount,
		PaymentMethod:   string(b.PaymentMethod),
		BankName:        b.BankName,
		CreatedAt:       b.CreatedAt,
	}
}

// =============================================================================
// Buyer transaction DTOs
// =============================================================================

// CreateBuyerTransactionRequest records a payment received from a buyer
type CreateBuyerTransactionRequest struct {
	BuyerName       string           `json:"buyer_name" binding:"max=255"`
	TransactionDate string           `json:"transaction_date"`
	Amount          *decimal.Decimal `json:"amount" binding:"required"`
	Notice          string           `json:"notice" binding:"max=255"`
	PaymentMethod   string           `json:"payment_method" binding:"required,max=10"`
	BankName        string           `json:"bank_name" binding:"max=100"`
}

// BuyerTransactionResponse represents a buyer payment in API responses
type BuyerTransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	BuyerName       string          `json:"buyer_name"`
	TransactionDate string          `json:"transaction_date"`
	Amount          decimal.Decimal `json:"amount"`
	Notice          string          `json:"notice"`
	PaymentMethod   string          `json:"payment_method"`
	BankName        string          `json:"bank_name"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToBuyerTransactionResponse converts a domain BuyerTransaction
func ToBuyerTransactionResponse(t *banking.BuyerTransaction) BuyerTransactionResponse {
	return BuyerTransactionResponse{
		ID:              t.ID,
		BuyerName:       t.BuyerName,
		TransactionDate: shared.FormatDate(t.TransactionDate),
		Amount:          t.Amount,
		Notice:          t.Notice,
		PaymentMethod:   string(t.PaymentMethod),
		BankName:        t.BankName,
		CreatedAt:       t.CreatedAt,
	}
}

// =============================================================================
// Salary DTOs
// =============================================================================

// CreateSalaryRequest records a salary payment
type CreateSalaryRequest struct {
	Name          string           `json:"salary_name" binding:"required,max=255"`
	NewName       string           `json:"salary_newname" binding:"max=100"`
	Amount        *decimal.Decimal `json:"salary_amount" binding:"required"`
	Date          string           `json:"salary_date" binding:"required"`
	PaymentMethod string           `json:"payment_method" binding:"max=10"`
	BankName      string           `json:"bank_name" binding:"max=100"`
}

// SalaryResponse represents a salary payment in API responses
type SalaryResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"salary_name"`
	NewName       string          `json:"salary_newname"`
	Amount        decimal.Decimal `json:"salary_amount"`
	Date          string          `json:"salary_date"`
	PaymentMethod string          `json:"payment_method"`
	BankName      string          `json:"bank_name"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToSalaryResponse converts a domain SalaryPayment
func ToSalaryResponse(s *banking.SalaryPayment) SalaryResponse {
	return SalaryResponse{
		ID:            s.ID,
		Name:          s.Name,
		NewName:       s.NewName,
		Amount:        s.Amount,
		Date:          shared.FormatDate(s.Date),
		PaymentMethod: string(s.PaymentMethod),
		BankName:      s.BankName,
		CreatedAt:     s.CreatedAt,
	}
}

// =============================================================================
// Other transaction DTOs
// =============================================================================

// CreateOtherTransactionRequest records a credit or debit. The amount sign
// follows transaction_type whatever the caller sends.
type CreateOtherTransactionRequest struct {
	TransactionType string           `json:"transaction_type" binding:"omitempty,oneof=credit debit"`
	Category        string           `json:"other_type" binding:"required,max=50"`
	Date            string           `json:"other_date" binding:"required"`
	Notice          string           `json:"other_notice" binding:"required"`
	Amount          *decimal.Decimal `json:"other_amount" binding:"required"`
	PaymentMethod   string           `json:"payment_method" binding:"max=10"`
	BankName        string           `json:"bank_name" binding:"max=100"`
	PartnerID       *uuid.UUID       `json:"partner"`
}

// OtherTransactionResponse represents an other transaction in API responses
type OtherTransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	TransactionType string          `json:"transaction_type"`
	Category        string          `json:"other_type"`
	Date            string          `json:"other_date"`
	Notice          string          `json:"other_notice"`
	Amount          decimal.Decimal `json:"other_amount"`
	PaymentMethod   string          `json:"payment_method"`
	BankName        string          `json:"bank_name"`
	PartnerID       *uuid.UUID      `json:"partner"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToOtherTransactionResponse converts a domain OtherTransaction
func ToOtherTransactionResponse(t *banking.OtherTransaction) OtherTransactionResponse {
	return OtherTransactionResponse{
		ID:              t.ID,
		TransactionType: string(t.Type),
		Category:        t.Category,
		Date:            shared.FormatDate(t.Date),
		Notice:          t.Notice,
		Amount:          t.Amount,
		PaymentMethod:   string(t.PaymentMethod),
		BankName:        t.BankName,
		PartnerID:       t.PartnerID,
		CreatedAt:       t.CreatedAt,
	}
}

// =============================================================================
// Banking deposit, bank and partner DTOs
// =============================================================================

// CreateBankingDepositRequest records cash paid into the bank
type CreateBankingDepositRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
	Date   string           `json:"date" binding:"required"`
}

// BankingDepositResponse represents a bank deposit in API responses
type BankingDepositResponse struct {
	ID     uuid.UUID       `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

// ToBankingDepositResponse converts a domain BankingDeposit
func ToBankingDepositResponse(d *banking.BankingDeposit) BankingDepositResponse {
	return BankingDepositResponse{ID: d.ID, Amount: d.Amount, Date: shared.FormatDate(d.Date)}
}

// CatalogEntryRequest names a bank or partner
type CatalogEntryRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// CatalogEntryResponse represents a bank or partner
type CatalogEntryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CatalogEntryResult is returned by get-or-create; Created is false when
// the name already existed
type CatalogEntryResult struct {
	CatalogEntryResponse
	Created bool `json:"created"`
}

func mapAll[T any, R any](items []T, conv func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = conv(&items[i])
	}
	return out
}
