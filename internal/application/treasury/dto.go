package treasury

import (
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccountRequest creates or replaces a bank account
type BankAccountRequest struct {
	BankName      string           `json:"bank_name" binding:"required,max=100"`
	AccountNumber string           `json:"account_number" binding:"required,max=50"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
}

func (r BankAccountRequest) toInput() treasury.BankAccountInput {
	return treasury.BankAccountInput{BankName: r.BankName, AccountNumber: r.AccountNumber, Amount: r.Amount}
}

// CashEntryRequest creates or replaces a cash entry
type CashEntryRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Date        string           `json:"date" binding:"required"`
	Description string           `json:"description"`
}

func (r CashEntryRequest) toInput() (treasury.CashEntryInput, error) {
	v := shared.NewValidationError()
	date := shared.ParseDateField(v, "date", r.Date)
	if err := v.OrNil(); err != nil {
		return treasury.CashEntryInput{}, err
	}
	return treasury.CashEntryInput{Amount: r.Amount, Date: date, Description: r.Description}, nil
}

// BankAccountResponse represents a bank account in API responses
type BankAccountResponse struct {
	ID            uuid.UUID       `json:"id"`
	BankName      string          `json:"bank_name"`
	AccountNumber string          `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
	IsDeleted     bool            `json:"is_deleted"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToBankAccountResponse converts a domain BankAccount
func ToBankAccountResponse(a *treasury.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		ID:            a.ID,
		BankName:      a.BankName,
		AccountNumber: a.AccountNumber,
		Amount:        a.Amount,
		IsDeleted:     a.IsDeleted,
		DeletedAt:     a.DeletedAt,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// CashEntryResponse represents a cash entry in API responses
type CashEntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	IsDeleted   bool            `json:"is_deleted"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToCashEntryResponse converts a domain CashEntry
func ToCashEntryResponse(e *treasury.CashEntry) CashEntryResponse {
	return CashEntryResponse{
		ID:          e.ID,
		Amount:      e.Amount,
		Date:        shared.FormatDate(e.Date),
		Description: e.Description,
		IsDeleted:   e.IsDeleted,
		DeletedAt:   e.DeletedAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
