package treasury

import (
	"strings"
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccountInput carries the caller's fields for a bank account
type BankAccountInput struct {
	BankName      string
	AccountNumber string
	Amount        *decimal.Decimal
}

// BankAccount is a bank balance held by the user
type BankAccount struct {
	shared.OwnedEntity
	BankName      string
	AccountNumber string
	Amount        decimal.Decimal
	Trash
}

// NewBankAccount validates input and creates an account
func NewBankAccount(userID uuid.UUID, in BankAccountInput) (*BankAccount, error) {
	a := &BankAccount{OwnedEntity: shared.NewOwnedEntity(userID)}
	if err := a.apply(in); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the editable fields. Deleted accounts cannot be edited.
func (a *BankAccount) Update(in BankAccountInput) error {
	if a.IsDeleted {
		return shared.ErrInvalidState
	}
	if err := a.apply(in); err != nil {
		return err
	}
	a.Touch()
	return nil
}

func (a *BankAccount) apply(in BankAccountInput) error {
	v := shared.NewValidationError()
	bank := strings.TrimSpace(in.BankName)
	if bank == "" {
		v.Add("bank_name", "This field is required.")
	}
	number := strings.TrimSpace(in.AccountNumber)
	if number == "" {
		v.Add("account_number", "This field is required.")
	} else if len(number) > 50 {
		v.Add("account_number", "Account number cannot exceed 50 characters.")
	}
	if in.Amount == nil {
		v.Add("amount", "This field is required.")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	a.BankName = bank
	a.AccountNumber = number
	a.Amount = valueobject.RoundAmount(*in.Amount)
	return nil
}

// CashEntryInput carries the caller's fields for a cash entry
type CashEntryInput struct {
	Amount      *decimal.Decimal
	Date        *time.Time
	Description string
}

// CashEntry is cash on hand recorded on a date
type CashEntry struct {
	shared.OwnedEntity
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Trash
}

// NewCashEntry validates input and creates an entry
func NewCashEntry(userID uuid.UUID, in CashEntryInput) (*CashEntry, error) {
	e := &CashEntry{OwnedEntity: shared.NewOwnedEntity(userID)}
	if err := e.apply(in); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the editable fields. Deleted entries cannot be edited.
func (e *CashEntry) Update(in CashEntryInput) error {
	if e.IsDeleted {
		return shared.ErrInvalidState
	}
	if err := e.apply(in); err != nil {
		return err
	}
	e.Touch()
	return nil
}

func (e *CashEntry) apply(in CashEntryInput) error {
	v := shared.NewValidationError()
	if in.Amount == nil {
		v.Add("amount", "This field is required.")
	}
	if in.Date == nil || in.Date.IsZero() {
		v.Add("date", "This field is required.")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	e.Amount = valueobject.RoundAmount(*in.Amount)
	e.Date = *in.Date
	e.Description = strings.TrimSpace(in.Description)
	return nil
}
