package models

import (
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/domain/treasury"
	"github.com/shopspring/decimal"
)

// TrashColumns maps treasury.Trash
type TrashColumns struct {
	IsDeleted bool `gorm:"not null;default:false;index"`
	DeletedAt *time.Time
}

// BankAccountModel is the persistence model for bank accounts
type BankAccountModel struct {
	OwnedModel
	BankName      string          `gorm:"type:varchar(255);not null"`
	AccountNumber string          `gorm:"type:varchar(50);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TrashColumns
}

// TableName returns the table name for GORM
func (BankAccountModel) TableName() string {
	return "bank_accounts"
}

// ToDomain converts the persistence model to a domain BankAccount
func (m *BankAccountModel) ToDomain() *treasury.BankAccount {
	return &treasury.BankAccount{
		OwnedEntity:   m.ToOwnedEntity(),
		BankName:      m.BankName,
		AccountNumber: m.AccountNumber,
		Amount:        m.Amount,
		Trash:         treasury.Trash{IsDeleted: m.IsDeleted, DeletedAt: m.DeletedAt},
	}
}

// FromDomain populates the persistence model from a domain BankAccount
func (m *BankAccountModel) FromDomain(a *treasury.BankAccount) {
	m.FromDomainOwnedEntity(a.OwnedEntity)
	m.BankName = a.BankName
	m.AccountNumber = a.AccountNumber
	m.Amount = a.Amount
	m.TrashColumns = TrashColumns{IsDeleted: a.IsDeleted, DeletedAt: a.DeletedAt}
}

// CashEntryModel is the persistence model for cash entries
type CashEntryModel struct {
	OwnedModel
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Date        time.Time       `gorm:"type:date;not null;index"`
	Description string          `gorm:"type:varchar(255)"`
	TrashColumns
}

// TableName returns the table name for GORM
func (CashEntryModel) TableName() string {
	return "cash_entries"
}

// ToDomain converts the persistence model to a domain CashEntry
func (m *CashEntryModel) ToDomain() *treasury.CashEntry {
	return &treasury.CashEntry{
		OwnedEntity: m.ToOwnedEntity(),
		Amount:      m.Amount,
		Date:        shared.CalendarDate(m.Date),
		Description: m.Description,
		Trash:       treasury.Trash{IsDeleted: m.IsDeleted, DeletedAt: m.DeletedAt},
	}
}

// FromDomain populates the persistence model from a domain CashEntry
func (m *CashEntryModel) FromDomain(e *treasury.CashEntry) {
	m.FromDomainOwnedEntity(e.OwnedEntity)
	m.Amount = e.Amount
	m.Date = e.Date
	m.Description = e.Description
	m.TrashColumns = TrashColumns{IsDeleted: e.IsDeleted, DeletedAt: e.DeletedAt}
}
