package models

import (
	"time"

	"github.com/billbook/backend/internal/domain/banking"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementColumns maps banking.Settlement
type SettlementColumns struct {
	PaymentMethod string `gorm:"type:varchar(20)"`
	BankName      string `gorm:"type:varchar(100)"`
}

func (c SettlementColumns) toDomain() banking.Settlement {
	return banking.Settlement{PaymentMethod: banking.PaymentMethod(c.PaymentMethod), BankName: c.BankName}
}

func settlementColumns(s banking.Settlement) SettlementColumns {
	return SettlementColumns{PaymentMethod: string(s.PaymentMethod), BankName: s.BankName}
}

// CompanyBillModel is the persistence model for deposits against invoices
type CompanyBillModel struct {
	OwnedAggregateModel
	CompanyName     string          `gorm:"type:varchar(255);not null"`
	InvoiceNumber   string          `gorm:"type:varchar(32);not null;index"`
	InvoiceID       *uuid.UUID      `gorm:"type:char(36);index"`
	TransactionDate time.Time       `gorm:"type:date;not null;index"`
	Notice          string          `gorm:"type:text"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SettlementColumns
}

// TableName returns the table name for GORM
func (CompanyBillModel) TableName() string {
	return "company_bills"
}

// ToDomain converts the persistence model to a domain CompanyBill
func (m *CompanyBillModel) ToDomain() *banking.CompanyBill {
	return &banking.CompanyBill{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		CompanyName:        m.CompanyName,
		InvoiceNumber:      m.InvoiceNumber,
		InvoiceID:          m.InvoiceID,
		TransactionDate:    shared.CalendarDate(m.TransactionDate),
		Notice:             m.Notice,
		Amount:             m.Amount,
		Settlement:         m.SettlementColumns.toDomain(),
	}
}

// FromDomain populates the persistence model from a domain CompanyBill
func (m *CompanyBillModel) FromDomain(b *banking.CompanyBill) {
	m.FromDomainOwnedAggregateRoot(b.OwnedAggregateRoot)
	m.CompanyName = b.CompanyName
	m.InvoiceNumber = b.InvoiceNumber
	m.InvoiceID = b.InvoiceID
	m.TransactionDate = b.TransactionDate
	m.Notice = b.Notice
	m.Amount = b.Amount
	m.SettlementColumns = settlementColumns(b.Settlement)
}

// BuyerTransactionModel is the persistence model for buyer payments
type BuyerTransactionModel struct {
	OwnedModel
	BuyerName       string          `gorm:"type:varchar(255);not null"`
	TransactionDate time.Time       `gorm:"type:date;not null;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Notice          string          `gorm:"type:text"`
	SettlementColumns
}

// TableName returns the table name for GORM
func (BuyerTransactionModel) TableName() string {
	return "buyer_transactions"
}

// ToDomain converts the persistence model to a domain BuyerTransaction
func (m *BuyerTransactionModel) ToDomain() *banking.BuyerTransaction {
	return &banking.BuyerTransaction{
		OwnedEntity:     m.ToOwnedEntity(),
		BuyerName:       m.BuyerName,
		TransactionDate: shared.CalendarDate(m.TransactionDate),
		Amount:          m.Amount,
		Notice:          m.Notice,
		Settlement:      m.SettlementColumns.toDomain(),
	}
}

// FromDomain populates the persistence model from a domain BuyerTransaction
func (m *BuyerTransactionModel) FromDomain(t *banking.BuyerTransaction) {
	m.FromDomainOwnedEntity(t.OwnedEntity)
	m.BuyerName = t.BuyerName
	m.TransactionDate = t.TransactionDate
	m.Amount = t.Amount
	m.Notice = t.Notice
	m.SettlementColumns = settlementColumns(t.Settlement)
}

// SalaryPaymentModel is the persistence model for salary payments
type SalaryPaymentModel struct {
	OwnedModel
	Name    string          `gorm:"column:salary_name;type:varchar(255);not null"`
	NewName string          `gorm:"column:new_salary_name;type:varchar(255)"`
	Amount  decimal.Decimal `gorm:"column:salary_amount;type:decimal(18,2);not null"`
	Date    time.Time       `gorm:"column:salary_date;type:date;not null;index"`
	SettlementColumns
}

// TableName returns the table name for GORM
func (SalaryPaymentModel) TableName() string {
	return "salary_payments"
}

// ToDomain converts the persistence model to a domain SalaryPayment
func (m *SalaryPaymentModel) ToDomain() *banking.SalaryPayment {
	return &banking.SalaryPayment{
		OwnedEntity: m.ToOwnedEntity(),
		Name:        m.Name,
		NewName:     m.NewName,
		Amount:      m.Amount,
		Date:        shared.CalendarDate(m.Date),
		Settlement:  m.SettlementColumns.toDomain(),
	}
}

// FromDomain populates the persistence model from a domain SalaryPayment
func (m *SalaryPaymentModel) FromDomain(p *banking.SalaryPayment) {
	m.FromDomainOwnedEntity(p.OwnedEntity)
	m.Name = p.Name
	m.NewName = p.NewName
	m.Amount = p.Amount
	m.Date = p.Date
	m.SettlementColumns = settlementColumns(p.Settlement)
}

// OtherTransactionModel is the persistence model for other credits and debits
type OtherTransactionModel struct {
	OwnedModel
	Type      string          `gorm:"column:transaction_type;type:varchar(10);not null"`
	Category  string          `gorm:"column:other_type;type:varchar(100);not null"`
	Date      time.Time       `gorm:"column:other_date;type:date;not null;index"`
	Notice    string          `gorm:"column:other_notice;type:text"`
	Amount    decimal.Decimal `gorm:"column:other_amount;type:decimal(18,2);not null"`
	PartnerID *uuid.UUID      `gorm:"type:char(36);index"`
	SettlementColumns
}

// TableName returns the table name for GORM
func (OtherTransactionModel) TableName() string {
	return "other_transactions"
}

// ToDomain converts the persistence model to a domain OtherTransaction
func (m *OtherTransactionModel) ToDomain() *banking.OtherTransaction {
	return &banking.OtherTransaction{
		OwnedEntity: m.ToOwnedEntity(),
		Type:        banking.TransactionType(m.Type),
		Category:    m.Category,
		Date:        shared.CalendarDate(m.Date),
		Notice:      m.Notice,
		Amount:      m.Amount,
		PartnerID:   m.PartnerID,
		Settlement:  m.SettlementColumns.toDomain(),
	}
}

// FromDomain populates the persistence model from a domain OtherTransaction
func (m *OtherTransactionModel) FromDomain(t *banking.OtherTransaction) {
	m.FromDomainOwnedEntity(t.OwnedEntity)
	m.Type = string(t.Type)
	m.Category = t.Category
	m.Date = t.Date
	m.Notice = t.Notice
	m.Amount = t.Amount
	m.PartnerID = t.PartnerID
	m.SettlementColumns = settlementColumns(t.Settlement)
}

// BankingDepositModel is the persistence model for bank deposits
type BankingDepositModel struct {
	OwnedModel
	Amount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Date   time.Time       `gorm:"type:date;not null;index"`
}

// TableName returns the table name for GORM
func (BankingDepositModel) TableName() string {
	return "banking_deposits"
}

// ToDomain converts the persistence model to a domain BankingDeposit
func (m *BankingDepositModel) ToDomain() *banking.BankingDeposit {
	return &banking.BankingDeposit{OwnedEntity: m.ToOwnedEntity(), Amount: m.Amount, Date: shared.CalendarDate(m.Date)}
}

// FromDomain populates the persistence model from a domain BankingDeposit
func (m *BankingDepositModel) FromDomain(d *banking.BankingDeposit) {
	m.FromDomainOwnedEntity(d.OwnedEntity)
	m.Amount = d.Amount
	m.Date = d.Date
}

// BankModel is a bank catalog row
type BankModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (BankModel) TableName() string {
	return "banks"
}

// ToDomain converts the persistence model to a domain Bank
func (m *BankModel) ToDomain() *banking.Bank {
	return &banking.Bank{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name}
}

// FromDomain populates the persistence model from a domain Bank
func (m *BankModel) FromDomain(b *banking.Bank) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.Name = b.Name
}

// PartnerModel is a partner catalog row
type PartnerModel struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner
func (m *PartnerModel) ToDomain() *banking.Partner {
	return &banking.Partner{BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}, Name: m.Name}
}

// FromDomain populates the persistence model from a domain Partner
func (m *PartnerModel) FromDomain(p *banking.Partner) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
}
