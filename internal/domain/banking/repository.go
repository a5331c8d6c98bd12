package banking

import (
	"context"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanyBillRepository persists deposits against invoices
type CompanyBillRepository interface {
	shared.OwnedRepository[CompanyBill]

	// FindForInvoices returns the user's deposits linked to any of invoiceIDs,
	// or unlinked deposits whose text reference is one of numbers
	FindForInvoices(ctx context.Context, userID uuid.UUID, invoiceIDs []uuid.UUID, numbers []string) ([]CompanyBill, error)
}

// BuyerTransactionRepository persists buyer payments
type BuyerTransactionRepository = shared.OwnedRepository[BuyerTransaction]

// SalaryPaymentRepository persists salary payments
type SalaryPaymentRepository = shared.OwnedRepository[SalaryPayment]

// OtherTransactionRepository persists other transactions
type OtherTransactionRepository = shared.OwnedRepository[OtherTransaction]

// BankingDepositRepository persists bank deposits
type BankingDepositRepository = shared.OwnedRepository[BankingDeposit]

// BankRepository persists the bank catalog
type BankRepository interface {
	// FindAll lists banks sorted by name
	FindAll(ctx context.Context) ([]Bank, error)

	// GetOrCreate returns the bank with name, creating it when missing.
	// created reports whether a row was inserted.
	GetOrCreate(ctx context.Context, bank *Bank) (result *Bank, created bool, err error)
}

// PartnerRepository persists the partner catalog
type PartnerRepository interface {
	// FindAll lists partners sorted by name
	FindAll(ctx context.Context) ([]Partner, error)

	// FindByID finds a partner
	FindByID(ctx context.Context, id uuid.UUID) (*Partner, error)

	// GetOrCreate returns the partner with name, creating it when missing
	GetOrCreate(ctx context.Context, partner *Partner) (result *Partner, created bool, err error)
}
