package persistence

import (
	"context"
	"errors"
	"sort"

	"github.com/billbook/backend/internal/domain/banking"
	"github.com/billbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCompanyBillRepository implements banking.CompanyBillRepository
type GormCompanyBillRepository struct {
	*GormOwnedStore[banking.CompanyBill, models.CompanyBillModel, *models.CompanyBillModel]
}

// NewGormCompanyBillRepository creates a new GormCompanyBillRepository
func NewGormCompanyBillRepository(db *gorm.DB) *GormCompanyBillRepository {
	return &GormCompanyBillRepository{
		GormOwnedStore: newOwnedStore[banking.CompanyBill, models.CompanyBillModel](db, "transaction_date DESC"),
	}
}

// inListChunk bounds the bind parameters of one IN list. PostgreSQL caps a
// statement at 65535 parameters and SQLite builds before 3.32 at 999.
var inListChunk = 900

// FindForInvoices returns deposits linked to invoiceIDs, plus unlinked
// deposits whose invoice number text is in numbers, by transaction date.
// Long lists are queried in chunks.
func (r *GormCompanyBillRepository) FindForInvoices(ctx context.Context, userID uuid.UUID, invoiceIDs []uuid.UUID, numbers []string) ([]banking.CompanyBill, error) {
	bills := []banking.CompanyBill{}
	for _, ids := range chunk(invoiceIDs, inListChunk) {
		found, err := r.find(r.scoped(ctx, userID).Where("invoice_id IN ?", ids))
		if err != nil {
			return nil, err
		}
		bills = append(bills, found...)
	}
	for _, nums := range chunk(numbers, inListChunk) {
		found, err := r.find(r.scoped(ctx, userID).Where("invoice_id IS NULL AND invoice_number IN ?", nums))
		if err != nil {
			return nil, err
		}
		bills = append(bills, found...)
	}

	// the two queries never return the same row: one wants a link, the other none
	sort.SliceStable(bills, func(i, j int) bool {
		if !bills[i].TransactionDate.Equal(bills[j].TransactionDate) {
			return bills[i].TransactionDate.Before(bills[j].TransactionDate)
		}
		return bills[i].CreatedAt.Before(bills[j].CreatedAt)
	})
	return bills, nil
}

func chunk[E any](items []E, size int) [][]E {
	var out [][]E
	for size < len(items) {
		out = append(out, items[:size:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}

// NewGormBuyerTransactionRepository creates the buyer transaction repository
func NewGormBuyerTransactionRepository(db *gorm.DB) *GormOwnedStore[banking.BuyerTransaction, models.BuyerTransactionModel, *models.BuyerTransactionModel] {
	return newOwnedStore[banking.BuyerTransaction, models.BuyerTransactionModel](db, "transaction_date DESC")
}

// NewGormSalaryPaymentRepository creates the salary payment repository
func NewGormSalaryPaymentRepository(db *gorm.DB) *GormOwnedStore[banking.SalaryPayment, models.SalaryPaymentModel, *models.SalaryPaymentModel] {
	return newOwnedStore[banking.SalaryPayment, models.SalaryPaymentModel](db, "salary_date DESC")
}

// NewGormOtherTransactionRepository creates the other transaction repository,
// listed newest first
func NewGormOtherTransactionRepository(db *gorm.DB) *GormOwnedStore[banking.OtherTransaction, models.OtherTransactionModel, *models.OtherTransactionModel] {
	return newOwnedStore[banking.OtherTransaction, models.OtherTransactionModel](db, "other_date DESC")
}

// NewGormBankingDepositRepository creates the banking deposit repository
func NewGormBankingDepositRepository(db *gorm.DB) *GormOwnedStore[banking.BankingDeposit, models.BankingDepositModel, *models.BankingDepositModel] {
	return newOwnedStore[banking.BankingDeposit, models.BankingDepositModel](db, "date DESC")
}

// GormBankRepository implements banking.BankRepository
type GormBankRepository struct {
	db *gorm.DB
}

// NewGormBankRepository creates a new GormBankRepository
func NewGormBankRepository(db *gorm.DB) *GormBankRepository {
	return &GormBankRepository{db: db}
}

// FindAll lists banks sorted by name
func (r *GormBankRepository) FindAll(ctx context.Context) ([]banking.Bank, error) {
	var rows []models.BankModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	banks := make([]banking.Bank, len(rows))
	for i := range rows {
		banks[i] = *rows[i].ToDomain()
	}
	return banks, nil
}

// GetOrCreate returns the bank with bank.Name, inserting bank when missing
func (r *GormBankRepository) GetOrCreate(ctx context.Context, bank *banking.Bank) (*banking.Bank, bool, error) {
	var model models.BankModel
	created, err := getOrCreateByName(r.db.WithContext(ctx), &model, bank.Name, func() { model.FromDomain(bank) })
	if err != nil {
		return nil, false, err
	}
	return model.ToDomain(), created, nil
}

// GormPartnerRepository implements banking.PartnerRepository
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindAll lists partners sorted by name
func (r *GormPartnerRepository) FindAll(ctx context.Context) ([]banking.Partner, error) {
	var rows []models.PartnerModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	partners := make([]banking.Partner, len(rows))
	for i := range rows {
		partners[i] = *rows[i].ToDomain()
	}
	return partners, nil
}

// FindByID finds a partner
func (r *GormPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*banking.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// GetOrCreate returns the partner with partner.Name, inserting it when missing
func (r *GormPartnerRepository) GetOrCreate(ctx context.Context, partner *banking.Partner) (*banking.Partner, bool, error) {
	var model models.PartnerModel
	created, err := getOrCreateByName(r.db.WithContext(ctx), &model, partner.Name, func() { model.FromDomain(partner) })
	if err != nil {
		return nil, false, err
	}
	return model.ToDomain(), created, nil
}

// getOrCreateByName loads the catalog row named name into model, or fills
// model with fill and inserts it. A concurrent insert of the same name is
// resolved by reading the winner's row.
func getOrCreateByName(db *gorm.DB, model any, name string, fill func()) (bool, error) {
	err := db.Where("name = ?", name).First(model).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	fill()
	if err := db.Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, db.Where("name = ?", name).First(model).Error
		}
		return false, err
	}
	return true, nil
}

// Ensure implementations satisfy the banking repositories
var (
	_ banking.CompanyBillRepository      = (*GormCompanyBillRepository)(nil)
	_ banking.BuyerTransactionRepository = (*GormOwnedStore[banking.BuyerTransaction, models.BuyerTransactionModel, *models.BuyerTransactionModel])(nil)
	_ banking.SalaryPaymentRepository    = (*GormOwnedStore[banking.SalaryPayment, models.SalaryPaymentModel, *models.SalaryPaymentModel])(nil)
	_ banking.OtherTransactionRepository = (*GormOwnedStore[banking.OtherTransaction, models.OtherTransactionModel, *models.OtherTransactionModel])(nil)
	_ banking.BankingDepositRepository   = (*GormOwnedStore[banking.BankingDeposit, models.BankingDepositModel, *models.BankingDepositModel])(nil)
	_ banking.BankRepository             = (*GormBankRepository)(nil)
	_ banking.PartnerRepository          = (*GormPartnerRepository)(nil)
)
