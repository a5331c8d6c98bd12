// Package banking records money movements: deposits against invoices,
// buyer payments, salaries, other transactions, bank deposits and the
// bank and partner catalogs.
package banking

import (
	"context"
	"errors"
	"time"

	"github.com/billbook/backend/internal/domain/banking"
	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const spanService = "banking"

// Repositories groups the stores the transaction service writes to
type Repositories struct {
	CompanyBills    banking.CompanyBillRepository
	Buyers          banking.BuyerTransactionRepository
	Salaries        banking.SalaryPaymentRepository
	Others          banking.OtherTransactionRepository
	BankingDeposits banking.BankingDepositRepository
	Banks           banking.BankRepository
	Partners        banking.PartnerRepository
	Invoices        invoicing.InvoiceRepository
}

// TransactionService handles the banking use cases
type TransactionService struct {
	repos     Repositories
	publisher shared.EventPublisher
	now       func() time.Time
	logger    *zap.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(repos Repositories, publisher shared.EventPublisher, logger *zap.Logger) *TransactionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionService{
		repos:     repos,
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}
}

// =============================================================================
// Company bills
// =============================================================================

// CreateCompanyBill records a deposit against an invoice. The invoice number
// is linked to the user's invoice when it resolves; an unknown number is
// kept as text so the deposit can be matched later.
func (s *TransactionService) CreateCompanyBill(ctx context.Context, userID uuid.UUID, req CreateCompanyBillRequest) (*CompanyBillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "create_company_bill", telemetry.SpanAttrUserID, userID.String())
	defer span.End()

	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	bill, err := banking.NewCompanyBill(userID, in)
	if err != nil {
		return nil, err
	}

	if s.repos.Invoices != nil {
		inv, err := s.repos.Invoices.FindByNumber(ctx, userID, bill.InvoiceNumber)
		switch {
		case err == nil:
			bill.LinkInvoice(inv.ID)
		case errors.Is(err, shared.ErrNotFound):
			s.logger.Info("Deposit references an unknown invoice number",
				zap.String("user_id", userID.String()),
				zap.String("invoice_number", bill.InvoiceNumber))
		default:
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	if err := s.repos.CompanyBills.Create(ctx, bill); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to save deposit", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	s.publish(ctx, bill)

	resp := ToCompanyBillResponse(bill)
	return &resp, nil
}

// ListCompanyBills lists the user's deposits
func (s *TransactionService) ListCompanyBills(ctx context.Context, userID uuid.UUID) ([]CompanyBillResponse, error) {
	bills, err := s.repos.CompanyBills.FindAllForUser(ctx, userID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return mapAll(bills, ToCompanyBillResponse), nil
}

// GetCompanyBill returns one deposit
func (s *TransactionService) GetCompanyBill(ctx context.Context, userID, id uuid.UUID) (*CompanyBillResponse, error) {
	bill, err := s.repos.CompanyBills.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCompanyBillResponse(bill)
	return &resp, nil
}

// DeleteCompanyBill removes a deposit
func (s *TransactionService) DeleteCompanyBill(ctx context.Context, userID, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "delete_company_bill", telemetry.SpanAttrUserID, userID.String())
	defer span.End()

	bill, err := s.repos.CompanyBills.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return err
	}
	bill.MarkDeleted()
	if err := s.repos.CompanyBills.DeleteForUser(ctx, userID, id); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	s.publish(ctx, bill)
	return nil
}

// =============================================================================
// Buyer transactions
// =============================================================================

// CreateBuyerTransaction records a payment from a buyer. A missing date
// means today.
func (s *TransactionService) CreateBuyerTransaction(ctx context.Context, userID uuid.UUID, req CreateBuyerTransactionRequest) (*BuyerTransactionResponse, error) {
	v := shared.NewValidationError()
	date := shared.ParseDateField(v, "transaction_date", req.TransactionDate)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	tx, err := banking.NewBuyerTransaction(userID, banking.BuyerTransactionInput{
		BuyerName:       req.BuyerName,
		TransactionDate: date,
		Amount:          req.Amount,
		Notice:          req.Notice,
		PaymentMethod:   req.PaymentMethod,
		BankName:        req.BankName,
	}, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repos.Buyers.Create(ctx, tx); err != nil {
		return nil, err
	}
	resp := ToBuyerTransactionResponse(tx)
	return &resp, nil
}

// ListBuyerTransactions lists the user's buyer payments
func (s *TransactionService) ListBuyerTransactions(ctx context.Context, userID uuid.UUID) ([]BuyerTransactionResponse, error) {
	txs, err := s.repos.Buyers.FindAllForUser(ctx, userID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return mapAll(txs, ToBuyerTransactionResponse), nil
}

// GetBuyerTransaction returns one buyer payment
func (s *TransactionService) GetBuyerTransaction(ctx context.Context, userID, id uuid.UUID) (*BuyerTransactionResponse, error) {
	tx, err := s.repos.Buyers.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBuyerTransactionResponse(tx)
	return &resp, nil
}

// DeleteBuyerTransaction removes a buyer payment
func (s *TransactionService) DeleteBuyerTransaction(ctx context.Context, userID, id uuid.UUID) error {
	return s.repos.Buyers.DeleteForUser(ctx, userID, id)
}

// =============================================================================
// Salaries
// =============================================================================

// CreateSalary records a salary payment
func (s *TransactionService) CreateSalary(ctx context.Context, userID uuid.UUID, req CreateSalaryRequest) (*SalaryResponse, error) {
	v := shared.NewValidationError()
	date := shared.ParseDateField(v, "salary_date", req.Date)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	p, err := banking.NewSalaryPayment(userID, banking.SalaryPaymentInput{
		Name:          req.Name,
		NewName:       req.NewName,
		Amount:        req.Amount,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		BankName:      req.BankName,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repos.Salaries.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := ToSalaryResponse(p)
	return &resp, nil
}

// ListSalaries lists the user's salary payments
func (s *TransactionService) ListSalaries(ctx context.Context, userID uuid.UUID) ([]SalaryResponse, error) {
	ps, err := s.repos.Salaries.FindAllForUser(ctx, userID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return mapAll(ps, ToSalaryResponse), nil
}

// GetSalary returns one salary payment
func (s *TransactionService) GetSalary(ctx context.Context, userID, id uuid.UUID) (*SalaryResponse, error) {
	p, err := s.repos.Salaries.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSalaryResponse(p)
	return &resp, nil
}

// DeleteSalary removes a salary payment
func (s *TransactionService) DeleteSalary(ctx context.Context, userID, id uuid.UUID) error {
	return s.repos.Salaries.DeleteForUser(ctx, userID, id)
}

// =============================================================================
// Other transactions
// =============================================================================

// CreateOtherTransaction records a signed credit or debit. A referenced
// partner must exist.
func (s *TransactionService) CreateOtherTransaction(ctx context.Context, userID uuid.UUID, req CreateOtherTransactionRequest) (*OtherTransactionResponse, error) {
	v := shared.NewValidationError()
	date := shared.ParseDateField(v, "other_date", req.Date)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if req.PartnerID != nil && s.repos.Partners != nil {
		if _, err := s.repos.Partners.FindByID(ctx, *req.PartnerID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewValidationError().Add("partner", "Partner does not exist.")
			}
			return nil, err
		}
	}

	tx, err := banking.NewOtherTransaction(userID, banking.OtherTransactionInput{
		Type:          req.TransactionType,
		Category:      req.Category,
		Date:          date,
		Notice:        req.Notice,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		BankName:      req.BankName,
		PartnerID:     req.PartnerID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repos.Others.Create(ctx, tx); err != nil {
		return nil, err
	}
	resp := ToOtherTransactionResponse(tx)
	return &resp, nil
}

// ListOtherTransactions lists the user's other transactions, newest first
func (s *TransactionService) ListOtherTransactions(ctx context.Context, userID uuid.UUID) ([]OtherTransactionResponse, error) {
	txs, err := s.repos.Others.FindAllForUser(ctx, userID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return mapAll(txs, ToOtherTransactionResponse), nil
}

// GetOtherTransaction returns one other transaction
func (s *TransactionService) GetOtherTransaction(ctx context.Context, userID, id uuid.UUID) (*OtherTransactionResponse, error) {
	tx, err := s.repos.Others.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := ToOtherTransactionResponse(tx)
	return &resp, nil
}

// DeleteOtherTransaction removes an other transaction
func (s *TransactionService) DeleteOtherTransaction(ctx context.Context, userID, id uuid.UUID) error {
	return s.repos.Others.DeleteForUser(ctx, userID, id)
}

// =============================================================================
// Banking deposits
// =============================================================================

// CreateBankingDeposit records cash paid into the bank
func (s *TransactionService) CreateBankingDeposit(ctx context.Context, userID uuid.UUID, req CreateBankingDepositRequest) (*BankingDepositResponse, error) {
	v := shared.NewValidationError()
	date := shared.ParseDateField(v, "date", req.Date)
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	d, err := banking.NewBankingDeposit(userID, req.Amount, date)
	if err != nil {
		return nil, err
	}
	if err := s.repos.BankingDeposits.Create(ctx, d); err != nil {
		return nil, err
	}
	resp := ToBankingDepositResponse(d)
	return &resp, nil
}

// ListBankingDeposits lists the user's bank deposits
func (s *TransactionService) ListBankingDeposits(ctx context.Context, userID uuid.UUID) ([]BankingDepositResponse, error) {
	ds, err := s.repos.BankingDeposits.FindAllForUser(ctx, userID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return mapAll(ds, ToBankingDepositResponse), nil
}

// =============================================================================
// Banks and partners
// =============================================================================

// ListBanks lists the bank catalog sorted by name
func (s *TransactionService) ListBanks(ctx context.Context) ([]CatalogEntryResponse, error) {
	banks, err := s.repos.Banks.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapAll(banks, func(b *banking.Bank) CatalogEntryResponse {
		return CatalogEntryResponse{ID: b.ID, Name: b.Name}
	}), nil
}

// AddBank returns the named bank, creating it when it is new
func (s *TransactionService) AddBank(ctx context.Context, req CatalogEntryRequest) (*CatalogEntryResult, error) {
	bank, err := banking.NewBank(req.Name)
	if err != nil {
		return nil, err
	}
	got, created, err := s.repos.Banks.GetOrCreate(ctx, bank)
	if err != nil {
		return nil, err
	}
	return &CatalogEntryResult{CatalogEntryResponse: CatalogEntryResponse{ID: got.ID, Name: got.Name}, Created: created}, nil
}

// ListPartners lists the partner catalog sorted by name
func (s *TransactionService) ListPartners(ctx context.Context) ([]CatalogEntryResponse, error) {
	partners, err := s.repos.Partners.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapAll(partners, func(p *banking.Partner) CatalogEntryResponse {
		return CatalogEntryResponse{ID: p.ID, Name: p.Name}
	}), nil
}

// AddPartner returns the named partner, creating it when it is new
func (s *TransactionService) AddPartner(ctx context.Context, req CatalogEntryRequest) (*CatalogEntryResult, error) {
	partner, err := banking.NewPartner(req.Name)
	if err != nil {
		return nil, err
	}
	got, created, err := s.repos.Partners.GetOrCreate(ctx, partner)
	if err != nil {
		return nil, err
	}
	return &CatalogEntryResult{CatalogEntryResponse: CatalogEntryResponse{ID: got.ID, Name: got.Name}, Created: created}, nil
}

func (s *TransactionService) publish(ctx context.Context, bill *banking.CompanyBill) {
	events := bill.GetDomainEvents()
	bill.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish deposit events",
			zap.String("deposit_id", bill.ID.String()),
			zap.Error(err))
	}
}
