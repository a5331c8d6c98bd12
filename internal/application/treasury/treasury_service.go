// Package treasury manages bank account balances and cash on hand, with a
// trash that holds soft-deleted records until they are restored or purged.
package treasury

import (
	"context"
	"time"

	"github.com/billbook/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// trashable is satisfied by pointers to records that embed treasury.Trash
type trashable[T any] interface {
	*T
	SoftDelete(now time.Time) error
	Restore() error
}

// Bin implements the soft delete lifecycle over one treasury repository
type Bin[T any, P trashable[T]] struct {
	repo treasury.Repository[T]
	now  func() time.Time
}

// Trash moves a live record to the trash
func (b Bin[T, P]) Trash(ctx context.Context, userID, id uuid.UUID) error {
	rec, err := b.repo.FindByIDForUser(ctx, userID, id, false)
	if err != nil {
		return err
	}
	if err := P(rec).SoftDelete(b.now()); err != nil {
		return err
	}
	return b.repo.Update(ctx, rec)
}

// Restore takes a trashed record back
func (b Bin[T, P]) Restore(ctx context.Context, userID, id uuid.UUID) (*T, error) {
	rec, err := b.repo.FindByIDForUser(ctx, userID, id, true)
	if err != nil {
		return nil, err
	}
	if err := P(rec).Restore(); err != nil {
		return nil, err
	}
	if err := b.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Purge deletes a trashed record for good. Live records must be trashed
// first.
func (b Bin[T, P]) Purge(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := b.repo.FindByIDForUser(ctx, userID, id, true); err != nil {
		return err
	}
	return b.repo.Purge(ctx, userID, id)
}

// Service handles bank account and cash entry use cases
type Service struct {
	accounts    treasury.BankAccountRepository
	cash        treasury.CashEntryRepository
	accountsBin Bin[treasury.BankAccount, *treasury.BankAccount]
	cashBin     Bin[treasury.CashEntry, *treasury.CashEntry]
	logger      *zap.Logger
}

// NewService creates a new treasury Service
func NewService(accounts treasury.BankAccountRepository, cash treasury.CashEntryRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		accounts:    accounts,
		cash:        cash,
		accountsBin: Bin[treasury.BankAccount, *treasury.BankAccount]{repo: accounts, now: time.Now},
		cashBin:     Bin[treasury.CashEntry, *treasury.CashEntry]{repo: cash, now: time.Now},
		logger:      logger,
	}
}

// =============================================================================
// Bank accounts
// =============================================================================

// CreateBankAccount adds a bank account
func (s *Service) CreateBankAccount(ctx context.Context, userID uuid.UUID, req BankAccountRequest) (*BankAccountResponse, error) {
	a, err := treasury.NewBankAccount(userID, req.toInput())
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		s.logger.Error("Failed to create bank account", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	resp := ToBankAccountResponse(a)
	return &resp, nil
}

// ListBankAccounts lists live accounts, or the trash when deleted is true
func (s *Service) ListBankAccounts(ctx context.Context, userID uuid.UUID, deleted bool) ([]BankAccountResponse, error) {
	accounts, err := s.accounts.FindAllForUser(ctx, userID, deleted)
	if err != nil {
		return nil, err
	}
	out := make([]BankAccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToBankAccountResponse(&accounts[i])
	}
	return out, nil
}

// GetBankAccount returns a live account, or a trashed one when deleted is true
func (s *Service) GetBankAccount(ctx context.Context, userID, id uuid.UUID, deleted bool) (*BankAccountResponse, error) {
	a, err := s.accounts.FindByIDForUser(ctx, userID, id, deleted)
	if err != nil {
		return nil, err
	}
	resp := ToBankAccountResponse(a)
	return &resp, nil
}

// UpdateBankAccount replaces a live account's fields
func (s *Service) UpdateBankAccount(ctx context.Context, userID, id uuid.UUID, req BankAccountRequest) (*BankAccountResponse, error) {
	a, err := s.accounts.FindByIDForUser(ctx, userID, id, false)
	if err != nil {
		return nil, err
	}
	if err := a.Update(req.toInput()); err != nil {
		return nil, err
	}
	if err := s.accounts.Update(ctx, a); err != nil {
		return nil, err
	}
	resp := ToBankAccountResponse(a)
	return &resp, nil
}

// DeleteBankAccount moves an account to the trash
func (s *Service) DeleteBankAccount(ctx context.Context, userID, id uuid.UUID) error {
	return s.accountsBin.Trash(ctx, userID, id)
}

// RestoreBankAccount takes an account out of the trash
func (s *Service) RestoreBankAccount(ctx context.Context, userID, id uuid.UUID) (*BankAccountResponse, error) {
	a, err := s.accountsBin.Restore(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBankAccountResponse(a)
	return &resp, nil
}

// PurgeBankAccount deletes a trashed account permanently
func (s *Service) PurgeBankAccount(ctx context.Context, userID, id uuid.UUID) error {
	return s.accountsBin.Purge(ctx, userID, id)
}

// =============================================================================
// Cash entries
// =============================================================================

// CreateCashEntry records cash on hand
func (s *Service) CreateCashEntry(ctx context.Context, userID uuid.UUID, req CashEntryRequest) (*CashEntryResponse, error) {
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	e, err := treasury.NewCashEntry(userID, in)
	if err != nil {
		return nil, err
	}
	if err := s.cash.Create(ctx, e); err != nil {
		s.logger.Error("Failed to create cash entry", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	resp := ToCashEntryResponse(e)
	return &resp, nil
}

// ListCashEntries lists live entries, or the trash when deleted is true
func (s *Service) ListCashEntries(ctx context.Context, userID uuid.UUID, deleted bool) ([]CashEntryResponse, error) {
	entries, err := s.cash.FindAllForUser(ctx, userID, deleted)
	if err != nil {
		return nil, err
	}
	out := make([]CashEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToCashEntryResponse(&entries[i])
	}
	return out, nil
}

// GetCashEntry returns a live entry, or a trashed one when deleted is true
func (s *Service) GetCashEntry(ctx context.Context, userID, id uuid.UUID, deleted bool) (*CashEntryResponse, error) {
	e, err := s.cash.FindByIDForUser(ctx, userID, id, deleted)
	if err != nil {
		return nil, err
	}
	resp := ToCashEntryResponse(e)
	return &resp, nil
}

// UpdateCashEntry replaces a live entry's fields
func (s *Service) UpdateCashEntry(ctx context.Context, userID, id uuid.UUID, req CashEntryRequest) (*CashEntryResponse, error) {
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	e, err := s.cash.FindByIDForUser(ctx, userID, id, false)
	if err != nil {
		return nil, err
	}
	if err := e.Update(in); err != nil {
		return nil, err
	}
	if err := s.cash.Update(ctx, e); err != nil {
		return nil, err
	}
	resp := ToCashEntryResponse(e)
	return &resp, nil
}

// DeleteCashEntry moves an entry to the trash
func (s *Service) DeleteCashEntry(ctx context.Context, userID, id uuid.UUID) error {
	return s.cashBin.Trash(ctx, userID, id)
}

// RestoreCashEntry takes an entry out of the trash
func (s *Service) RestoreCashEntry(ctx context.Context, userID, id uuid.UUID) (*CashEntryResponse, error) {
	e, err := s.cashBin.Restore(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCashEntryResponse(e)
	return &resp, nil
}

// PurgeCashEntry deletes a trashed entry permanently
func (s *Service) PurgeCashEntry(ctx context.Context, userID, id uuid.UUID) error {
	return s.cashBin.Purge(ctx, userID, id)
}
