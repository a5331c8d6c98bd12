package persistence

import (
	"context"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/domain/treasury"
	"github.com/billbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTrashStore persists soft-deletable treasury records. The deleted flag
// on reads selects between live rows and the trash.
type GormTrashStore[T any, M any, PM ownedModel[T, M]] struct {
	store *GormOwnedStore[T, M, PM]
}

func newTrashStore[T any, M any, PM ownedModel[T, M]](db *gorm.DB, order string) *GormTrashStore[T, M, PM] {
	return &GormTrashStore[T, M, PM]{store: newOwnedStore[T, M, PM](db, order)}
}

// NewGormBankAccountRepository creates the bank account repository
func NewGormBankAccountRepository(db *gorm.DB) *GormTrashStore[treasury.BankAccount, models.BankAccountModel, *models.BankAccountModel] {
	return newTrashStore[treasury.BankAccount, models.BankAccountModel](db, "bank_name ASC")
}

// NewGormCashEntryRepository creates the cash entry repository
func NewGormCashEntryRepository(db *gorm.DB) *GormTrashStore[treasury.CashEntry, models.CashEntryModel, *models.CashEntryModel] {
	return newTrashStore[treasury.CashEntry, models.CashEntryModel](db, "date DESC")
}

// Create inserts a new record
func (s *GormTrashStore[T, M, PM]) Create(ctx context.Context, record *T) error {
	return s.store.Create(ctx, record)
}

// Update saves the record, including its trash state
func (s *GormTrashStore[T, M, PM]) Update(ctx context.Context, record *T) error {
	return s.store.Update(ctx, record)
}

// FindByIDForUser finds a live record, or a trashed one when deleted is true
func (s *GormTrashStore[T, M, PM]) FindByIDForUser(ctx context.Context, userID, id uuid.UUID, deleted bool) (*T, error) {
	return s.store.first(s.store.scoped(ctx, userID).Where("id = ? AND is_deleted = ?", id, deleted))
}

// FindAllForUser lists live records, or the trash when deleted is true
func (s *GormTrashStore[T, M, PM]) FindAllForUser(ctx context.Context, userID uuid.UUID, deleted bool) ([]T, error) {
	return s.store.find(s.store.scoped(ctx, userID).
		Where("is_deleted = ?", deleted).
		Order(s.store.order).
		Order("created_at DESC"))
}

// Purge removes a trashed record for good. Live records are not purged.
func (s *GormTrashStore[T, M, PM]) Purge(ctx context.Context, userID, id uuid.UUID) error {
	result := s.store.db.WithContext(ctx).
		Where("user_id = ? AND id = ? AND is_deleted = ?", userID, id, true).
		Delete(PM(new(M)))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure the trash stores implement the treasury repositories
var (
	_ treasury.BankAccountRepository = (*GormTrashStore[treasury.BankAccount, models.BankAccountModel, *models.BankAccountModel])(nil)
	_ treasury.CashEntryRepository   = (*GormTrashStore[treasury.CashEntry, models.CashEntryModel, *models.CashEntryModel])(nil)
)
