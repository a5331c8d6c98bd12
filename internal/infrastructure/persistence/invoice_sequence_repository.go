package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/billbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNumberAllocator implements invoicing.NumberAllocator on the
// invoice_sequences table. Each allocation runs in a transaction holding a
// row lock on the (user, financial year) counter.
type GormNumberAllocator struct {
	db       *gorm.DB
	rowLocks bool
}

// NewGormNumberAllocator creates an allocator. rowLocks should be false for
// sqlite, which serialises writers itself and has no FOR UPDATE.
func NewGormNumberAllocator(db *gorm.DB, rowLocks bool) *GormNumberAllocator {
	return &GormNumberAllocator{db: db, rowLocks: rowLocks}
}

// Allocate consumes and returns the next sequence
func (a *GormNumberAllocator) Allocate(ctx context.Context, userID uuid.UUID, fy invoicing.FinancialYear) (int, error) {
	var seq int
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		seq, err = a.next(tx, userID, fy)
		return err
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// Issue allocates a sequence and inserts the invoice built from it in one
// transaction. A failed build or insert rolls the counter back.
func (a *GormNumberAllocator) Issue(ctx context.Context, userID uuid.UUID, fy invoicing.FinancialYear, build func(sequence int) (*invoicing.Invoice, error)) (*invoicing.Invoice, error) {
	var inv *invoicing.Invoice
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := a.next(tx, userID, fy)
		if err != nil {
			return err
		}
		inv, err = build(seq)
		if err != nil {
			return err
		}
		return createInvoice(tx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// PeekNext returns the sequence the next allocation would return
func (a *GormNumberAllocator) PeekNext(ctx context.Context, userID uuid.UUID, fy invoicing.FinancialYear) (int, error) {
	db := a.db.WithContext(ctx)

	var model models.InvoiceSequenceModel
	err := db.Where("user_id = ? AND financial_year = ?", userID, fy.String()).First(&model).Error
	if err == nil {
		seq, err := model.ToDomain()
		if err != nil {
			return 0, err
		}
		return seq.Peek(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	highest, err := highestIssued(db, userID, fy)
	if err != nil {
		return 0, err
	}
	return invoicing.NewInvoiceSequence(userID, fy, highest).Peek(), nil
}

func (a *GormNumberAllocator) next(tx *gorm.DB, userID uuid.UUID, fy invoicing.FinancialYear) (int, error) {
	query := tx.Where("user_id = ? AND financial_year = ?", userID, fy.String())
	if a.rowLocks {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model models.InvoiceSequenceModel
	err := query.First(&model).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		highest, err := highestIssued(tx, userID, fy)
		if err != nil {
			return 0, err
		}
		seq := invoicing.NewInvoiceSequence(userID, fy, highest)
		value := seq.Next()
		model.FromDomain(seq)
		if err := tx.Create(&model).Error; err != nil {
			// a concurrent transaction created the counter first
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return 0, invoicing.ErrAllocationConflict
			}
			return 0, err
		}
		return value, nil
	case err != nil:
		return 0, err
	}

	seq, err := model.ToDomain()
	if err != nil {
		return 0, err
	}
	// invoices inserted without the counter (imports, restores) push it forward
	highest, err := highestIssued(tx, userID, fy)
	if err != nil {
		return 0, err
	}
	seq.CatchUp(highest)
	value := seq.Next()
	if err := tx.Model(&models.InvoiceSequenceModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"last_value": seq.LastValue,
			"updated_at": seq.UpdatedAt,
		}).Error; err != nil {
		return 0, err
	}
	return value, nil
}

// highestIssued returns the largest sequence already used by the user's
// invoices in fy. Rows imported without a sequence contribute the numeric
// prefix of their invoice number; malformed numbers count as zero.
func highestIssued(db *gorm.DB, userID uuid.UUID, fy invoicing.FinancialYear) (int, error) {
	scope := func() *gorm.DB {
		return db.Model(&models.InvoiceModel{}).Where("user_id = ? AND financial_year = ?", userID, fy.String())
	}

	var maxSeq sql.NullInt64
	if err := scope().Select("MAX(sequence)").Scan(&maxSeq).Error; err != nil {
		return 0, err
	}

	var legacy []string
	if err := scope().Where("sequence <= 0").Pluck("invoice_number", &legacy).Error; err != nil {
		return 0, err
	}

	return invoicing.HighestSequence([]int{int(maxSeq.Int64)}, legacy), nil
}

// Ensure GormNumberAllocator implements NumberAllocator
var _ invoicing.NumberAllocator = (*GormNumberAllocator)(nil)
