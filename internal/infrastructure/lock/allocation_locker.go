package lock

import (
	"context"
	"errors"
	"fmt"

	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AllocationKey names the lock guarding one invoice counter
func AllocationKey(userID uuid.UUID, fy invoicing.FinancialYear) string {
	return fmt.Sprintf("invoice-seq:%s:%s", userID, fy)
}

// AllocationLocker wraps a NumberAllocator so that allocations for the same
// (user, financial year) counter never run concurrently, even on different
// instances. The database row lock still applies underneath.
type AllocationLocker struct {
	next   invoicing.NumberAllocator
	locker Locker
	logger *zap.Logger
}

// NewAllocationLocker decorates next with locker
func NewAllocationLocker(next invoicing.NumberAllocator, locker Locker, logger *zap.Logger) *AllocationLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationLocker{next: next, locker: locker, logger: logger}
}

// Allocate consumes the next sequence while holding the counter lock
func (a *AllocationLocker) Allocate(ctx context.Context, userID uuid.UUID, fy invoicing.FinancialYear) (int, error) {
	var seq int
	err := a.withLock(ctx, userID, fy, func() error {
		var err error
		seq, err = a.next.Allocate(ctx, userID, fy)
		return err
	})
	return seq, err
}

// Issue allocates and stores an invoice while holding the counter lock
func (a *AllocationLocker) Issue(ctx context.Context, userID uuid.UUID, fy invoicing.FinancialYear, build func(sequence int) (*invoicing.Invoice, error)) (*invoicing.Invoice, error) {
	var inv *invoicing.Invoice
	err := a.withLock(ctx, userID, fy, func() error {
		var err error
		inv, err = a.next.Issue(ctx, userID, fy, build)
		return err
	})
	return inv, err
}

// PeekNext does not lock: the preview may be stale by the time it is used
func (a *AllocationLocker) PeekNext(ctx context.Context, userID uuid.UUID, fy invoicing.FinancialYear) (int, error) {
	return a.next.PeekNext(ctx, userID, fy)
}

func (a *AllocationLocker) withLock(ctx context.Context, userID uuid.UUID, fy invoicing.FinancialYear, fn func() error) error {
	key := AllocationKey(userID, fy)

	release, err := a.locker.Obtain(ctx, key)
	if errors.Is(err, ErrNotObtained) {
		a.logger.Warn("invoice counter is busy", zap.String("lock_key", key))
		return invoicing.ErrAllocationConflict
	}
	if err != nil {
		return err
	}
	defer func() {
		// release with a fresh context so a cancelled request still unlocks
		if err := release(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn("failed to release invoice counter lock", zap.String("lock_key", key), zap.Error(err))
		}
	}()

	return fn()
}

var _ invoicing.NumberAllocator = (*AllocationLocker)(nil)
