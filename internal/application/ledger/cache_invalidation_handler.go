package ledger

import (
	"context"
	"fmt"

	"github.com/billbook/backend/internal/domain/banking"
	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/billbook/backend/internal/domain/ledger"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CacheInvalidationHandler drops a user's cached ledgers whenever one of
// their invoices or deposits changes
type CacheInvalidationHandler struct {
	cache  ledger.Cache
	logger *zap.Logger
}

// NewCacheInvalidationHandler creates a new handler for invoice and deposit events
func NewCacheInvalidationHandler(cache ledger.Cache, logger *zap.Logger) *CacheInvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheInvalidationHandler{cache: cache, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *CacheInvalidationHandler) EventTypes() []string {
	return []string{
		invoicing.EventTypeInvoiceIssued,
		invoicing.EventTypeInvoiceChanged,
		invoicing.EventTypeInvoiceDeleted,
		banking.EventTypeDepositRecorded,
		banking.EventTypeDepositDeleted,
	}
}

// Handle invalidates the event owner's ledgers
func (h *CacheInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	userID := event.UserID()
	if userID == uuid.Nil {
		return fmt.Errorf("event %s has no owner", event.EventType())
	}

	if err := h.cache.InvalidateUser(ctx, userID); err != nil {
		h.logger.Error("Failed to invalidate balance cache",
			zap.String("user_id", userID.String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return err
	}

	h.logger.Debug("Balance cache invalidated",
		zap.String("user_id", userID.String()),
		zap.String("event_type", event.EventType()))
	return nil
}

var _ shared.EventHandler = (*CacheInvalidationHandler)(nil)
