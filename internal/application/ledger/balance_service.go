// Package ledger serves buyer balances: reconciled ledgers, the outstanding
// summary and spreadsheet exports, cached per user.
package ledger

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/billbook/backend/internal/domain/banking"
	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/billbook/backend/internal/domain/ledger"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/infrastructure/export"
	"github.com/billbook/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const spanService = "balance"

// ErrNoInvoices is returned when a buyer has no invoices to reconcile
var ErrNoInvoices = shared.NewDomainError("NOT_FOUND", "No invoices found for this buyer")

// cache keys are prefixed so a GSTIN never collides with a buyer name
const (
	keyByGST  = "gst:"
	keyByName = "name:"
)

// BalanceService reconciles invoices against recorded deposits
type BalanceService struct {
	invoices   invoicing.InvoiceRepository
	deposits   banking.CompanyBillRepository
	cache      ledger.Cache
	reconciler *ledger.BalanceReconciler
	logger     *zap.Logger
}

// NewBalanceService creates a new BalanceService. cache may be nil.
func NewBalanceService(
	invoices invoicing.InvoiceRepository,
	deposits banking.CompanyBillRepository,
	cache ledger.Cache,
	logger *zap.Logger,
) *BalanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BalanceService{
		invoices:   invoices,
		deposits:   deposits,
		cache:      cache,
		reconciler: ledger.NewBalanceReconciler(),
		logger:     logger,
	}
}

// LedgerByGST returns the ledger of the buyer with GSTIN gstin
func (s *BalanceService) LedgerByGST(ctx context.Context, userID uuid.UUID, gstin string) (*ledger.Ledger, error) {
	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	return s.buyerLedger(ctx, userID, keyByGST+gstin, gstin, func(ctx context.Context) ([]invoicing.Invoice, error) {
		return s.invoices.FindByBuyerGSTIN(ctx, userID, gstin)
	})
}

// LedgerByName returns the ledger of the buyer named name, for buyers
// invoiced without a GSTIN
func (s *BalanceService) LedgerByName(ctx context.Context, userID uuid.UUID, name string) (*ledger.Ledger, error) {
	name = strings.TrimSpace(name)
	return s.buyerLedger(ctx, userID, keyByName+name, name, func(ctx context.Context) ([]invoicing.Invoice, error) {
		return s.invoices.FindByBuyerName(ctx, userID, name)
	})
}

// Summary lists every buyer with a non-zero remaining balance and the grand
// total outstanding. It reads every invoice of the user and is not cached.
func (s *BalanceService) Summary(ctx context.Context, userID uuid.UUID) (*ledger.Summary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "summary", telemetry.SpanAttrUserID, userID.String())
	defer span.End()

	invoices, err := s.invoices.FindAllForUser(ctx, userID, invoicing.InvoiceFilter{})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	deposits, err := s.depositsFor(ctx, userID, invoices)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	summary := ledger.SummarizeBuyers(s.reconciler.ReconcileAll(toSnapshots(invoices), deposits))
	return &summary, nil
}

// Export renders the ledger of a GSTIN as an XLSX workbook and returns the
// file contents and a download name
func (s *BalanceService) Export(ctx context.Context, userID uuid.UUID, gstin string) ([]byte, string, error) {
	l, err := s.LedgerByGST(ctx, userID, gstin)
	if err != nil {
		return nil, "", err
	}

	wb, err := export.NewLedgerWorkbook()
	if err != nil {
		return nil, "", err
	}
	defer wb.Close()

	if _, err := wb.AddLedger(l); err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if _, err := wb.WriteTo(&buf); err != nil {
		s.logger.Error("Failed to write ledger workbook", zap.String("buyer_key", l.BuyerKey), zap.Error(err))
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("ledger-%s.xlsx", l.BuyerKey), nil
}

func (s *BalanceService) buyerLedger(
	ctx context.Context,
	userID uuid.UUID,
	cacheKey, buyerKey string,
	load func(context.Context) ([]invoicing.Invoice, error),
) (*ledger.Ledger, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "ledger",
		telemetry.SpanAttrUserID, userID.String(),
		telemetry.SpanAttrBuyerKey, buyerKey,
	)
	defer span.End()

	if buyerKey == "" {
		return nil, shared.NewValidationError().Add("buyer", "Buyer GSTIN or name is required.")
	}

	if l := s.cached(ctx, userID, cacheKey); l != nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrCacheHit, true)
		return l, nil
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCacheHit, false)

	invoices, err := load(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, ErrNoInvoices
	}

	deposits, err := s.depositsFor(ctx, userID, invoices)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	l := s.reconciler.Reconcile(buyerKey, toSnapshots(invoices), deposits)
	s.store(ctx, userID, cacheKey, l)
	return l, nil
}

func (s *BalanceService) depositsFor(ctx context.Context, userID uuid.UUID, invoices []invoicing.Invoice) ([]ledger.Deposit, error) {
	if len(invoices) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, len(invoices))
	numbers := make([]string, len(invoices))
	for i := range invoices {
		ids[i] = invoices[i].ID
		numbers[i] = invoices[i].InvoiceNumber
	}

	bills, err := s.deposits.FindForInvoices(ctx, userID, ids, numbers)
	if err != nil {
		return nil, err
	}
	deposits := make([]ledger.Deposit, len(bills))
	for i := range bills {
		deposits[i] = toDeposit(&bills[i])
	}
	return deposits, nil
}

// cached returns nil on a miss or a cache failure; the cache never fails a
// read
func (s *BalanceService) cached(ctx context.Context, userID uuid.UUID, key string) *ledger.Ledger {
	if s.cache == nil {
		return nil
	}
	l, err := s.cache.GetLedger(ctx, userID, key)
	if err != nil {
		s.logger.Warn("Balance cache read failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	return l
}

func (s *BalanceService) store(ctx context.Context, userID uuid.UUID, key string, l *ledger.Ledger) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetLedger(ctx, userID, key, l); err != nil {
		s.logger.Warn("Balance cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func toSnapshots(invoices []invoicing.Invoice) []ledger.InvoiceSnapshot {
	out := make([]ledger.InvoiceSnapshot, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		out[i] = ledger.InvoiceSnapshot{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			InvoiceDate:   inv.InvoiceDate,
			BuyerName:     inv.Buyer.Name,
			BuyerGSTIN:    inv.Buyer.GSTIN,
			TotalWithGST:  inv.TotalWithGST,
		}
	}
	return out
}

func toDeposit(b *banking.CompanyBill) ledger.Deposit {
	return ledger.Deposit{
		ID:            b.ID,
		InvoiceID:     b.InvoiceID,
		InvoiceNumber: b.InvoiceNumber,
		Date:          b.TransactionDate,
		Notice:        b.Notice,
		Amount:        b.Amount,
	}
}
