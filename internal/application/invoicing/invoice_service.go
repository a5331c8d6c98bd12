// Package invoicing provides the invoice application service: issuing,
// editing, listing and printing GST invoices.
package invoicing

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/billbook/backend/internal/domain/settings"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const spanService = "invoice"

// DefaultMaxAllocRetry bounds how often a create is retried after losing a
// number to a concurrent request
const DefaultMaxAllocRetry = 3

// ErrPrintingDisabled is returned by PDF when no printer is configured
var ErrPrintingDisabled = shared.NewDomainError("PRINTING_DISABLED", "Invoice printing is not enabled")

// RateDefaultedWarning is attached to responses whose foreign total was
// converted without an exchange rate
const RateDefaultedWarning = "No exchange rate was given; the home-currency equivalent was computed at rate 1."

// Printer renders an invoice to PDF
type Printer interface {
	Print(ctx context.Context, inv *invoicing.Invoice, seller *settings.Setting) ([]byte, error)
}

// Metrics receives invoicing counters. *telemetry.InvoiceMetrics satisfies it.
type Metrics interface {
	InvoiceIssued(ctx context.Context, currency, supply string)
	InvoiceDeleted(ctx context.Context)
	AllocationRetried(ctx context.Context)
	RateDefaulted(ctx context.Context, currency string)
}

type noopMetrics struct{}

func (noopMetrics) InvoiceIssued(context.Context, string, string) {}
func (noopMetrics) InvoiceDeleted(context.Context)                {}
func (noopMetrics) AllocationRetried(context.Context)             {}
func (noopMetrics) RateDefaulted(context.Context, string)         {}

// InvoiceServiceConfig contains configuration for the invoice service
type InvoiceServiceConfig struct {
	Pricer        invoicing.Pricer
	MaxAllocRetry int
	// Now is the clock used to pick the financial year of undated requests
	Now     func() time.Time
	Metrics Metrics
}

// InvoiceService handles invoice business operations
type InvoiceService struct {
	repo      invoicing.InvoiceRepository
	allocator invoicing.NumberAllocator
	settings  settings.Repository
	publisher shared.EventPublisher
	printer   Printer
	pricer    invoicing.Pricer
	maxRetry  int
	now       func() time.Time
	metrics   Metrics
	logger    *zap.Logger
}

// NewInvoiceService creates a new InvoiceService. publisher and printer may
// be nil.
func NewInvoiceService(
	repo invoicing.InvoiceRepository,
	allocator invoicing.NumberAllocator,
	settingsRepo settings.Repository,
	publisher shared.EventPublisher,
	printer Printer,
	cfg InvoiceServiceConfig,
	logger *zap.Logger,
) *InvoiceService {
	if cfg.MaxAllocRetry <= 0 {
		cfg.MaxAllocRetry = DefaultMaxAllocRetry
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		repo:      repo,
		allocator: allocator,
		settings:  settingsRepo,
		publisher: publisher,
		printer:   printer,
		pricer:    cfg.Pricer,
		maxRetry:  cfg.MaxAllocRetry,
		now:       cfg.Now,
		metrics:   cfg.Metrics,
		logger:    logger,
	}
}

// Create validates the request, allocates the next number of the invoice's
// financial year and stores the invoice. Losing a number to a concurrent
// request is retried up to the configured limit.
func (s *InvoiceService) Create(ctx context.Context, userID uuid.UUID, req CreateInvoiceRequest) (*CreateInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "create", telemetry.SpanAttrUserID, userID.String())
	defer span.End()

	draft, err := req.ToDraft()
	if err != nil {
		return nil, err
	}
	draft = draft.Normalize()
	if err := draft.Validate(s.pricer.Tax); err != nil {
		return nil, err
	}

	fy := invoicing.FinancialYearFor(draft.InvoiceDate, s.now)
	telemetry.SetAttributes(span, telemetry.SpanAttrFinancialYear, fy.String())

	var inv *invoicing.Invoice
	for attempt := 1; ; attempt++ {
		inv, err = s.allocator.Issue(ctx, userID, fy, func(seq int) (*invoicing.Invoice, error) {
			return invoicing.NewInvoice(userID, fy, seq, draft, s.pricer)
		})
		if err == nil {
			break
		}
		if !errors.Is(err, invoicing.ErrAllocationConflict) || attempt >= s.maxRetry {
			telemetry.RecordError(span, err)
			if errors.Is(err, invoicing.ErrAllocationConflict) {
				s.logger.Warn("Invoice number allocation kept conflicting",
					zap.String("user_id", userID.String()),
					zap.String("financial_year", fy.String()),
					zap.Int("attempts", attempt))
			} else {
				s.logger.Error("Failed to issue invoice", zap.String("user_id", userID.String()), zap.Error(err))
			}
			return nil, err
		}
		telemetry.AddEvent(span, "allocation_conflict", telemetry.SpanAttrAttempt, attempt)
		s.metrics.AllocationRetried(ctx)
		s.logger.Debug("Invoice number taken, retrying",
			zap.String("financial_year", fy.String()),
			zap.Int("attempt", attempt))
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, inv.ID.String(),
		telemetry.SpanAttrInvoiceNumber, inv.InvoiceNumber,
	)

	resp := &CreateInvoiceResponse{
		InvoiceNumber: inv.InvoiceNumber,
		FinancialYear: inv.FinancialYear.String(),
		Invoice:       ToInvoiceResponse(inv),
	}
	if inv.RateDefaulted() {
		s.warnRateDefaulted(ctx, inv)
		resp.Warning = RateDefaultedWarning
	}
	s.metrics.InvoiceIssued(ctx, string(inv.Currency), string(s.pricer.Tax.SupplyType(inv.Country, inv.State)))

	s.publish(ctx, inv)
	s.logger.Info("Invoice issued",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber))
	return resp, nil
}

// Update applies a partial update and recomputes the totals. The number and
// financial year never change.
func (s *InvoiceService) Update(ctx context.Context, userID, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "update",
		telemetry.SpanAttrUserID, userID.String(),
		telemetry.SpanAttrInvoiceID, id.String(),
	)
	defer span.End()

	inv, err := s.repo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	draft, err := req.ApplyTo(inv.Draft())
	if err != nil {
		return nil, err
	}
	draft = draft.Normalize()
	if err := draft.Validate(s.pricer.Tax); err != nil {
		return nil, err
	}

	inv.Update(draft, s.pricer)
	if err := s.repo.SaveWithLock(ctx, inv); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	if inv.RateDefaulted() {
		s.warnRateDefaulted(ctx, inv)
		resp.Warning = RateDefaultedWarning
	}

	s.publish(ctx, inv)
	return &resp, nil
}

// GetByID returns one of the user's invoices exactly as stored
func (s *InvoiceService) GetByID(ctx context.Context, userID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.repo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List returns the user's invoices ordered by financial year then sequence,
// optionally limited to one financial year. OrderBy takes precedence over
// the default order when it names a sortable column. The total counts every
// matching invoice, not just the page.
func (s *InvoiceService) List(ctx context.Context, userID uuid.UUID, req ListInvoicesRequest) ([]InvoiceResponse, int64, error) {
	filter := invoicing.InvoiceFilter{}
	filter.OrderBy = req.OrderBy
	filter.OrderDir = req.OrderDir
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	if req.Year != "" {
		fy, err := invoicing.ParseFinancialYear(req.Year)
		if err != nil {
			return nil, 0, shared.NewValidationError().Add("year", "Financial year must look like 2024/2025.")
		}
		filter.FinancialYear = fy.String()
	}

	invoices, err := s.repo.FindAllForUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(invoices))
	if filter.PageSize > 0 {
		if total, err = s.repo.CountForUser(ctx, userID, filter); err != nil {
			return nil, 0, err
		}
	}
	return ToInvoiceResponses(invoices), total, nil
}

// ListByGST returns the invoices issued to a buyer GSTIN
func (s *InvoiceService) ListByGST(ctx context.Context, userID uuid.UUID, gstin string) ([]InvoiceResponse, error) {
	invoices, err := s.repo.FindByBuyerGSTIN(ctx, userID, gstin)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponses(invoices), nil
}

// Grouped returns the user's invoices grouped by buyer name, address and
// GSTIN. Groups are numbered from 1; invoices are newest first within a group.
func (s *InvoiceService) Grouped(ctx context.Context, userID uuid.UUID) ([]InvoiceGroupResponse, error) {
	invoices, err := s.repo.FindAllForUser(ctx, userID, invoicing.InvoiceFilter{})
	if err != nil {
		return nil, err
	}
	return GroupInvoices(invoices), nil
}

// NextNumber previews the number the next invoice of the current financial
// year will receive. Nothing is consumed.
func (s *InvoiceService) NextNumber(ctx context.Context, userID uuid.UUID) (*NextNumberResponse, error) {
	fy := invoicing.ResolveFinancialYear(s.now())
	seq, err := s.allocator.PeekNext(ctx, userID, fy)
	if err != nil {
		return nil, err
	}
	return &NextNumberResponse{
		InvoiceNumber: invoicing.FormatInvoiceNumber(seq, fy),
		FinancialYear: fy.String(),
	}, nil
}

// Delete removes an invoice. Deposits linked to it keep their number.
func (s *InvoiceService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "delete",
		telemetry.SpanAttrUserID, userID.String(),
		telemetry.SpanAttrInvoiceID, id.String(),
	)
	defer span.End()

	inv, err := s.repo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return err
	}
	inv.MarkDeleted()
	if err := s.repo.DeleteForUser(ctx, userID, id); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	s.publish(ctx, inv)
	s.metrics.InvoiceDeleted(ctx)

	s.logger.Info("Invoice deleted",
		zap.String("invoice_id", id.String()),
		zap.String("invoice_number", inv.InvoiceNumber))
	return nil
}

// PDF prints an invoice with the user's seller profile. A user without a
// profile gets an invoice without the seller block.
func (s *InvoiceService) PDF(ctx context.Context, userID, id uuid.UUID) ([]byte, string, error) {
	if s.printer == nil {
		return nil, "", ErrPrintingDisabled
	}
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "pdf",
		telemetry.SpanAttrUserID, userID.String(),
		telemetry.SpanAttrInvoiceID, id.String(),
	)
	defer span.End()

	inv, err := s.repo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}

	seller, err := s.settings.FindByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, "", err
		}
		seller = nil
	}

	pdf, err := s.printer.Print(ctx, inv, seller)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to print invoice",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.Error(err))
		return nil, "", err
	}
	return pdf, PDFFileName(inv.InvoiceNumber), nil
}

// PDFFileName turns "07-2024/2025" into "invoice-07-2024-2025.pdf"
func PDFFileName(number string) string {
	b := []byte(number)
	for i, c := range b {
		if c == '/' || c == '\\' || c == ' ' {
			b[i] = '-'
		}
	}
	return "invoice-" + string(b) + ".pdf"
}

// GroupInvoices groups invoices by (buyer name, address, GSTIN). Groups are
// ordered by those fields; invoices in a group newest first.
func GroupInvoices(invoices []invoicing.Invoice) []InvoiceGroupResponse {
	sorted := make([]invoicing.Invoice, len(invoices))
	copy(sorted, invoices)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Buyer, sorted[j].Buyer
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Address != b.Address {
			return a.Address < b.Address
		}
		if a.GSTIN != b.GSTIN {
			return a.GSTIN < b.GSTIN
		}
		return sorted[i].InvoiceDate.After(sorted[j].InvoiceDate)
	})

	groups := make([]InvoiceGroupResponse, 0)
	index := make(map[invoicing.Party]int)
	for i := range sorted {
		inv := &sorted[i]
		pos, ok := index[inv.Buyer]
		if !ok {
			pos = len(groups)
			index[inv.Buyer] = pos
			groups = append(groups, InvoiceGroupResponse{
				SerialNumber: pos + 1,
				BuyerName:    inv.Buyer.Name,
				BuyerAddress: inv.Buyer.Address,
				BuyerGST:     inv.Buyer.GSTIN,
				Invoices:     []InvoiceResponse{},
			})
		}
		groups[pos].Invoices = append(groups[pos].Invoices, ToInvoiceResponse(inv))
	}
	return groups
}

func (s *InvoiceService) warnRateDefaulted(ctx context.Context, inv *invoicing.Invoice) {
	s.metrics.RateDefaulted(ctx, string(inv.Currency))
	s.logger.Warn("Exchange rate missing, converted at 1",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("currency", string(inv.Currency)),
		zap.String("total_with_gst", inv.TotalWithGST.String()))
}

// publish hands the aggregate's events to the bus. Subscribers only refresh
// derived data, so a failure is logged and the write stands.
func (s *InvoiceService) publish(ctx context.Context, inv *invoicing.Invoice) {
	events := inv.GetDomainEvents()
	inv.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish invoice events",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err))
	}
}
