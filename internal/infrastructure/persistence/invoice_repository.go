package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements invoicing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) forUser(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Scopes(OwnerScope(userID))
}

// FindByIDForUser finds an invoice by ID within the user's invoices
func (r *GormInvoiceRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.forUser(ctx, userID).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an invoice by its formatted number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, userID uuid.UUID, invoiceNumber string) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.forUser(ctx, userID).Where("invoice_number = ?", strings.TrimSpace(invoiceNumber)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForUser lists invoices ordered by financial year then sequence,
// unless the filter asks for a whitelisted sort field
func (r *GormInvoiceRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter invoicing.InvoiceFilter) ([]invoicing.Invoice, error) {
	query := r.applyFilter(r.forUser(ctx, userID), filter)

	if field := ValidateSortField(filter.OrderBy, InvoiceSortFields, ""); field != "" {
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	}
	query = query.Order("financial_year ASC").Order("sequence ASC")

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.InvoiceModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// CountForUser counts invoices matching the filter
func (r *GormInvoiceRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter invoicing.InvoiceFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.forUser(ctx, userID), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByBuyerGSTIN lists a buyer's invoices ordered by invoice date ascending
func (r *GormInvoiceRepository) FindByBuyerGSTIN(ctx context.Context, userID uuid.UUID, gstin string) ([]invoicing.Invoice, error) {
	return r.findByBuyer(ctx, userID, "buyer_gst = ?", strings.ToUpper(strings.TrimSpace(gstin)))
}

// FindByBuyerName lists a buyer's invoices ordered by invoice date ascending
func (r *GormInvoiceRepository) FindByBuyerName(ctx context.Context, userID uuid.UUID, name string) ([]invoicing.Invoice, error) {
	return r.findByBuyer(ctx, userID, "buyer_name = ?", strings.TrimSpace(name))
}

func (r *GormInvoiceRepository) findByBuyer(ctx context.Context, userID uuid.UUID, cond string, value string) ([]invoicing.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.forUser(ctx, userID).
		Where(cond, value).
		Order("invoice_date ASC").
		Order("financial_year ASC").
		Order("sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// Create inserts a new invoice. A taken number surfaces as ErrAllocationConflict.
func (r *GormInvoiceRepository) Create(ctx context.Context, inv *invoicing.Invoice) error {
	return createInvoice(r.db.WithContext(ctx), inv)
}

func createInvoice(tx *gorm.DB, inv *invoicing.Invoice) error {
	if err := tx.Create(models.InvoiceModelFromDomain(inv)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return invoicing.ErrAllocationConflict
		}
		return err
	}
	return nil
}

// SaveWithLock updates an existing invoice with optimistic locking (version
// check). Number, sequence, financial year and owner are never rewritten.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, inv *invoicing.Invoice) error {
	currentVersion := inv.Version
	inv.Version++
	inv.UpdatedAt = time.Now()

	model := models.InvoiceModelFromDomain(inv)
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND user_id = ? AND version = ?", inv.ID, inv.UserID, currentVersion).
		Select("*").
		Omit("id", "user_id", "created_at", "financial_year", "sequence", "invoice_number").
		Updates(model)
	if result.Error != nil {
		inv.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		inv.Version = currentVersion
		var count int64
		if err := r.forUser(ctx, inv.UserID).Where("id = ?", inv.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForUser removes an invoice
func (r *GormInvoiceRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&models.InvoiceModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter invoicing.InvoiceFilter) *gorm.DB {
	if filter.FinancialYear != "" {
		query = query.Where("financial_year = ?", filter.FinancialYear)
	}
	if filter.BuyerGSTIN != "" {
		query = query.Where("buyer_gst = ?", strings.ToUpper(filter.BuyerGSTIN))
	}
	if filter.BuyerName != "" {
		query = query.Where("buyer_name = ?", filter.BuyerName)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(buyer_name) LIKE ? OR LOWER(invoice_number) LIKE ? OR LOWER(buyer_gst) LIKE ?",
			pattern, pattern, pattern)
	}
	return query
}

func toInvoices(rows []models.InvoiceModel) []invoicing.Invoice {
	invoices := make([]invoicing.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)
