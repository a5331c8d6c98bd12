//go:build integration

package integration

import (
	"context"
	"os"
	"sort"
	"sync"
	"testing"

	appbanking "github.com/billbook/backend/internal/application/banking"
	appinvoicing "github.com/billbook/backend/internal/application/invoicing"
	appledger "github.com/billbook/backend/internal/application/ledger"
	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/infrastructure/cache"
	"github.com/billbook/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

func newInvoiceService(db *TestDB) *appinvoicing.InvoiceService {
	return appinvoicing.NewInvoiceService(
		persistence.NewGormInvoiceRepository(db.DB),
		persistence.NewGormNumberAllocator(db.DB, true),
		persistence.NewGormSettingRepository(db.DB),
		nil, nil,
		appinvoicing.InvoiceServiceConfig{Pricer: invoicing.NewPricer()},
		zap.NewNop(),
	)
}

func invoiceRequest(buyer, gstin, date string) appinvoicing.CreateInvoiceRequest {
	amount := decimal.NewFromInt(1000)
	return appinvoicing.CreateInvoiceRequest{
		BuyerName:    buyer,
		BuyerAddress: "12 Ring Road, Surat",
		BuyerGST:     gstin,
		InvoiceDate:  date,
		Country:      "India",
		Currency:     "INR",
		State:        "Gujarat",
		BaseAmount:   &amount,
	}
}

// ============ Invoice Numbering Tests ============

func TestInvoiceNumbering_ConcurrentCreates(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := NewSharedTestDB(t)
	db.CleanTables()
	svc := newInvoiceService(db)
	ctx := context.Background()
	userID := uuid.New()

	const workers = 25
	numbers := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := svc.Create(ctx, userID, invoiceRequest("Acme Tools", "24AAACA1234A1Z5", "2024-08-01"))
			errs[i] = err
			if err == nil {
				numbers[i] = resp.InvoiceNumber
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}

	sort.Strings(numbers)
	for i, number := range numbers {
		want := invoicing.FormatInvoiceNumber(i+1, invoicing.NewFinancialYear(2024))
		assert.Equal(t, want, number, "numbers are gapless and unique")
	}

	next, err := svc.NextNumber(ctx, userID)
	require.NoError(t, err)
	assert.NotEmpty(t, next.InvoiceNumber)
}

func TestInvoiceNumbering_SequencesPerUserAndYear(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := NewSharedTestDB(t)
	db.CleanTables()
	svc := newInvoiceService(db)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	a1, err := svc.Create(ctx, alice, invoiceRequest("Acme Tools", "", "2025-03-31"))
	require.NoError(t, err)
	a2, err := svc.Create(ctx, alice, invoiceRequest("Acme Tools", "", "2025-04-01"))
	require.NoError(t, err)
	b1, err := svc.Create(ctx, bob, invoiceRequest("Acme Tools", "", "2025-03-31"))
	require.NoError(t, err)

	assert.Equal(t, "01-2024/2025", a1.InvoiceNumber)
	assert.Equal(t, "01-2025/2026", a2.InvoiceNumber, "a new financial year starts at 1")
	assert.Equal(t, "01-2024/2025", b1.InvoiceNumber)
}

// ============ User Isolation Tests ============

func TestInvoices_UserIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := NewSharedTestDB(t)
	db.CleanTables()
	svc := newInvoiceService(db)
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	created, err := svc.Create(ctx, owner, invoiceRequest("Acme Tools", "24AAACA1234A1Z5", "2024-06-15"))
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, stranger, created.Invoice.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = svc.Delete(ctx, stranger, created.Invoice.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	list, err := svc.ListByGST(ctx, stranger, "24AAACA1234A1Z5")
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := svc.GetByID(ctx, owner, created.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, created.InvoiceNumber, got.InvoiceNumber)
}

// ============ Ledger Tests ============

func TestLedger_DepositsReduceBalance(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := NewSharedTestDB(t)
	db.CleanTables()
	ctx := context.Background()
	userID := uuid.New()
	log := zap.NewNop()

	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	billRepo := persistence.NewGormCompanyBillRepository(db.DB)
	ledgerCache := cache.NewInMemoryBalanceCache(0)
	balances := appledger.NewBalanceService(invoiceRepo, billRepo, ledgerCache, log)
	transactions := appbanking.NewTransactionService(appbanking.Repositories{
		CompanyBills:    billRepo,
		Buyers:          persistence.NewGormBuyerTransactionRepository(db.DB),
		Salaries:        persistence.NewGormSalaryPaymentRepository(db.DB),
		Others:          persistence.NewGormOtherTransactionRepository(db.DB),
		BankingDeposits: persistence.NewGormBankingDepositRepository(db.DB),
		Banks:           persistence.NewGormBankRepository(db.DB),
		Partners:        persistence.NewGormPartnerRepository(db.DB),
		Invoices:        invoiceRepo,
	}, nil, log)

	inv, err := newInvoiceService(db).Create(ctx, userID, invoiceRequest("Acme Tools", "24AAACA1234A1Z5", "2024-06-15"))
	require.NoError(t, err)

	amount := decimal.NewFromInt(500)
	_, err = transactions.CreateCompanyBill(ctx, userID, appbanking.CreateCompanyBillRequest{
		CompanyName:     "Acme Tools",
		InvoiceNumber:   inv.InvoiceNumber,
		TransactionDate: "2024-07-01",
		Amount:          &amount,
		PaymentMethod:   "banking",
		BankName:        "HDFC",
	})
	require.NoError(t, err)

	l, err := balances.LedgerByGST(ctx, userID, "24AAACA1234A1Z5")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1180).Equal(l.TotalInvoiceAmount), l.TotalInvoiceAmount.String())
	assert.True(t, decimal.NewFromInt(500).Equal(l.TotalDepositAmount), l.TotalDepositAmount.String())
	assert.True(t, decimal.NewFromInt(680).Equal(l.TotalRemainingBalance), l.TotalRemainingBalance.String())
}

// ============ Calendar Date Tests ============

func TestInvoices_DatesSurviveSessionTimeZone(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := NewSharedTestDB(t)
	db.CleanTables()
	ctx := context.Background()
	userID := uuid.New()

	created, err := newInvoiceService(db).Create(ctx, userID, invoiceRequest("Acme Tools", "", "2024-04-01"))
	require.NoError(t, err)

	west, sqlDB := connectToDatabase(t, db.DSN+"&TimeZone=America/New_York")
	defer sqlDB.Close()

	var dataType string
	require.NoError(t, west.Raw(`SELECT data_type FROM information_schema.columns
		WHERE table_name = 'invoices' AND column_name = 'invoice_date'`).Scan(&dataType).Error)
	assert.Equal(t, "date", dataType)

	got, err := newInvoiceService(&TestDB{DB: west, SqlDB: sqlDB, t: t}).GetByID(ctx, userID, created.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", got.InvoiceDate)
	assert.Equal(t, "01-2024/2025", got.InvoiceNumber)
}
