package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/billbook/backend/internal/domain/banking"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amountPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newTestBill(t *testing.T, userID uuid.UUID, number string, day int, amount string) *banking.CompanyBill {
	t.Helper()
	bill, err := banking.NewCompanyBill(userID, banking.CompanyBillInput{
		CompanyName:     "Acme",
		InvoiceNumber:   number,
		TransactionDate: datePtr(2024, time.July, day),
		Amount:          amountPtr(amount),
		PaymentMethod:   "banking",
		BankName:        "HDFC",
	})
	require.NoError(t, err)
	return bill
}

// ============ Owned Store Tests ============

func TestGormOwnedStore_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBuyerTransactionRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	tx, err := banking.NewBuyerTransaction(owner, banking.BuyerTransactionInput{
		BuyerName:     "Acme",
		Amount:        amountPtr("250.50"),
		PaymentMethod: "cash",
		BankName:      "ignored",
	}, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tx))

	t.Run("find scoped to owner", func(t *testing.T) {
		got, err := repo.FindByIDForUser(ctx, owner, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.BuyerName)
		assert.True(t, got.Amount.Equal(decimal.RequireFromString("250.50")))
		assert.Equal(t, banking.PaymentMethodCash, got.PaymentMethod)
		assert.Empty(t, got.BankName)

		_, err = repo.FindByIDForUser(ctx, uuid.New(), tx.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		tx.Notice = "Paid in full"
		require.NoError(t, repo.Update(ctx, tx))

		got, err := repo.FindByIDForUser(ctx, owner, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, "Paid in full", got.Notice)
	})

	t.Run("update by another user is not found", func(t *testing.T) {
		stolen := *tx
		stolen.UserID = uuid.New()
		assert.ErrorIs(t, repo.Update(ctx, &stolen), shared.ErrNotFound)
	})

	t.Run("list paginates", func(t *testing.T) {
		page, err := repo.FindAllForUser(ctx, owner, shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Len(t, page, 1)

		empty, err := repo.FindAllForUser(ctx, owner, shared.Filter{Page: 2, PageSize: 10})
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("delete", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteForUser(ctx, uuid.New(), tx.ID), shared.ErrNotFound)
		require.NoError(t, repo.DeleteForUser(ctx, owner, tx.ID))
		_, err := repo.FindByIDForUser(ctx, owner, tx.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOtherTransactionRepository_SignedAmounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOtherTransactionRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	for _, in := range []banking.OtherTransactionInput{
		{Type: "debit", Category: "Rent", Date: datePtr(2024, time.July, 1), Notice: "July rent", Amount: amountPtr("500")},
		{Type: "credit", Category: "Refund", Date: datePtr(2024, time.July, 2), Notice: "Vendor refund", Amount: amountPtr("-75")},
	} {
		other, err := banking.NewOtherTransaction(owner, in)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, other))
	}

	all, err := repo.FindAllForUser(ctx, owner, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	// newest first
	assert.Equal(t, banking.TransactionTypeCredit, all[0].Type)
	assert.True(t, all[0].Amount.Equal(decimal.NewFromInt(75)))
	assert.True(t, all[1].Amount.Equal(decimal.NewFromInt(-500)))
}

// ============ Company Bill Repository Tests ============

func TestGormCompanyBillRepository_FindForInvoices(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCompanyBillRepository(db)
	ctx := context.Background()
	owner := uuid.New()
	invoiceID := uuid.New()

	linked := newTestBill(t, owner, "01-2024/2025", 10, "500")
	linked.LinkInvoice(invoiceID)
	unlinked := newTestBill(t, owner, "01-2024/2025", 5, "200")
	// text matches but the row is linked elsewhere
	elsewhere := newTestBill(t, owner, "01-2024/2025", 6, "999")
	elsewhere.LinkInvoice(uuid.New())
	foreign := newTestBill(t, uuid.New(), "01-2024/2025", 1, "10")

	for _, b := range []*banking.CompanyBill{linked, unlinked, elsewhere, foreign} {
		require.NoError(t, repo.Create(ctx, b))
	}

	tests := []struct {
		name       string
		invoiceIDs []uuid.UUID
		numbers    []string
		want       []uuid.UUID
	}{
		{"by id and number", []uuid.UUID{invoiceID}, []string{"01-2024/2025"}, []uuid.UUID{unlinked.ID, linked.ID}},
		{"by id only", []uuid.UUID{invoiceID}, nil, []uuid.UUID{linked.ID}},
		{"by number only", nil, []string{"01-2024/2025"}, []uuid.UUID{unlinked.ID}},
		{"nothing asked", nil, nil, []uuid.UUID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bills, err := repo.FindForInvoices(ctx, owner, tt.invoiceIDs, tt.numbers)
			require.NoError(t, err)
			ids := make([]uuid.UUID, 0, len(bills))
			for _, b := range bills {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestGormCompanyBillRepository_FindForInvoices_Chunked(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCompanyBillRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	prev := inListChunk
	inListChunk = 2
	t.Cleanup(func() { inListChunk = prev })

	var ids []uuid.UUID
	var numbers []string
	var want []uuid.UUID
	// day 20 down to 16 are linked, 15 down to 11 unlinked; results come oldest first
	for i := 0; i < 10; i++ {
		number := fmt.Sprintf("%02d-2024/2025", i+1)
		bill := newTestBill(t, owner, number, 20-i, "100")
		if i < 5 {
			id := uuid.New()
			bill.LinkInvoice(id)
			ids = append(ids, id)
		} else {
			numbers = append(numbers, number)
		}
		require.NoError(t, repo.Create(ctx, bill))
		want = append([]uuid.UUID{bill.ID}, want...)
	}
	// padding that matches nothing still has to be queried in its own chunks
	for i := 0; i < 7; i++ {
		ids = append(ids, uuid.New())
		numbers = append(numbers, fmt.Sprintf("99-%d", i))
	}

	bills, err := repo.FindForInvoices(ctx, owner, ids, numbers)
	require.NoError(t, err)
	got := make([]uuid.UUID, len(bills))
	for i, b := range bills {
		got[i] = b.ID
	}
	assert.Equal(t, want, got)
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		items []int
		size  int
		want  [][]int
	}{
		{"empty", nil, 3, nil},
		{"smaller than size", []int{1, 2}, 3, [][]int{{1, 2}}},
		{"exact multiple", []int{1, 2, 3, 4}, 2, [][]int{{1, 2}, {3, 4}}},
		{"remainder", []int{1, 2, 3, 4, 5}, 2, [][]int{{1, 2}, {3, 4}, {5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunk(tt.items, tt.size))
		})
	}
}

// ============ Catalog Repository Tests ============

func TestGormBankRepository_GetOrCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBankRepository(db)
	ctx := context.Background()

	bank, err := banking.NewBank("HDFC")
	require.NoError(t, err)

	first, created, err := repo.GetOrCreate(ctx, bank)
	require.NoError(t, err)
	assert.True(t, created)

	again, err := banking.NewBank(" HDFC ")
	require.NoError(t, err)
	second, created, err := repo.GetOrCreate(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	axis, err := banking.NewBank("Axis")
	require.NoError(t, err)
	_, _, err = repo.GetOrCreate(ctx, axis)
	require.NoError(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Axis", all[0].Name)
	assert.Equal(t, "HDFC", all[1].Name)
}

func TestGormPartnerRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPartnerRepository(db)
	ctx := context.Background()

	partner, err := banking.NewPartner("Sharma & Co")
	require.NoError(t, err)
	saved, created, err := repo.GetOrCreate(ctx, partner)
	require.NoError(t, err)
	assert.True(t, created)

	got, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sharma & Co", got.Name)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
