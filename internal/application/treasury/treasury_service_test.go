package treasury

import (
	"context"
	"testing"
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of treasury.Repository
type MockRepository[T any] struct {
	mock.Mock
}

func (m *MockRepository[T]) Create(ctx context.Context, record *T) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRepository[T]) Update(ctx context.Context, record *T) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRepository[T]) FindByIDForUser(ctx context.Context, userID, id uuid.UUID, deleted bool) (*T, error) {
	args := m.Called(ctx, userID, id, deleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRepository[T]) FindAllForUser(ctx context.Context, userID uuid.UUID, deleted bool) ([]T, error) {
	args := m.Called(ctx, userID, deleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) Purge(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func setup() (*Service, *MockRepository[treasury.BankAccount], *MockRepository[treasury.CashEntry]) {
	accounts := new(MockRepository[treasury.BankAccount])
	cash := new(MockRepository[treasury.CashEntry])
	return NewService(accounts, cash, nil), accounts, cash
}

func newAccount(t *testing.T, userID uuid.UUID) *treasury.BankAccount {
	t.Helper()
	a, err := treasury.NewBankAccount(userID, treasury.BankAccountInput{BankName: "SBI", AccountNumber: "123", Amount: dec("100")})
	require.NoError(t, err)
	return a
}

// ============ Bank Account Tests ============

func TestCreateBankAccount(t *testing.T) {
	svc, accounts, _ := setup()
	userID := uuid.New()
	accounts.On("Create", mock.Anything, mock.AnythingOfType("*treasury.BankAccount")).Return(nil)

	resp, err := svc.CreateBankAccount(context.Background(), userID, BankAccountRequest{BankName: "HDFC", AccountNumber: "0099", Amount: dec("2500.005")})
	require.NoError(t, err)
	assert.Equal(t, "HDFC", resp.BankName)
	assert.Equal(t, "2500.01", resp.Amount.StringFixed(2))
	assert.False(t, resp.IsDeleted)
}

func TestBankAccountTrashLifecycle(t *testing.T) {
	userID := uuid.New()

	t.Run("delete moves to trash", func(t *testing.T) {
		svc, accounts, _ := setup()
		acct := newAccount(t, userID)
		accounts.On("FindByIDForUser", mock.Anything, userID, acct.ID, false).Return(acct, nil)
		accounts.On("Update", mock.Anything, acct).Return(nil)

		require.NoError(t, svc.DeleteBankAccount(context.Background(), userID, acct.ID))
		assert.True(t, acct.IsDeleted)
		assert.NotNil(t, acct.DeletedAt)
	})

	t.Run("restore brings it back", func(t *testing.T) {
		svc, accounts, _ := setup()
		acct := newAccount(t, userID)
		require.NoError(t, acct.SoftDelete(time.Now()))
		accounts.On("FindByIDForUser", mock.Anything, userID, acct.ID, true).Return(acct, nil)
		accounts.On("Update", mock.Anything, acct).Return(nil)

		resp, err := svc.RestoreBankAccount(context.Background(), userID, acct.ID)
		require.NoError(t, err)
		assert.False(t, resp.IsDeleted)
		assert.Nil(t, resp.DeletedAt)
	})

	t.Run("purge requires a trashed record", func(t *testing.T) {
		svc, accounts, _ := setup()
		id := uuid.New()
		accounts.On("FindByIDForUser", mock.Anything, userID, id, true).Return(nil, shared.ErrNotFound)

		err := svc.PurgeBankAccount(context.Background(), userID, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		accounts.AssertNotCalled(t, "Purge", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("purge trashed", func(t *testing.T) {
		svc, accounts, _ := setup()
		acct := newAccount(t, userID)
		require.NoError(t, acct.SoftDelete(time.Now()))
		accounts.On("FindByIDForUser", mock.Anything, userID, acct.ID, true).Return(acct, nil)
		accounts.On("Purge", mock.Anything, userID, acct.ID).Return(nil)

		require.NoError(t, svc.PurgeBankAccount(context.Background(), userID, acct.ID))
		accounts.AssertExpectations(t)
	})

	t.Run("list deleted", func(t *testing.T) {
		svc, accounts, _ := setup()
		acct := newAccount(t, userID)
		require.NoError(t, acct.SoftDelete(time.Now()))
		accounts.On("FindAllForUser", mock.Anything, userID, true).Return([]treasury.BankAccount{*acct}, nil)

		list, err := svc.ListBankAccounts(context.Background(), userID, true)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.True(t, list[0].IsDeleted)
	})
}

func TestUpdateBankAccount(t *testing.T) {
	userID := uuid.New()
	svc, accounts, _ := setup()
	acct := newAccount(t, userID)
	accounts.On("FindByIDForUser", mock.Anything, userID, acct.ID, false).Return(acct, nil)
	accounts.On("Update", mock.Anything, acct).Return(nil)

	resp, err := svc.UpdateBankAccount(context.Background(), userID, acct.ID, BankAccountRequest{BankName: "ICICI", AccountNumber: "77", Amount: dec("5")})
	require.NoError(t, err)
	assert.Equal(t, "ICICI", resp.BankName)

	_, err = svc.UpdateBankAccount(context.Background(), userID, acct.ID, BankAccountRequest{BankName: "", AccountNumber: "77", Amount: dec("5")})
	var verr *shared.ValidationError
	assert.ErrorAs(t, err, &verr)
}

// ============ Cash Entry Tests ============

func TestCashEntries(t *testing.T) {
	userID := uuid.New()

	t.Run("create", func(t *testing.T) {
		svc, _, cash := setup()
		cash.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.CreateCashEntry(context.Background(), userID, CashEntryRequest{Amount: dec("300"), Date: "2024-09-01", Description: "till"})
		require.NoError(t, err)
		assert.Equal(t, "2024-09-01", resp.Date)
	})

	t.Run("bad date", func(t *testing.T) {
		svc, _, cash := setup()

		_, err := svc.CreateCashEntry(context.Background(), userID, CashEntryRequest{Amount: dec("300"), Date: "01-09-2024"})
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "date")
		cash.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("trashed entries cannot be updated", func(t *testing.T) {
		svc, _, cash := setup()
		id := uuid.New()
		cash.On("FindByIDForUser", mock.Anything, userID, id, false).Return(nil, shared.ErrNotFound)

		_, err := svc.UpdateCashEntry(context.Background(), userID, id, CashEntryRequest{Amount: dec("1"), Date: "2024-09-01"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("restore a live entry fails", func(t *testing.T) {
		svc, _, cash := setup()
		d := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
		e, err := treasury.NewCashEntry(userID, treasury.CashEntryInput{Amount: dec("1"), Date: &d})
		require.NoError(t, err)
		cash.On("FindByIDForUser", mock.Anything, userID, e.ID, true).Return(e, nil)

		_, err = svc.RestoreCashEntry(context.Background(), userID, e.ID)
		assert.ErrorIs(t, err, treasury.ErrNotDeleted)
	})
}
