package banking

import (
	"errors"
	"testing"
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func validationFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.FieldNames()
}

// ============ Payment Method Tests ============

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		in   string
		want PaymentMethod
		ok   bool
	}{
		{"Cash", PaymentMethodCash, true},
		{"cash", PaymentMethodCash, true},
		{" BANKING ", PaymentMethodBanking, true},
		{"bank", PaymentMethodBanking, true},
		{"", "", true},
		{"cheque", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePaymentMethod(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ============ CompanyBill Tests ============

func TestNewCompanyBill(t *testing.T) {
	userID := uuid.New()

	t.Run("records deposit and raises event", func(t *testing.T) {
		bill, err := NewCompanyBill(userID, CompanyBillInput{
			CompanyName:     " Acme ",
			InvoiceNumber:   "01-2024/2025",
			TransactionDate: datePtr(2024, time.May, 1),
			Amount:          decPtr("300"),
			PaymentMethod:   "banking",
			BankName:        "HDFC",
		})
		require.NoError(t, err)
		assert.Equal(t, "Acme", bill.CompanyName)
		assert.Equal(t, PaymentMethodBanking, bill.PaymentMethod)
		assert.Equal(t, "HDFC", bill.BankName)
		assert.Nil(t, bill.InvoiceID)

		events := bill.GetDomainEvents()
		require.Len(t, events, 1)
		recorded, ok := events[0].(*DepositRecordedEvent)
		require.True(t, ok)
		assert.Equal(t, userID, recorded.UserID())
		assert.Equal(t, "01-2024/2025", recorded.InvoiceNumber)
	})

	t.Run("cash clears bank name", func(t *testing.T) {
		bill, err := NewCompanyBill(userID, CompanyBillInput{
			InvoiceNumber:   "01-2024/2025",
			TransactionDate: datePtr(2024, time.May, 1),
			Amount:          decPtr("300"),
			PaymentMethod:   "Cash",
			BankName:        "HDFC",
		})
		require.NoError(t, err)
		assert.Empty(t, bill.BankName)
	})

	t.Run("rejects incomplete input", func(t *testing.T) {
		_, err := NewCompanyBill(userID, CompanyBillInput{Amount: decPtr("-1"), PaymentMethod: "card"})
		assert.Equal(t, []string{"amount", "invoice_id", "payment_method", "transaction_date"}, validationFields(t, err))
	})

	t.Run("link invoice", func(t *testing.T) {
		bill, err := NewCompanyBill(userID, CompanyBillInput{
			InvoiceNumber:   "01-2024/2025",
			TransactionDate: datePtr(2024, time.May, 1),
			Amount:          decPtr("1"),
		})
		require.NoError(t, err)
		invoiceID := uuid.New()
		bill.LinkInvoice(invoiceID)
		require.NotNil(t, bill.InvoiceID)
		assert.Equal(t, invoiceID, *bill.InvoiceID)

		bill.ClearDomainEvents()
		bill.MarkDeleted()
		assert.Equal(t, EventTypeDepositDeleted, bill.GetDomainEvents()[0].EventType())
	})
}

// ============ Other Transaction Tests ============

func TestNewOtherTransaction_Sign(t *testing.T) {
	tests := []struct {
		name   string
		txType string
		amount string
		want   string
	}{
		{"debit forced negative", "debit", "250", "-250.00"},
		{"debit stays negative", "debit", "-250", "-250.00"},
		{"credit forced positive", "credit", "-99.5", "99.50"},
		{"default is debit", "", "10", "-10.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewOtherTransaction(uuid.New(), OtherTransactionInput{
				Type:     tt.txType,
				Category: "Rent",
				Date:     datePtr(2024, time.June, 1),
				Notice:   "June rent",
				Amount:   decPtr(tt.amount),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, tx.Amount.StringFixed(2))
		})
	}
}

func TestNewOtherTransaction_Validation(t *testing.T) {
	_, err := NewOtherTransaction(uuid.New(), OtherTransactionInput{Type: "transfer"})
	assert.Equal(t, []string{"other_amount", "other_date", "other_notice", "other_type", "transaction_type"}, validationFields(t, err))
}

// ============ Buyer / Salary / Deposit Tests ============

func TestNewBuyerTransaction(t *testing.T) {
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("fills defaults", func(t *testing.T) {
		tx, err := NewBuyerTransaction(uuid.New(), BuyerTransactionInput{Amount: decPtr("100"), PaymentMethod: "Cash"}, now)
		require.NoError(t, err)
		assert.Equal(t, DefaultBuyerName, tx.BuyerName)
		assert.Equal(t, DefaultBuyerNotice, tx.Notice)
		assert.Equal(t, now, tx.TransactionDate)
	})

	t.Run("payment method required", func(t *testing.T) {
		_, err := NewBuyerTransaction(uuid.New(), BuyerTransactionInput{Amount: decPtr("100")}, now)
		assert.Equal(t, []string{"payment_method"}, validationFields(t, err))
	})
}

func TestNewSalaryPayment(t *testing.T) {
	p, err := NewSalaryPayment(uuid.New(), SalaryPaymentInput{
		Name:   "Ravi",
		Amount: decPtr("25000"),
		Date:   datePtr(2024, time.July, 31),
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultSalaryNewName, p.NewName)

	_, err = NewSalaryPayment(uuid.New(), SalaryPaymentInput{})
	assert.Equal(t, []string{"salary_amount", "salary_date", "salary_name"}, validationFields(t, err))
}

func TestNewBankingDeposit(t *testing.T) {
	d, err := NewBankingDeposit(uuid.New(), decPtr("5000.555"), datePtr(2024, time.August, 2))
	require.NoError(t, err)
	assert.Equal(t, "5000.56", d.Amount.StringFixed(2))

	_, err = NewBankingDeposit(uuid.New(), nil, nil)
	assert.Equal(t, []string{"amount", "date"}, validationFields(t, err))
}

// ============ Catalog Tests ============

func TestCatalogNames(t *testing.T) {
	bank, err := NewBank("  State Bank of India ")
	require.NoError(t, err)
	assert.Equal(t, "State Bank of India", bank.Name)

	_, err = NewPartner(" ")
	assert.Equal(t, []string{"name"}, validationFields(t, err))
}
