package banking

import (
	"strings"
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Defaults for optional text fields
const (
	DefaultBuyerName     = "Unknown"
	DefaultBuyerNotice   = "No remarks"
	DefaultSalaryNewName = "N/A"
)

// BuyerTransactionInput carries the caller's fields for a buyer payment
type BuyerTransactionInput struct {
	BuyerName       string
	TransactionDate *time.Time
	Amount          *decimal.Decimal
	Notice          string
	PaymentMethod   string
	BankName        string
}

// BuyerTransaction is a payment received from a buyer outside invoice
// deposits. The payment method is mandatory.
type BuyerTransaction struct {
	shared.OwnedEntity
	BuyerName       string
	TransactionDate time.Time
	Amount          decimal.Decimal
	Notice          string
	Settlement
}

// NewBuyerTransaction validates input and creates a buyer payment
func NewBuyerTransaction(userID uuid.UUID, in BuyerTransactionInput, now time.Time) (*BuyerTransaction, error) {
	v := shared.NewValidationError()
	amount := requirePositive(v, "amount", in.Amount)
	settlement := parseSettlement(v, in.PaymentMethod, in.BankName, true)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	date := now
	if in.TransactionDate != nil && !in.TransactionDate.IsZero() {
		date = *in.TransactionDate
	}
	return &BuyerTransaction{
		OwnedEntity:     shared.NewOwnedEntity(userID),
		BuyerName:       textOr(in.BuyerName, DefaultBuyerName),
		TransactionDate: date,
		Amount:          amount,
		Notice:          textOr(in.Notice, DefaultBuyerNotice),
		Settlement:      settlement,
	}, nil
}

// SalaryPaymentInput carries the caller's fields for a salary payment
type SalaryPaymentInput struct {
	Name          string
	NewName       string
	Amount        *decimal.Decimal
	Date          *time.Time
	PaymentMethod string
	BankName      string
}

// SalaryPayment is a salary paid out to a person
type SalaryPayment struct {
	shared.OwnedEntity
	Name    string
	NewName string
	Amount  decimal.Decimal
	Date    time.Time
	Settlement
}

// NewSalaryPayment validates input and creates a salary payment
func NewSalaryPayment(userID uuid.UUID, in SalaryPaymentInput) (*SalaryPayment, error) {
	v := shared.NewValidationError()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		v.Add("salary_name", "This field is required.")
	}
	amount := requirePositive(v, "salary_amount", in.Amount)
	date := requireDate(v, "salary_date", in.Date)
	settlement := parseSettlement(v, in.PaymentMethod, in.BankName, false)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	return &SalaryPayment{
		OwnedEntity: shared.NewOwnedEntity(userID),
		Name:        name,
		NewName:     textOr(in.NewName, DefaultSalaryNewName),
		Amount:      amount,
		Date:        date,
		Settlement:  settlement,
	}, nil
}

// TransactionType is the direction of an other transaction
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// OtherTransactionInput carries the caller's fields for an other transaction
type OtherTransactionInput struct {
	Type          string
	Category      string
	Date          *time.Time
	Notice        string
	Amount        *decimal.Decimal
	PaymentMethod string
	BankName      string
	PartnerID     *uuid.UUID
}

// OtherTransaction is any credit or debit not covered by the other kinds.
// Debits are stored negative and credits positive, whatever sign the caller
// sent.
type OtherTransaction struct {
	shared.OwnedEntity
	Type      TransactionType
	Category  string
	Date      time.Time
	Notice    string
	Amount    decimal.Decimal
	PartnerID *uuid.UUID
	Settlement
}

// NewOtherTransaction validates input and creates a signed transaction
func NewOtherTransaction(userID uuid.UUID, in OtherTransactionInput) (*OtherTransaction, error) {
	v := shared.NewValidationError()

	txType := TransactionTypeDebit
	switch strings.ToLower(strings.TrimSpace(in.Type)) {
	case "", "debit":
	case "credit":
		txType = TransactionTypeCredit
	default:
		v.Add("transaction_type", "Transaction type must be credit or debit.")
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		v.Add("other_type", "This field is required.")
	}
	date := requireDate(v, "other_date", in.Date)
	notice := strings.TrimSpace(in.Notice)
	if notice == "" {
		v.Add("other_notice", "This field is required.")
	}

	var amount decimal.Decimal
	if in.Amount == nil || in.Amount.IsZero() {
		v.Add("other_amount", "This field is required.")
	} else {
		amount = SignedAmount(txType, *in.Amount)
	}
	settlement := parseSettlement(v, in.PaymentMethod, in.BankName, false)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	return &OtherTransaction{
		OwnedEntity: shared.NewOwnedEntity(userID),
		Type:        txType,
		Category:    category,
		Date:        date,
		Notice:      notice,
		Amount:      amount,
		PartnerID:   in.PartnerID,
		Settlement:  settlement,
	}, nil
}

// SignedAmount forces the sign of amount to match the transaction type
func SignedAmount(t TransactionType, amount decimal.Decimal) decimal.Decimal {
	amount = amount.Abs().Round(2)
	if t == TransactionTypeDebit {
		return amount.Neg()
	}
	return amount
}

// BankingDeposit is cash paid into the bank
type BankingDeposit struct {
	shared.OwnedEntity
	Amount decimal.Decimal
	Date   time.Time
}

// NewBankingDeposit validates and creates a bank deposit
func NewBankingDeposit(userID uuid.UUID, amount *decimal.Decimal, date *time.Time) (*BankingDeposit, error) {
	v := shared.NewValidationError()
	a := requirePositive(v, "amount", amount)
	d := requireDate(v, "date", date)
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return &BankingDeposit{OwnedEntity: shared.NewOwnedEntity(userID), Amount: a, Date: d}, nil
}
