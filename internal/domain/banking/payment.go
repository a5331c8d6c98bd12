// Package banking records money that moves through the seller's accounts:
// deposits received against invoices, buyer payments, salaries and other
// credits or debits.
package banking

import (
	"strings"
	"time"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/billbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a transaction was settled
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "Cash"
	PaymentMethodBanking PaymentMethod = "Banking"
)

// ParsePaymentMethod accepts "cash" or "banking" in any case. An empty value
// yields "" with ok true; callers decide whether the field is required.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", true
	case "cash":
		return PaymentMethodCash, true
	case "banking", "bank":
		return PaymentMethodBanking, true
	}
	return "", false
}

// Settlement groups the payment fields every transaction carries
type Settlement struct {
	PaymentMethod PaymentMethod
	BankName      string
}

func parseSettlement(v *shared.ValidationError, method, bank string, required bool) Settlement {
	pm, ok := ParsePaymentMethod(method)
	switch {
	case !ok:
		v.Add("payment_method", "Payment method must be Cash or Banking.")
	case pm == "" && required:
		v.Add("payment_method", "This field is required.")
	}
	bank = strings.TrimSpace(bank)
	if pm == PaymentMethodCash {
		bank = ""
	}
	return Settlement{PaymentMethod: pm, BankName: bank}
}

func requirePositive(v *shared.ValidationError, field string, amount *decimal.Decimal) decimal.Decimal {
	if amount == nil {
		v.Add(field, "This field is required.")
		return decimal.Zero
	}
	if !amount.IsPositive() {
		v.Add(field, "Must be greater than zero.")
	}
	return valueobject.RoundAmount(*amount)
}

func requireDate(v *shared.ValidationError, field string, date *time.Time) time.Time {
	if date == nil || date.IsZero() {
		v.Add(field, "This field is required.")
		return time.Time{}
	}
	return *date
}

func textOr(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}
