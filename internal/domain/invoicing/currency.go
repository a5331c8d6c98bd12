package invoicing

import (
	"github.com/billbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Conversion is the home-currency equivalent of an invoice total
type Conversion struct {
	Amount decimal.Decimal
	Rate   decimal.Decimal
	// Defaulted is set when a foreign-currency total was converted at 1
	// because no usable rate was supplied.
	Defaulted bool
}

// CurrencyConverter converts invoice totals into the home currency
type CurrencyConverter struct {
	HomeCurrency valueobject.Currency
}

// NewCurrencyConverter returns a converter into INR
func NewCurrencyConverter() CurrencyConverter {
	return CurrencyConverter{HomeCurrency: valueobject.DefaultCurrency}
}

// Convert returns total expressed in the home currency. Home-currency totals
// are returned unchanged whatever the rate. A nil or non-positive rate on a
// foreign total falls back to 1.
func (c CurrencyConverter) Convert(total decimal.Decimal, currency valueobject.Currency, rate *decimal.Decimal) Conversion {
	if currency == "" || currency == c.HomeCurrency {
		return Conversion{Amount: total, Rate: decimal.NewFromInt(1)}
	}

	effective := decimal.NewFromInt(1)
	defaulted := true
	if rate != nil && rate.IsPositive() {
		effective = *rate
		defaulted = false
	}

	money, _ := valueobject.NewMoney(total, currency)
	return Conversion{
		Amount:    money.Convert(c.HomeCurrency, effective).Amount(),
		Rate:      effective,
		Defaulted: defaulted,
	}
}
