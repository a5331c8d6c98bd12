package invoicing

import (
	"testing"

	"github.com/billbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrencyConverter_Convert(t *testing.T) {
	conv := NewCurrencyConverter()
	rate := dec("83")

	t.Run("foreign total uses rate", func(t *testing.T) {
		got := conv.Convert(dec("1180"), valueobject.USD, &rate)
		assertDecimal(t, "97940", got.Amount)
		assertDecimal(t, "83", got.Rate)
		assert.False(t, got.Defaulted)
	})

	t.Run("home currency ignores rate", func(t *testing.T) {
		got := conv.Convert(dec("1180"), valueobject.INR, &rate)
		assertDecimal(t, "1180", got.Amount)
		assert.False(t, got.Defaulted)
	})

	t.Run("missing rate defaults to one", func(t *testing.T) {
		got := conv.Convert(dec("1180"), valueobject.EUR, nil)
		assertDecimal(t, "1180", got.Amount)
		assert.True(t, got.Defaulted)
	})

	t.Run("non positive rate defaults to one", func(t *testing.T) {
		zero := decimal.Zero
		got := conv.Convert(dec("50"), valueobject.GBP, &zero)
		assertDecimal(t, "50", got.Amount)
		assert.True(t, got.Defaulted)
	})

	t.Run("result rounded to paise", func(t *testing.T) {
		r := dec("83.3333")
		got := conv.Convert(dec("10"), valueobject.USD, &r)
		assertDecimal(t, "833.33", got.Amount)
	})
}
