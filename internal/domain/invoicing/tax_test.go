package invoicing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, dec(want).StringFixed(2), got.StringFixed(2), msgAndArgs...)
}

func TestGSTCalculator_Compute(t *testing.T) {
	calc := NewGSTCalculator()

	tests := []struct {
		name    string
		base    string
		country string
		state   string
		cgst    string
		sgst    string
		igst    string
		total   string
	}{
		{"intra state", "1000", "India", "Gujarat", "90", "90", "0", "1180"},
		{"inter state", "1000", "India", "Maharashtra", "0", "0", "180", "1180"},
		{"export", "1000", "USA", "", "0", "0", "0", "1000"},
		{"case insensitive home state", "1000", " india ", "gujarat", "90", "90", "0", "1180"},
		{"misspelled home state is inter state", "1000", "India", "Gujarta", "0", "0", "180", "1180"},
		{"rounding half up", "1234.56", "India", "Gujarat", "111.11", "111.11", "0", "1456.78"},
		{"zero base", "0", "India", "Gujarat", "0", "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := calc.Compute(dec(tt.base), tt.country, tt.state)
			assertDecimal(t, tt.cgst, tb.CGST, "cgst")
			assertDecimal(t, tt.sgst, tb.SGST, "sgst")
			assertDecimal(t, tt.igst, tb.IGST, "igst")
			assertDecimal(t, tt.total, tb.GrandTotal, "total")
			assert.True(t, tb.TaxTotal.Equal(tb.CGST.Add(tb.SGST).Add(tb.IGST)))
		})
	}
}

func TestGSTCalculator_SupplyType(t *testing.T) {
	calc := NewGSTCalculator()
	assert.Equal(t, SupplyIntraState, calc.SupplyType("India", "Gujarat"))
	assert.Equal(t, SupplyInterState, calc.SupplyType("India", "Delhi"))
	assert.Equal(t, SupplyInterState, calc.SupplyType("India", ""))
	assert.Equal(t, SupplyExport, calc.SupplyType("Germany", "Gujarat"))
}

func TestGSTCalculator_CustomRates(t *testing.T) {
	calc := GSTCalculator{
		HomeCountry:    "India",
		HomeState:      "Karnataka",
		IntraStateRate: dec("0.06"),
		InterStateRate: dec("0.12"),
	}

	intra := calc.Compute(dec("500"), "India", "Karnataka")
	assertDecimal(t, "30", intra.CGST)
	assertDecimal(t, "560", intra.GrandTotal)

	inter := calc.Compute(dec("500"), "India", "Gujarat")
	assertDecimal(t, "60", inter.IGST)
	assertDecimal(t, "560", inter.GrandTotal)
}
