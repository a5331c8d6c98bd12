package invoicing

import (
	"strings"

	"github.com/billbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Defaults for Indian GST on services
const (
	DefaultHomeCountry = "India"
	DefaultHomeState   = "Gujarat"
)

var (
	// DefaultIntraStateRate is charged twice (CGST and SGST) on intra-state supply
	DefaultIntraStateRate = decimal.RequireFromString("0.09")
	// DefaultInterStateRate is charged once (IGST) on inter-state supply
	DefaultInterStateRate = decimal.RequireFromString("0.18")
)

// TaxBreakdown holds the GST components computed for a base amount
type TaxBreakdown struct {
	CGST       decimal.Decimal
	SGST       decimal.Decimal
	IGST       decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
}

// SupplyType classifies a sale for GST purposes
type SupplyType string

const (
	SupplyIntraState SupplyType = "INTRA_STATE"
	SupplyInterState SupplyType = "INTER_STATE"
	SupplyExport     SupplyType = "EXPORT"
)

// GSTCalculator computes GST for a seller registered in HomeState.
// Supplies inside HomeState pay CGST and SGST, other Indian states pay IGST,
// and supplies outside HomeCountry are zero rated.
type GSTCalculator struct {
	HomeCountry    string
	HomeState      string
	IntraStateRate decimal.Decimal
	InterStateRate decimal.Decimal
}

// NewGSTCalculator returns a calculator with the standard 9% + 9% / 18% rates
func NewGSTCalculator() GSTCalculator {
	return GSTCalculator{
		HomeCountry:    DefaultHomeCountry,
		HomeState:      DefaultHomeState,
		IntraStateRate: DefaultIntraStateRate,
		InterStateRate: DefaultInterStateRate,
	}
}

// SupplyType classifies a buyer location
func (c GSTCalculator) SupplyType(country, state string) SupplyType {
	if !sameName(country, c.HomeCountry) {
		return SupplyExport
	}
	if sameName(state, c.HomeState) {
		return SupplyIntraState
	}
	return SupplyInterState
}

// Compute returns the GST breakdown for base. Every component is rounded to
// two places before it is summed.
func (c GSTCalculator) Compute(base decimal.Decimal, country, state string) TaxBreakdown {
	base = valueobject.RoundAmount(base)
	tb := TaxBreakdown{
		CGST: decimal.Zero,
		SGST: decimal.Zero,
		IGST: decimal.Zero,
	}

	switch c.SupplyType(country, state) {
	case SupplyIntraState:
		half := valueobject.RoundAmount(base.Mul(c.IntraStateRate))
		tb.CGST = half
		tb.SGST = half
	case SupplyInterState:
		tb.IGST = valueobject.RoundAmount(base.Mul(c.InterStateRate))
	}

	tb.TaxTotal = tb.CGST.Add(tb.SGST).Add(tb.IGST)
	tb.GrandTotal = base.Add(tb.TaxTotal)
	return tb
}

// IsHomeCountry reports whether country is the seller's country
func (c GSTCalculator) IsHomeCountry(country string) bool {
	return sameName(country, c.HomeCountry)
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
