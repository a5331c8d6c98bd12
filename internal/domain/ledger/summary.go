package ledger

import "github.com/shopspring/decimal"

// BuyerBalance is one row of the outstanding balances summary
type BuyerBalance struct {
	BuyerKey           string          `json:"buyer_key"`
	BuyerName          string          `json:"buyer_name"`
	TotalInvoiceAmount decimal.Decimal `json:"total_invoice_amount"`
	TotalDepositAmount decimal.Decimal `json:"total_deposit_amount"`
	RemainingBalance   decimal.Decimal `json:"remaining_balance"`
}

// Summary lists buyers that still owe (or were overpaid) and the grand total
type Summary struct {
	Buyers                []BuyerBalance  `json:"buyers"`
	TotalRemainingBalance decimal.Decimal `json:"total_remaining_balance"`
}

// SummarizeBuyers collapses ledgers into per-buyer balances. Buyers whose
// remaining balance is exactly zero are left out of both the rows and the
// total.
func SummarizeBuyers(ledgers []*Ledger) Summary {
	s := Summary{
		Buyers:                make([]BuyerBalance, 0, len(ledgers)),
		TotalRemainingBalance: decimal.Zero,
	}
	for _, l := range ledgers {
		if l == nil || l.TotalRemainingBalance.IsZero() {
			continue
		}
		s.Buyers = append(s.Buyers, BuyerBalance{
			BuyerKey:           l.BuyerKey,
			BuyerName:          l.BuyerName,
			TotalInvoiceAmount: l.TotalInvoiceAmount,
			TotalDepositAmount: l.TotalDepositAmount,
			RemainingBalance:   l.TotalRemainingBalance,
		})
		s.TotalRemainingBalance = s.TotalRemainingBalance.Add(l.TotalRemainingBalance)
	}
	return s
}
