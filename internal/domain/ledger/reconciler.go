package ledger

import (
	"sort"

	"github.com/billbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BalanceReconciler builds running-balance ledgers from invoices and deposits.
// It is stateless and safe for concurrent use.
type BalanceReconciler struct{}

// NewBalanceReconciler creates a reconciler
func NewBalanceReconciler() *BalanceReconciler {
	return &BalanceReconciler{}
}

// Reconcile produces the ledger of a single buyer. Invoices are walked in
// invoice date order; each is followed by its own deposits in transaction
// date order, and the running balance restarts at every invoice total.
// Deposits that match no invoice are ignored.
func (r *BalanceReconciler) Reconcile(buyerKey string, invoices []InvoiceSnapshot, deposits []Deposit) *Ledger {
	ordered := make([]InvoiceSnapshot, len(invoices))
	copy(ordered, invoices)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].InvoiceDate.Before(ordered[j].InvoiceDate)
	})

	l := &Ledger{
		BuyerKey:              buyerKey,
		Entries:               make([]Entry, 0, len(ordered)+len(deposits)),
		Invoices:              make([]InvoiceBalance, 0, len(ordered)),
		TotalInvoiceAmount:    decimal.Zero,
		TotalDepositAmount:    decimal.Zero,
		TotalRemainingBalance: decimal.Zero,
	}

	for _, inv := range ordered {
		if l.BuyerName == "" {
			l.BuyerName = inv.BuyerName
		}

		total := valueobject.RoundAmount(inv.TotalWithGST)
		debit := total
		balance := total
		l.Entries = append(l.Entries, Entry{
			Date:        inv.InvoiceDate,
			Type:        EntryTypeInvoice,
			Description: inv.InvoiceNumber,
			Debit:       &debit,
			Balance:     balance,
		})

		deposited := decimal.Zero
		for _, dep := range depositsFor(inv, deposits) {
			amount := valueobject.RoundAmount(dep.Amount)
			credit := amount
			balance = balance.Sub(amount)
			deposited = deposited.Add(amount)

			desc := dep.Notice
			if desc == "" {
				desc = DefaultDepositDescription
			}
			l.Entries = append(l.Entries, Entry{
				Date:        dep.Date,
				Type:        EntryTypeDeposit,
				Description: desc,
				Credit:      &credit,
				Balance:     balance,
			})
		}

		l.Invoices = append(l.Invoices, InvoiceBalance{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			InvoiceDate:   inv.InvoiceDate,
			Total:         total,
			Deposited:     deposited,
			Remaining:     total.Sub(deposited),
		})
		l.TotalInvoiceAmount = l.TotalInvoiceAmount.Add(total)
		l.TotalDepositAmount = l.TotalDepositAmount.Add(deposited)
	}

	l.TotalRemainingBalance = l.TotalInvoiceAmount.Sub(l.TotalDepositAmount)
	return l
}

// ReconcileAll groups invoices by buyer key and reconciles each buyer. The
// result is ordered by buyer key.
func (r *BalanceReconciler) ReconcileAll(invoices []InvoiceSnapshot, deposits []Deposit) []*Ledger {
	groups := make(map[string][]InvoiceSnapshot)
	for _, inv := range invoices {
		groups[inv.BuyerKey()] = append(groups[inv.BuyerKey()], inv)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ledgers := make([]*Ledger, 0, len(keys))
	for _, k := range keys {
		ledgers = append(ledgers, r.Reconcile(k, groups[k], deposits))
	}
	return ledgers
}

func depositsFor(inv InvoiceSnapshot, deposits []Deposit) []Deposit {
	var matched []Deposit
	for _, d := range deposits {
		if d.Matches(inv) {
			matched = append(matched, d)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.Before(matched[j].Date)
	})
	return matched
}
