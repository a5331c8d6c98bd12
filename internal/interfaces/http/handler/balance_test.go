package handler

import (
	"net/http"
	"testing"

	"github.com/billbook/backend/internal/domain/ledger"
	"github.com/billbook/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ============ Ledger Tests ============

func TestBalanceHandler_LedgerFollowsDeposits(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "seller@example.com")
	inv := createInvoice(t, env, token, invoiceBody("2024-06-15", nil))

	w := env.do(t, http.MethodGet, "/api/v1/balances/24AAACA1234A1Z5", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var before ledger.Ledger
	decodeData(t, w, &before)
	assert.True(t, dec("1180").Equal(before.TotalRemainingBalance))
	assert.Contains(t, w.Body.String(), `"total_remaining_balance":"1180.00"`)
	assert.Contains(t, w.Body.String(), `"date":"2024-06-15"`)
	assert.Contains(t, w.Body.String(), `"invoice_date":"2024-06-15"`)

	w = env.do(t, http.MethodPost, "/api/v1/banking/company", token, map[string]any{
		"company_name":     "Acme Tools",
		"invoice_id":       inv.InvoiceNumber,
		"transaction_date": "2024-07-01",
		"notice":           "NEFT 4411",
		"amount":           "500",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/balances/24aaaca1234a1z5", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var after ledger.Ledger
	decodeData(t, w, &after)
	assert.True(t, dec("680").Equal(after.TotalRemainingBalance), "a new deposit must not be hidden by the cached ledger")
	assert.True(t, dec("500").Equal(after.TotalDepositAmount))
	require.Len(t, after.Entries, 2)
	assert.Equal(t, ledger.EntryTypeDeposit, after.Entries[1].Type)
	assert.Equal(t, "NEFT 4411", after.Entries[1].Description)
}

func TestBalanceHandler_ByName(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "seller@example.com")
	createInvoice(t, env, token, invoiceBody("2024-06-15", map[string]any{"buyer_gst": "", "buyer_name": "Walk In"}))

	w := env.do(t, http.MethodGet, "/api/v1/balances/by-name/Walk%20In", token, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var l ledger.Ledger
	decodeData(t, w, &l)
	assert.Equal(t, "Walk In", l.BuyerName)
	assert.Len(t, l.Invoices, 1)
}

func TestBalanceHandler_UnknownBuyer(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "seller@example.com")

	w := env.do(t, http.MethodGet, "/api/v1/balances/29ABCDE1234F1Z5", token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeError(t, w).Code)
}

// ============ Summary Tests ============

func TestBalanceHandler_Summary(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "seller@example.com")

	paid := createInvoice(t, env, token, invoiceBody("2024-06-15", nil))
	createInvoice(t, env, token, invoiceBody("2024-06-20", map[string]any{
		"buyer_name": "Zen Labs", "buyer_gst": "27AAACZ9999Z1Z2", "state": "Maharashtra",
	}))
	w := env.do(t, http.MethodPost, "/api/v1/banking/company", token, map[string]any{
		"invoice_id":       paid.InvoiceNumber,
		"transaction_date": "2024-07-01",
		"amount":           "1180",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/balances", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var summary ledger.Summary
	decodeData(t, w, &summary)
	require.Len(t, summary.Buyers, 1, "settled buyers are left out")
	assert.True(t, dec("1180").Equal(summary.TotalRemainingBalance))
}

// ============ Export Tests ============

func TestBalanceHandler_Export(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "seller@example.com")
	createInvoice(t, env, token, invoiceBody("2024-06-15", nil))

	w := env.do(t, http.MethodGet, "/api/v1/balances/24AAACA1234A1Z5/export", token, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ledger-24AAACA1234A1Z5.xlsx")
	assert.Equal(t, "PK", w.Body.String()[:2], "xlsx files are zip archives")
}
