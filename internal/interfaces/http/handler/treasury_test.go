package handler

import (
	"net/http"
	"testing"

	apptreasury "github.com/billbook/backend/internal/application/treasury"
	"github.com/billbook/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============ Trash Lifecycle Tests ============

func TestTreasuryHandler_BankAccountLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "seller@example.com")
	base := "/api/v1/bank-accounts"

	w := env.do(t, http.MethodPost, base, token, map[string]any{
		"bank_name": "HDFC", "account_number": "50100012345678", "amount": "125000.50",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var account apptreasury.BankAccountResponse
	decodeData(t, w, &account)
	item := base + "/" + account.ID.String()

	w = env.do(t, http.MethodPut, item, token, map[string]any{
		"bank_name": "HDFC Bank", "account_number": "50100012345678", "amount": "99000",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, w, &account)
	assert.Equal(t, "HDFC Bank", account.BankName)
	assert.True(t, dec("99000").Equal(account.Amount))

	t.Run("purge needs the trash first", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, item+"/permanent", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	w = env.do(t, http.MethodDelete, item, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, item, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "trashed accounts leave the live list")

	w = env.do(t, http.MethodGet, base+"/deleted", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var trashed []apptreasury.BankAccountResponse
	decodeData(t, w, &trashed)
	require.Len(t, trashed, 1)
	assert.True(t, trashed[0].IsDeleted)
	assert.NotNil(t, trashed[0].DeletedAt)

	w = env.do(t, http.MethodGet, base+"/deleted/"+account.ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, item+"/restore", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, w, &account)
	assert.False(t, account.IsDeleted)

	w = env.do(t, http.MethodPost, item+"/restore", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "a live record is not in the trash")

	w = env.do(t, http.MethodDelete, item, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodDelete, item+"/permanent", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, base+"/deleted", token, nil)
	decodeData(t, w, &trashed)
	assert.Empty(t, trashed)
}

func TestTreasuryHandler_CashEntries(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "seller@example.com")
	base := "/api/v1/cash-entries"

	w := env.do(t, http.MethodPost, base, token, map[string]any{"amount": "1500", "date": "2024-09-10", "description": "Petty cash"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var entry apptreasury.CashEntryResponse
	decodeData(t, w, &entry)
	assert.Equal(t, "2024-09-10", entry.Date)

	w = env.do(t, http.MethodPost, base, token, map[string]any{"amount": "10", "date": "10-09-2024"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decodeError(t, w).Code)

	w = env.do(t, http.MethodDelete, base+"/"+entry.ID.String(), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, base, token, nil)
	var live []apptreasury.CashEntryResponse
	decodeData(t, w, &live)
	assert.Empty(t, live)

	w = env.do(t, http.MethodGet, base+"/deleted", token, nil)
	var trashed []apptreasury.CashEntryResponse
	decodeData(t, w, &trashed)
	assert.Len(t, trashed, 1)
}
