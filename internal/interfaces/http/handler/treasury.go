package handler

import (
	"context"

	"github.com/billbook/backend/internal/application/treasury"
	"github.com/billbook/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TreasuryHandler serves bank accounts and cash entries. Both live in a
// trash after deletion until restored or purged.
type TreasuryHandler struct {
	BaseHandler
	treasuryService *treasury.Service
}

// NewTreasuryHandler creates a new TreasuryHandler
func NewTreasuryHandler(treasuryService *treasury.Service) *TreasuryHandler {
	return &TreasuryHandler{treasuryService: treasuryService}
}

// Routes registers /bank-accounts and /cash-entries behind requireAuth
func (h *TreasuryHandler) Routes(requireAuth gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("treasury", "")
	group.Use(requireAuth)

	accounts := group.Group("bank-accounts", "/bank-accounts")
	accounts.GET("", h.ListBankAccounts)
	accounts.POST("", h.CreateBankAccount)
	accounts.GET("/deleted", h.ListDeletedBankAccounts)
	accounts.GET("/deleted/:id", h.GetDeletedBankAccount)
	accounts.GET("/:id", h.GetBankAccount)
	accounts.PUT("/:id", h.UpdateBankAccount)
	accounts.DELETE("/:id", h.DeleteBankAccount)
	accounts.POST("/:id/restore", h.RestoreBankAccount)
	accounts.DELETE("/:id/permanent", h.PurgeBankAccount)

	cash := group.Group("cash-entries", "/cash-entries")
	cash.GET("", h.ListCashEntries)
	cash.POST("", h.CreateCashEntry)
	cash.GET("/deleted", h.ListDeletedCashEntries)
	cash.GET("/deleted/:id", h.GetDeletedCashEntry)
	cash.GET("/:id", h.GetCashEntry)
	cash.PUT("/:id", h.UpdateCashEntry)
	cash.DELETE("/:id", h.DeleteCashEntry)
	cash.POST("/:id/restore", h.RestoreCashEntry)
	cash.DELETE("/:id/permanent", h.PurgeCashEntry)
	return group
}

// ============ Bank accounts ============

// CreateBankAccount godoc
// @Summary      Create a bank account
// @Tags         treasury
// @Accept       json
// @Produce      json
// @Param        request body treasury.BankAccountRequest true "bank account"
// @Success      201 {object} dto.Response{data=treasury.BankAccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-accounts [post]
func (h *TreasuryHandler) CreateBankAccount(c *gin.Context) {
	createFor(&h.BaseHandler, c, h.treasuryService.CreateBankAccount)
}

// ListBankAccounts godoc
// @Summary      List bank accounts
// @Tags         treasury
// @Produce      json
// @Success      200 {object} dto.Response{data=[]treasury.BankAccountResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-accounts [get]
func (h *TreasuryHandler) ListBankAccounts(c *gin.Context) {
	listFor(&h.BaseHandler, c, func(ctx context.Context, userID uuid.UUID) ([]treasury.BankAccountResponse, error) {
		return h.treasuryService.ListBankAccounts(ctx, userID, false)
	})
}

// ListDeletedBankAccounts lists the trash
// @Summary      List deleted bank accounts
// @Tags         treasury
// @Produce      json
// @Success      200 {object} dto.Response{data=[]treasury.BankAccountResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-accounts/deleted [get]
func (h *TreasuryHandler) ListDeletedBankAccounts(c *gin.Context) {
	listFor(&h.BaseHandler, c, func(ctx context.Context, userID uuid.UUID) ([]treasury.BankAccountResponse, error) {
		return h.treasuryService.ListBankAccounts(ctx, userID, true)
	})
}

// GetBankAccount godoc
// @Summary      Get a bank account
// @Tags         treasury
// @Produce      json
// @Param        id path string true "Bank account ID" format(uuid)
// @Success      200 {object} dto.Response{data=treasury.BankAccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-accounts/{id} [get]
func (h *TreasuryHandler) GetBankAccount(c *gin.Context) {
	getFor(&h.BaseHandler, c, func(ctx context.Context, userID, id uuid.UUID) (*treasury.BankAccountResponse, error) {
		return h.treasuryService.GetBankAccount(ctx, userID, id, false)
	})
}

// GetDeletedBankAccount godoc
// @Summary      Get a deleted bank account
// @Tags         treasury
// @Produce      json
// @Param        id path string true "Bank account ID" format(uuid)
// @Success      200 {object} dto.Response{data=treasury.BankAccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-accounts/deleted/{id} [get]
func (h *TreasuryHandler) GetDeletedBankAccount(c *gin.Context) {
	getFor(&h.BaseHandler, c, func(ctx context.Context, userID, id uuid.UUID) (*treasury.BankAccountResponse, error) {
		return h.treasuryService.GetBankAccount(ctx, userID, id, true)
	})
}

// UpdateBankAccount godoc
// @Summary      Update a bank account
// @Tags         treasury
// @Accept       json
// @Produce      json
// @Param        id path string true "Bank account ID" format(uuid)
// @Param        request body treasury.BankAccountRequest true "bank account"
// @Success      200 {object} dto.Response{data=treasury.BankAccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-accounts/{id} [put]
func (h *TreasuryHandler) UpdateBankAccount(c *gin.Context) {
	updateFor(&h.BaseHandler, c, h.treasuryService.UpdateBankAccount)
}

// DeleteBankAccount moves the account to the trash
// @Summary      Move a bank account to the trash
// @Tags         treasury
// @Produce      json
// @Param        id path string true "Bank account ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-accounts/{id} [delete]
func (h *TreasuryHandler) DeleteBankAccount(c *gin.Context) {
	deleteFor(&h.BaseHandler, c, h.treasuryService.DeleteBankAccount)
}

// RestoreBankAccount godoc
// @Summary      Restore a deleted bank account
// @Tags         treasury
// @Produce      json
// @Param        id path string true "Bank account ID" format(uuid)
// @Success      200 {object} dto.Response{data=treasury.BankAccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-accounts/{id}/restore [post]
func (h *TreasuryHandler) RestoreBankAccount(c *gin.Context) {
	getFor(&h.BaseHandler, c, h.treasuryService.RestoreBankAccount)
}

// PurgeBankAccount deletes a trashed account for good
// @Summary      Purge a deleted bank account
// @Tags         treasury
// @Produce      json
// @Param        id path string true "Bank account ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bank-accounts/{id}/permanent [delete]
func (h *TreasuryHandler) PurgeBankAccount(c *gin.Context) {
	deleteFor(&h.BaseHandler, c, h.treasuryService.PurgeBankAccount)
}

// ============ Cash entries ============

// CreateCashEntry godoc
// @Summary      Create a cash entry
// @Tags         treasury
// @Accept       json
// @Produce      json
// @Param        request body treasury.CashEntryRequest true "cash entry"
// @Success      201 {object} dto.Response{data=treasury.CashEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cash-entries [post]
func (h *TreasuryHandler) CreateCashEntry(c *gin.Context) {
	createFor(&h.BaseHandler, c, h.treasuryService.CreateCashEntry)
}

// ListCashEntries godoc
// @Summary      List cash entries
// @Tags         treasury
// @Produce      json
// @Success      200 {object} dto.Response{data=[]treasury.CashEntryResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cash-entries [get]
func (h *TreasuryHandler) ListCashEntries(c *gin.Context) {
	listFor(&h.BaseHandler, c, func(ctx context.Context, userID uuid.UUID) ([]treasury.CashEntryResponse, error) {
		return h.treasuryService.ListCashEntries(ctx, userID, false)
	})
}

// ListDeletedCashEntries godoc
// @Summary      List deleted cash entries
// @Tags         treasury
// @Produce      json
// @Success      200 {object} dto.Response{data=[]treasury.CashEntryResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cash-entries/deleted [get]
func (h *TreasuryHandler) ListDeletedCashEntries(c *gin.Context) {
	listFor(&h.BaseHandler, c, func(ctx context.Context, userID uuid.UUID) ([]treasury.CashEntryResponse, error) {
		return h.treasuryService.ListCashEntries(ctx, userID, true)
	})
}

// GetCashEntry godoc
// @Summary      Get a cash entry
// @Tags         treasury
// @Produce      json
// @Param        id path string true "Cash entry ID" format(uuid)
// @Success      200 {object} dto.Response{data=treasury.CashEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cash-entries/{id} [get]
func (h *TreasuryHandler) GetCashEntry(c *gin.Context) {
	getFor(&h.BaseHandler, c, func(ctx context.Context, userID, id uuid.UUID) (*treasury.CashEntryResponse, error) {
		return h.treasuryService.GetCashEntry(ctx, userID, id, false)
	})
}

// GetDeletedCashEntry godoc
// @Summary      Get a deleted cash entry
// @Tags         treasury
// @Produce      json
// @Param        id path string true "Cash entry ID" format(uuid)
// @Success      200 {object} dto.Response{data=treasury.CashEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cash-entries/deleted/{id} [get]
func (h *TreasuryHandler) GetDeletedCashEntry(c *gin.Context) {
	getFor(&h.BaseHandler, c, func(ctx context.Context, userID, id uuid.UUID) (*treasury.CashEntryResponse, error) {
		return h.treasuryService.GetCashEntry(ctx, userID, id, true)
	})
}

// UpdateCashEntry godoc
// @Summary      Update a cash entry
// @Tags         treasury
// @Accept       json
// @Produce      json
// @Param        id path string true "Cash entry ID" format(uuid)
// @Param        request body treasury.CashEntryRequest true "cash entry"
// @Success      200 {object} dto.Response{data=treasury.CashEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cash-entries/{id} [put]
func (h *TreasuryHandler) UpdateCashEntry(c *gin.Context) {
	updateFor(&h.BaseHandler, c, h.treasuryService.UpdateCashEntry)
}

// DeleteCashEntry godoc
// @Summary      Move a cash entry to the trash
// @Tags         treasury
// @Produce      json
// @Param        id path string true "Cash entry ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cash-entries/{id} [delete]
func (h *TreasuryHandler) DeleteCashEntry(c *gin.Context) {
	deleteFor(&h.BaseHandler, c, h.treasuryService.DeleteCashEntry)
}

// RestoreCashEntry godoc
// @Summary      Restore a deleted cash entry
// @Tags         treasury
// @Produce      json
// @Param        id path string true "Cash entry ID" format(uuid)
// @Success      200 {object} dto.Response{data=treasury.CashEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cash-entries/{id}/restore [post]
func (h *TreasuryHandler) RestoreCashEntry(c *gin.Context) {
	getFor(&h.BaseHandler, c, h.treasuryService.RestoreCashEntry)
}

// PurgeCashEntry godoc
// @Summary      Purge a deleted cash entry
// @Tags         treasury
// @Produce      json
// @Param        id path string true "Cash entry ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cash-entries/{id}/permanent [delete]
func (h *TreasuryHandler) PurgeCashEntry(c *gin.Context) {
	deleteFor(&h.BaseHandler, c, h.treasuryService.PurgeCashEntry)
}
