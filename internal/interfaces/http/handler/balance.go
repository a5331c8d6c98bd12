package handler

import (
	"net/http"

	"github.com/billbook/backend/internal/application/ledger"
	"github.com/billbook/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BalanceHandler serves buyer ledgers and the outstanding balance summary
type BalanceHandler struct {
	BaseHandler
	balanceService *ledger.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler(balanceService *ledger.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// Routes registers /balances behind requireAuth
func (h *BalanceHandler) Routes(requireAuth gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("balances", "/balances")
	group.Use(requireAuth)

	group.GET("", h.Summary)
	group.GET("/by-name/:name", h.ByName)
	group.GET("/:gst", h.ByGST)
	group.GET("/:gst/export", h.Export)
	return group
}

// Summary lists buyers that still owe money
// @Summary      Outstanding balances
// @Tags         balances
// @Produce      json
// @Success      200 {object} dto.Response{data=ledger.Summary}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /balances [get]
func (h *BalanceHandler) Summary(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	summary, err := h.balanceService.Summary(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// ByGST returns the ledger of one buyer by GSTIN
// @Summary      Buyer ledger by GSTIN
// @Tags         balances
// @Produce      json
// @Param        gst path string true "Buyer GSTIN"
// @Success      200 {object} dto.Response{data=ledger.Ledger}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /balances/{gst} [get]
func (h *BalanceHandler) ByGST(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	l, err := h.balanceService.LedgerByGST(c.Request.Context(), userID, c.Param("gst"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, l)
}

// ByName returns the ledger of a buyer invoiced without a GSTIN
// @Summary      Buyer ledger by name
// @Tags         balances
// @Produce      json
// @Param        name path string true "Buyer name"
// @Success      200 {object} dto.Response{data=ledger.Ledger}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /balances/by-name/{name} [get]
func (h *BalanceHandler) ByName(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	l, err := h.balanceService.LedgerByName(c.Request.Context(), userID, c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, l)
}

// Export downloads the ledger of a GSTIN as a spreadsheet
// @Summary      Export a buyer ledger
// @Tags         balances
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        gst path string true "Buyer GSTIN"
// @Success      200 {file} binary
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /balances/{gst}/export [get]
func (h *BalanceHandler) Export(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	data, filename, err := h.balanceService.Export(c.Request.Context(), userID, c.Param("gst"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(filename, false))
	c.Data(http.StatusOK, xlsxContentType, data)
}
