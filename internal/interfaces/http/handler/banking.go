package handler

import (
	"context"

	"github.com/billbook/backend/internal/application/banking"
	"github.com/billbook/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// BankingHandler serves the banking registers (company bills, buyer
// transactions, salaries, other transactions, deposits) and the shared
// bank and partner catalogs
type BankingHandler struct {
	BaseHandler
	txService *banking.TransactionService
}

// NewBankingHandler creates a new BankingHandler
func NewBankingHandler(txService *banking.TransactionService) *BankingHandler {
	return &BankingHandler{txService: txService}
}

// Routes registers /banking behind requireAuth
func (h *BankingHandler) Routes(requireAuth gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("banking", "/banking")
	group.Use(requireAuth)

	company := group.Group("company", "/company")
	company.GET("", h.ListCompanyBills)
	company.POST("", h.CreateCompanyBill)
	company.GET("/:id", h.GetCompanyBill)
	company.DELETE("/:id", h.DeleteCompanyBill)

	buyer := group.Group("buyer", "/buyer")
	buyer.GET("", h.ListBuyerTransactions)
	buyer.POST("", h.CreateBuyerTransaction)
	buyer.GET("/:id", h.GetBuyerTransaction)
	buyer.DELETE("/:id", h.DeleteBuyerTransaction)

	salary := group.Group("salary", "/salary")
	salary.GET("", h.ListSalaries)
	salary.POST("", h.CreateSalary)
	salary.GET("/:id", h.GetSalary)
	salary.DELETE("/:id", h.DeleteSalary)

	other := group.Group("other", "/other")
	other.GET("", h.ListOtherTransactions)
	other.POST("", h.CreateOtherTransaction)
	other.GET("/:id", h.GetOtherTransaction)
	other.DELETE("/:id", h.DeleteOtherTransaction)

	group.GET("/deposits", h.ListBankingDeposits)
	group.POST("/deposits", h.CreateBankingDeposit)
	return group
}

// CatalogRoutes registers the shared /banks and /partners catalogs
func (h *BankingHandler) CatalogRoutes(requireAuth gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("catalogs", "")
	group.Use(requireAuth)

	group.GET("/banks", h.ListBanks)
	group.POST("/banks", h.AddBank)
	group.GET("/partners", h.ListPartners)
	group.POST("/partners", h.AddPartner)
	return group
}

// ============ Company bills ============

// CreateCompanyBill records a payment received against an invoice
// @Summary      Record a payment against an invoice
// @Tags         banking
// @Accept       json
// @Produce      json
// @Param        request body banking.CreateCompanyBillRequest true "Company bill"
// @Success      201 {object} dto.Response{data=banking.CompanyBillResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/company [post]
func (h *BankingHandler) CreateCompanyBill(c *gin.Context) {
	createFor(&h.BaseHandler, c, h.txService.CreateCompanyBill)
}

// ListCompanyBills godoc
// @Summary      List company bills
// @Tags         banking
// @Produce      json
// @Success      200 {object} dto.Response{data=[]banking.CompanyBillResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/company [get]
func (h *BankingHandler) ListCompanyBills(c *gin.Context) {
	listFor(&h.BaseHandler, c, h.txService.ListCompanyBills)
}

// GetCompanyBill godoc
// @Summary      Get a company bill
// @Tags         banking
// @Produce      json
// @Param        id path string true "Company bill ID" format(uuid)
// @Success      200 {object} dto.Response{data=banking.CompanyBillResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/company/{id} [get]
func (h *BankingHandler) GetCompanyBill(c *gin.Context) {
	getFor(&h.BaseHandler, c, h.txService.GetCompanyBill)
}

// DeleteCompanyBill godoc
// @Summary      Delete a company bill
// @Tags         banking
// @Produce      json
// @Param        id path string true "Company bill ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/company/{id} [delete]
func (h *BankingHandler) DeleteCompanyBill(c *gin.Context) {
	deleteFor(&h.BaseHandler, c, h.txService.DeleteCompanyBill)
}

// ============ Buyer transactions ============

// CreateBuyerTransaction godoc
// @Summary      Record a buyer transaction
// @Tags         banking
// @Accept       json
// @Produce      json
// @Param        request body banking.CreateBuyerTransactionRequest true "Buyer transaction"
// @Success      201 {object} dto.Response{data=banking.BuyerTransactionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/buyer [post]
func (h *BankingHandler) CreateBuyerTransaction(c *gin.Context) {
	createFor(&h.BaseHandler, c, h.txService.CreateBuyerTransaction)
}

// ListBuyerTransactions godoc
// @Summary      List buyer transactions
// @Tags         banking
// @Produce      json
// @Success      200 {object} dto.Response{data=[]banking.BuyerTransactionResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/buyer [get]
func (h *BankingHandler) ListBuyerTransactions(c *gin.Context) {
	listFor(&h.BaseHandler, c, h.txService.ListBuyerTransactions)
}

// GetBuyerTransaction godoc
// @Summary      Get a buyer transaction
// @Tags         banking
// @Produce      json
// @Param        id path string true "Buyer transaction ID" format(uuid)
// @Success      200 {object} dto.Response{data=banking.BuyerTransactionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/buyer/{id} [get]
func (h *BankingHandler) GetBuyerTransaction(c *gin.Context) {
	getFor(&h.BaseHandler, c, h.txService.GetBuyerTransaction)
}

// DeleteBuyerTransaction godoc
// @Summary      Delete a buyer transaction
// @Tags         banking
// @Produce      json
// @Param        id path string true "Buyer transaction ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/buyer/{id} [delete]
func (h *BankingHandler) DeleteBuyerTransaction(c *gin.Context) {
	deleteFor(&h.BaseHandler, c, h.txService.DeleteBuyerTransaction)
}

// ============ Salaries ============

// CreateSalary godoc
// @Summary      Record a salary payment
// @Tags         banking
// @Accept       json
// @Produce      json
// @Param        request body banking.CreateSalaryRequest true "Salary payment"
// @Success      201 {object} dto.Response{data=banking.SalaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/salary [post]
func (h *BankingHandler) CreateSalary(c *gin.Context) {
	createFor(&h.BaseHandler, c, h.txService.CreateSalary)
}

// ListSalaries godoc
// @Summary      List salary payments
// @Tags         banking
// @Produce      json
// @Success      200 {object} dto.Response{data=[]banking.SalaryResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/salary [get]
func (h *BankingHandler) ListSalaries(c *gin.Context) {
	listFor(&h.BaseHandler, c, h.txService.ListSalaries)
}

// GetSalary godoc
// @Summary      Get a salary payment
// @Tags         banking
// @Produce      json
// @Param        id path string true "Salary payment ID" format(uuid)
// @Success      200 {object} dto.Response{data=banking.SalaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/salary/{id} [get]
func (h *BankingHandler) GetSalary(c *gin.Context) {
	getFor(&h.BaseHandler, c, h.txService.GetSalary)
}

// DeleteSalary godoc
// @Summary      Delete a salary payment
// @Tags         banking
// @Produce      json
// @Param        id path string true "Salary payment ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/salary/{id} [delete]
func (h *BankingHandler) DeleteSalary(c *gin.Context) {
	deleteFor(&h.BaseHandler, c, h.txService.DeleteSalary)
}

// ============ Other transactions ============

// CreateOtherTransaction godoc
// @Summary      Record an other transaction
// @Tags         banking
// @Accept       json
// @Produce      json
// @Param        request body banking.CreateOtherTransactionRequest true "Other transaction"
// @Success      201 {object} dto.Response{data=banking.OtherTransactionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/other [post]
func (h *BankingHandler) CreateOtherTransaction(c *gin.Context) {
	createFor(&h.BaseHandler, c, h.txService.CreateOtherTransaction)
}

// ListOtherTransactions godoc
// @Summary      List other transactions
// @Tags         banking
// @Produce      json
// @Success      200 {object} dto.Response{data=[]banking.OtherTransactionResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/other [get]
func (h *BankingHandler) ListOtherTransactions(c *gin.Context) {
	listFor(&h.BaseHandler, c, h.txService.ListOtherTransactions)
}

// GetOtherTransaction godoc
// @Summary      Get a other transaction
// @Tags         banking
// @Produce      json
// @Param        id path string true "Other transaction ID" format(uuid)
// @Success      200 {object} dto.Response{data=banking.OtherTransactionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/other/{id} [get]
func (h *BankingHandler) GetOtherTransaction(c *gin.Context) {
	getFor(&h.BaseHandler, c, h.txService.GetOtherTransaction)
}

// DeleteOtherTransaction godoc
// @Summary      Delete a other transaction
// @Tags         banking
// @Produce      json
// @Param        id path string true "Other transaction ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/other/{id} [delete]
func (h *BankingHandler) DeleteOtherTransaction(c *gin.Context) {
	deleteFor(&h.BaseHandler, c, h.txService.DeleteOtherTransaction)
}

// ============ Deposits ============

// CreateBankingDeposit godoc
// @Summary      Record a bank deposit
// @Tags         banking
// @Accept       json
// @Produce      json
// @Param        request body banking.CreateBankingDepositRequest true "Banking deposit"
// @Success      201 {object} dto.Response{data=banking.BankingDepositResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/deposits [post]
func (h *BankingHandler) CreateBankingDeposit(c *gin.Context) {
	createFor(&h.BaseHandler, c, h.txService.CreateBankingDeposit)
}

// ListBankingDeposits godoc
// @Summary      List banking deposits
// @Tags         banking
// @Produce      json
// @Success      200 {object} dto.Response{data=[]banking.BankingDepositResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/deposits [get]
func (h *BankingHandler) ListBankingDeposits(c *gin.Context) {
	listFor(&h.BaseHandler, c, h.txService.ListBankingDeposits)
}

// ============ Catalogs ============

// ListBanks godoc
// @Summary      List banks
// @Tags         catalogs
// @Produce      json
// @Success      200 {object} dto.Response{data=[]banking.CatalogEntryResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banks [get]
func (h *BankingHandler) ListBanks(c *gin.Context) {
	if _, ok := h.currentUser(c); !ok {
		return
	}
	banks, err := h.txService.ListBanks(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(&h.BaseHandler, c, banks)
}

// AddBank answers 201 for a new bank and 200 when the name already exists
// @Summary      Add a bank
// @Tags         catalogs
// @Accept       json
// @Produce      json
// @Param        request body banking.CatalogEntryRequest true "Bank name"
// @Success      200 {object} dto.Response{data=banking.CatalogEntryResponse}
// @Success      201 {object} dto.Response{data=banking.CatalogEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banks [post]
func (h *BankingHandler) AddBank(c *gin.Context) {
	h.addCatalogEntry(c, h.txService.AddBank)
}

// ListPartners godoc
// @Summary      List partners
// @Tags         catalogs
// @Produce      json
// @Success      200 {object} dto.Response{data=[]banking.CatalogEntryResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners [get]
func (h *BankingHandler) ListPartners(c *gin.Context) {
	if _, ok := h.currentUser(c); !ok {
		return
	}
	partners, err := h.txService.ListPartners(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(&h.BaseHandler, c, partners)
}

// AddPartner answers like AddBank
// @Summary      Add a partner
// @Tags         catalogs
// @Accept       json
// @Produce      json
// @Param        request body banking.CatalogEntryRequest true "Partner name"
// @Success      200 {object} dto.Response{data=banking.CatalogEntryResponse}
// @Success      201 {object} dto.Response{data=banking.CatalogEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners [post]
func (h *BankingHandler) AddPartner(c *gin.Context) {
	h.addCatalogEntry(c, h.txService.AddPartner)
}

func (h *BankingHandler) addCatalogEntry(c *gin.Context, add func(context.Context, banking.CatalogEntryRequest) (*banking.CatalogEntryResult, error)) {
	if _, ok := h.currentUser(c); !ok {
		return
	}
	var req banking.CatalogEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := add(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Created {
		h.Created(c, result)
		return
	}
	h.Success(c, result)
}
