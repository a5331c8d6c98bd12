package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/billbook/backend/internal/application/invoicing"
	"github.com/billbook/backend/internal/interfaces/http/dto"
	"github.com/billbook/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	BaseHandler
	invoiceService *invoicing.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *invoicing.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Routes registers /invoices behind requireAuth
func (h *InvoiceHandler) Routes(requireAuth gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("invoices", "/invoices")
	group.Use(requireAuth)

	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/next-number", h.NextNumber)
	group.GET("/grouped", h.Grouped)
	group.GET("/by-gst/:gst", h.ListByGST)
	group.GET("/:id", h.GetByID)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	group.GET("/:id/pdf", h.PDF)
	return group
}

// Create issues a new invoice. The response carries the allocated number
// and, for foreign invoices without a rate, a warning.
// @Summary      Issue an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body invoicing.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} dto.Response{data=invoicing.CreateInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req invoicing.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.invoiceService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// List returns the user's invoices, optionally for one financial year
// (?year=2024/2025)
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        year query string false "Financial year" example(2024/2025)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]invoicing.InvoiceResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req invoicing.ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if invoices == nil {
		invoices = []invoicing.InvoiceResponse{}
	}
	h.SuccessWithMeta(c, invoices, dto.Meta{Total: total, Page: req.Page, PageSize: req.PageSize})
}

// GetByID returns one invoice
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=invoicing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	inv, err := h.invoiceService.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// Update applies a partial update and re-prices the invoice
// @Summary      Update an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body invoicing.UpdateInvoiceRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=invoicing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req invoicing.UpdateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	inv, err := h.invoiceService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// Delete removes an invoice
// @Summary      Delete an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListByGST returns every invoice issued to one GSTIN
// @Summary      List invoices of a GSTIN
// @Tags         invoices
// @Produce      json
// @Param        gst path string true "Buyer GSTIN"
// @Success      200 {object} dto.Response{data=[]invoicing.InvoiceResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/by-gst/{gst} [get]
func (h *InvoiceHandler) ListByGST(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	invoices, err := h.invoiceService.ListByGST(c.Request.Context(), userID, c.Param("gst"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(&h.BaseHandler, c, invoices)
}

// Grouped returns invoices grouped per buyer
// @Summary      List invoices grouped by buyer
// @Tags         invoices
// @Produce      json
// @Success      200 {object} dto.Response{data=[]invoicing.InvoiceGroupResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/grouped [get]
func (h *InvoiceHandler) Grouped(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	groups, err := h.invoiceService.Grouped(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(&h.BaseHandler, c, groups)
}

// NextNumber previews the number of the next invoice in the current
// financial year
// @Summary      Preview the next invoice number
// @Tags         invoices
// @Produce      json
// @Success      200 {object} dto.Response{data=invoicing.NextNumberResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/next-number [get]
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	next, err := h.invoiceService.NextNumber(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, next)
}

// PDF streams the printed invoice
// @Summary      Print an invoice
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        inline query string false "1 to display instead of download"
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	pdf, filename, err := h.invoiceService.PDF(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(filename, c.Query("inline") == "1"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// attachment builds a Content-Disposition value. Invoice numbers contain a
// slash ("07-2024/2025"), which is not allowed in file names.
func attachment(filename string, inline bool) string {
	filename = strings.NewReplacer("/", "-", `"`, "", "\\", "-").Replace(filename)
	kind := "attachment"
	if inline {
		kind = "inline"
	}
	return fmt.Sprintf(`%s; filename="%s"`, kind, filename)
}
