package handler

import (
	"github.com/billbook/backend/internal/application/staff"
	"github.com/billbook/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// EmployeeHandler handles the employee register
type EmployeeHandler struct {
	BaseHandler
	employeeService *staff.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *staff.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Routes registers /employees behind requireAuth
func (h *EmployeeHandler) Routes(requireAuth gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("employees", "/employees")
	group.Use(requireAuth)

	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.GetByID)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	return group
}

// Create godoc
// @Summary      Add an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        request body staff.EmployeeRequest true "Employee"
// @Success      201 {object} dto.Response{data=staff.EmployeeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req staff.EmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, employee)
}

// List godoc
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Success      200 {object} dto.Response{data=[]staff.EmployeeResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	employees, err := h.employeeService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(&h.BaseHandler, c, employees)
}

// GetByID godoc
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} dto.Response{data=staff.EmployeeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	employee, err := h.employeeService.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Update replaces every field of the employee
// @Summary      Replace an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Param        request body staff.EmployeeRequest true "Employee"
// @Success      200 {object} dto.Response{data=staff.EmployeeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req staff.EmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Delete godoc
// @Summary      Delete an employee
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.employeeService.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
