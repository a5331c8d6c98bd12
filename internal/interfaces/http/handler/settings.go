package handler

import (
	"github.com/billbook/backend/internal/application/settings"
	"github.com/billbook/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// SettingsHandler serves the seller profile printed on invoices
type SettingsHandler struct {
	BaseHandler
	settingsService *settings.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settings.Service) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Routes registers /settings behind requireAuth
func (h *SettingsHandler) Routes(requireAuth gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("settings", "/settings")
	group.Use(requireAuth)

	group.GET("", h.Get)
	group.PUT("", h.Update)
	group.PATCH("", h.Update)
	group.DELETE("", h.Delete)
	return group
}

// Get returns the profile, creating an empty one on first access
// @Summary      Get the seller profile
// @Tags         settings
// @Produce      json
// @Success      200 {object} dto.Response{data=settings.SettingResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	setting, err := h.settingsService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setting)
}

// Update overlays the fields present in the body
// @Summary      Update the seller profile
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body settings.UpdateSettingRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=settings.SettingResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /settings [put]
// @Router       /settings [patch]
func (h *SettingsHandler) Update(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req settings.UpdateSettingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	setting, err := h.settingsService.Update(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setting)
}

// Delete godoc
// @Summary      Delete the seller profile
// @Tags         settings
// @Produce      json
// @Success      204 "No Content"
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /settings [delete]
func (h *SettingsHandler) Delete(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.settingsService.Delete(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
