package handler

import (
	"github.com/billbook/backend/internal/application/identity"
	"github.com/billbook/backend/internal/interfaces/http/middleware"
	"github.com/billbook/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Routes registers /auth. guards run on every auth route (the sign-in rate
// limit); requireAuth only on the signed-in ones.
func (h *AuthHandler) Routes(requireAuth gin.HandlerFunc, guards ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("auth", "/auth")
	group.Use(guards...)

	group.POST("/register", h.Register)
	group.POST("/login", h.Login)
	group.POST("/refresh", h.Refresh)
	group.POST("/otp/request", h.RequestOTP)
	group.POST("/otp/verify", h.ResetPassword)

	group.GET("/me", requireAuth, h.Me)
	group.POST("/logout", requireAuth, h.Logout)
	return group
}

// Register creates an account and returns it with a token pair
// @Summary      Register an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RegisterRequest true "Registration request"
// @Success      201 {object} dto.Response{data=identity.AuthResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Login exchanges email and password for a token pair
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginRequest true "Credentials"
// @Success      200 {object} dto.Response{data=identity.AuthResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh rotates a refresh token
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RefreshRequest true "Refresh token"
// @Success      200 {object} dto.Response{data=identity.TokenResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

type logoutBody struct {
	Refresh string `json:"refresh"`
}

// Logout revokes the presented access token and the refresh token in the
// body, if any
// @Summary      Sign out
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body logoutBody false "Refresh token to revoke"
// @Success      204 "No Content"
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication credentials were not provided.")
		return
	}

	var body logoutBody
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &body) {
		return
	}

	err := h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		UserID:       userID,
		AccessJTI:    claims.ID,
		AccessTTL:    claims.GetRemainingTTL(),
		RefreshToken: body.Refresh,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me returns the signed-in user
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.UserResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// RequestOTP mails a password reset code. The answer is the same whether
// or not the email has an account.
// @Summary      Request a password reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.OTPRequest true "Account email"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/otp/request [post]
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req identity.OTPRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.authService.RequestOTP(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "If the email is registered, a reset code has been sent."})
}

// ResetPassword verifies the code and sets the new password
// @Summary      Reset password with a code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.ResetPasswordRequest true "Code and new password"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/otp/verify [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req identity.ResetPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Password has been reset."})
}
