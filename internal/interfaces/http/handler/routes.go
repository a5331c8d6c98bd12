package handler

import (
	"github.com/billbook/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler of the API
type Handlers struct {
	System   *SystemHandler
	Auth     *AuthHandler
	Invoice  *InvoiceHandler
	Balance  *BalanceHandler
	Settings *SettingsHandler
	Banking  *BankingHandler
	Treasury *TreasuryHandler
	Employee *EmployeeHandler
}

// Register mounts every route group on r. requireAuth guards the
// signed-in routes; authGuards run on every /auth route.
func (hs Handlers) Register(r *router.Router, requireAuth gin.HandlerFunc, authGuards ...gin.HandlerFunc) {
	r.RegisterRoot(hs.System.Routes())
	r.Register(
		hs.System.Routes(),
		hs.Auth.Routes(requireAuth, authGuards...),
		hs.Invoice.Routes(requireAuth),
		hs.Balance.Routes(requireAuth),
		hs.Settings.Routes(requireAuth),
		hs.Banking.Routes(requireAuth),
		hs.Banking.CatalogRoutes(requireAuth),
		hs.Treasury.Routes(requireAuth),
		hs.Employee.Routes(requireAuth),
	)
}
