package handlers

import (
	"net/http"

	"github.com/adityarathore/fintrack-api/internal/auth"
	pkghttp "github.com/adityarathore/fintrack-api/pkg/http"
)

// DashboardHandler serves the aggregated finance overview
type DashboardHandler struct {
	service FinanceServiceInterface
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service FinanceServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Get returns totals, windowed summaries and recent transactions
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.GetAuthContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Unauthorized: no token provided")
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), ac.UserID)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, dashboard)
}
