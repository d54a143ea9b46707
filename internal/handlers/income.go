package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/adityarathore/fintrack-api/internal/auth"
	"github.com/adityarathore/fintrack-api/internal/models"
	"github.com/adityarathore/fintrack-api/internal/services"
	pkghttp "github.com/adityarathore/fintrack-api/pkg/http"
	"github.com/go-chi/chi/v5"
)

// FinanceServiceInterface defines the interface for income and expense
// tracking plus the dashboard aggregation
type FinanceServiceInterface interface {
	AddIncome(ctx context.Context, userID, icon, source string, amount float64, date time.Time) (*services.IncomeResponse, error)
	ListIncome(ctx context.Context, userID string) ([]services.IncomeResponse, error)
	DeleteIncome(ctx context.Context, userID, id string) error
	AddExpense(ctx context.Context, userID, icon, category string, amount float64, date time.Time) (*services.ExpenseResponse, error)
	ListExpense(ctx context.Context, userID string) ([]services.ExpenseResponse, error)
	DeleteExpense(ctx context.Context, userID, id string) error
	Dashboard(ctx context.Context, userID string) (*services.DashboardResponse, error)
}

// IncomeHandler handles income CRUD endpoints
type IncomeHandler struct {
	service FinanceServiceInterface
}

// NewIncomeHandler creates a new IncomeHandler
func NewIncomeHandler(service FinanceServiceInterface) *IncomeHandler {
	return &IncomeHandler{service: service}
}

// AddIncomeRequest represents the request body for recording income
type AddIncomeRequest struct {
	Icon   string    `json:"icon"`
	Source string    `json:"source" validate:"required,min=1,max=100"`
	Amount float64   `json:"amount" validate:"required,gt=0"`
	Date   time.Time `json:"date" validate:"required"`
}

// Add records a new income entry
func (h *IncomeHandler) Add(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.GetAuthContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Unauthorized: no token provided")
		return
	}

	var req AddIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	income, err := h.service.AddIncome(r.Context(), ac.UserID, req.Icon, req.Source, req.Amount, req.Date)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, income)
}

// List returns all income entries for the user, newest first
func (h *IncomeHandler) List(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.GetAuthContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Unauthorized: no token provided")
		return
	}

	incomes, err := h.service.ListIncome(r.Context(), ac.UserID)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, incomes)
}

// Delete removes an income entry owned by the user
func (h *IncomeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.GetAuthContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Unauthorized: no token provided")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		pkghttp.WriteBadRequest(w, "Missing income id")
		return
	}

	if err := h.service.DeleteIncome(r.Context(), ac.UserID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Income not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Income deleted successfully"})
}
