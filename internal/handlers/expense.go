package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/adityarathore/fintrack-api/internal/auth"
	"github.com/adityarathore/fintrack-api/internal/models"
	pkghttp "github.com/adityarathore/fintrack-api/pkg/http"
	"github.com/go-chi/chi/v5"
)

// ExpenseHandler handles expense CRUD endpoints
type ExpenseHandler struct {
	service FinanceServiceInterface
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(service FinanceServiceInterface) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// AddExpenseRequest represents the request body for recording an expense
type AddExpenseRequest struct {
	Icon     string    `json:"icon"`
	Category string    `json:"category" validate:"required,min=1,max=100"`
	Amount   float64   `json:"amount" validate:"required,gt=0"`
	Date     time.Time `json:"date" validate:"required"`
}

// Add records a new expense entry
func (h *ExpenseHandler) Add(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.GetAuthContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Unauthorized: no token provided")
		return
	}

	var req AddExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	expense, err := h.service.AddExpense(r.Context(), ac.UserID, req.Icon, req.Category, req.Amount, req.Date)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, expense)
}

// List returns all expense entries for the user, newest first
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.GetAuthContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Unauthorized: no token provided")
		return
	}

	expenses, err := h.service.ListExpense(r.Context(), ac.UserID)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, expenses)
}

// Delete removes an expense entry owned by the user
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.GetAuthContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Unauthorized: no token provided")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		pkghttp.WriteBadRequest(w, "Missing expense id")
		return
	}

	if err := h.service.DeleteExpense(r.Context(), ac.UserID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Expense not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Expense deleted successfully"})
}
