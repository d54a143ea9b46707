package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/adityarathore/fintrack-api/internal/models"
)

// IncomeRepository is the persistence surface for income records
type IncomeRepository interface {
	Create(ctx context.Context, income *models.Income) (*models.Income, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Income, error)
	ListSince(ctx context.Context, userID string, since time.Time) ([]*models.Income, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]*models.Income, error)
	SumByUser(ctx context.Context, userID string) (float64, error)
	Delete(ctx context.Context, userID, id string) error
}

// ExpenseRepository is the persistence surface for expense records
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) (*models.Expense, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Expense, error)
	ListSince(ctx context.Context, userID string, since time.Time) ([]*models.Expense, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]*models.Expense, error)
	SumByUser(ctx context.Context, userID string) (float64, error)
	Delete(ctx context.Context, userID, id string) error
}

// IncomeResponse is the JSON projection of an income record
type IncomeResponse struct {
	ID        string    `json:"id"`
	Icon      string    `json:"icon,omitempty"`
	Source    string    `json:"source"`
	Amount    float64   `json:"amount"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExpenseResponse is the JSON projection of an expense record
type ExpenseResponse struct {
	ID        string    `json:"id"`
	Icon      string    `json:"icon,omitempty"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TransactionResponse is a merged income or expense entry for the
// dashboard's recent-activity feed. Source is set for incomes,
// Category for expenses.
type TransactionResponse struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Icon     string    `json:"icon,omitempty"`
	Source   string    `json:"source,omitempty"`
	Category string    `json:"category,omitempty"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
}

// PeriodSummary is a windowed total plus the transactions behind it
type PeriodSummary struct {
	Total        float64               `json:"total"`
	Transactions []TransactionResponse `json:"transactions"`
}

// DashboardResponse aggregates a user's finances for the overview page
type DashboardResponse struct {
	TotalBalance       float64               `json:"totalBalance"`
	TotalIncome        float64               `json:"totalIncome"`
	TotalExpense       float64               `json:"totalExpense"`
	Last30DaysExpenses PeriodSummary         `json:"last30DaysExpenses"`
	Last60DaysIncome   PeriodSummary         `json:"last60DaysIncome"`
	RecentTransactions []TransactionResponse `json:"recentTransactions"`
}

const recentTransactionLimit = 5

// FinanceService implements income and expense tracking plus the
// dashboard aggregation built on top of them
type FinanceService struct {
	incomes  IncomeRepository
	expenses ExpenseRepository
	logger   *slog.Logger
}

// NewFinanceService creates a new FinanceService
func NewFinanceService(incomes IncomeRepository, expenses ExpenseRepository, log *slog.Logger) *FinanceService {
	return &FinanceService{
		incomes:  incomes,
		expenses: expenses,
		logger:   log,
	}
}

func newIncomeResponse(income *models.Income) IncomeResponse {
	return IncomeResponse{
		ID:        income.ID,
		Icon:      income.Icon,
		Source:    income.Source,
		Amount:    income.Amount,
		Date:      income.Date,
		CreatedAt: income.CreatedAt,
		UpdatedAt: income.UpdatedAt,
	}
}

func newExpenseResponse(expense *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        expense.ID,
		Icon:      expense.Icon,
		Category:  expense.Category,
		Amount:    expense.Amount,
		Date:      expense.Date,
		CreatedAt: expense.CreatedAt,
		UpdatedAt: expense.UpdatedAt,
	}
}

func incomeTransaction(income *models.Income) TransactionResponse {
	return TransactionResponse{
		ID:     income.ID,
		Type:   "income",
		Icon:   income.Icon,
		Source: income.Source,
		Amount: income.Amount,
		Date:   income.Date,
	}
}

func expenseTransaction(expense *models.Expense) TransactionResponse {
	return TransactionResponse{
		ID:       expense.ID,
		Type:     "expense",
		Icon:     expense.Icon,
		Category: expense.Category,
		Amount:   expense.Amount,
		Date:     expense.Date,
	}
}

// AddIncome records a new income entry for the user
func (s *FinanceService) AddIncome(ctx context.Context, userID, icon, source string, amount float64, date time.Time) (*IncomeResponse, error) {
	created, err := s.incomes.Create(ctx, &models.Income{
		UserID: userID,
		Icon:   icon,
		Source: source,
		Amount: amount,
		Date:   date,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("income added", slog.String("user_id", userID), slog.String("income_id", created.ID))

	resp := newIncomeResponse(created)
	return &resp, nil
}

// ListIncome returns all income entries for the user, newest first
func (s *FinanceService) ListIncome(ctx context.Context, userID string) ([]IncomeResponse, error) {
	incomes, err := s.incomes.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]IncomeResponse, 0, len(incomes))
	for _, income := range incomes {
		out = append(out, newIncomeResponse(income))
	}
	return out, nil
}

// DeleteIncome removes an income entry owned by the user
func (s *FinanceService) DeleteIncome(ctx context.Context, userID, id string) error {
	return s.incomes.Delete(ctx, userID, id)
}

// AddExpense records a new expense entry for the user
func (s *FinanceService) AddExpense(ctx context.Context, userID, icon, category string, amount float64, date time.Time) (*ExpenseResponse, error) {
	created, err := s.expenses.Create(ctx, &models.Expense{
		UserID:   userID,
		Icon:     icon,
		Category: category,
		Amount:   amount,
		Date:     date,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("expense added", slog.String("user_id", userID), slog.String("expense_id", created.ID))

	resp := newExpenseResponse(created)
	return &resp, nil
}

// ListExpense returns all expense entries for the user, newest first
func (s *FinanceService) ListExpense(ctx context.Context, userID string) ([]ExpenseResponse, error) {
	expenses, err := s.expenses.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		out = append(out, newExpenseResponse(expense))
	}
	return out, nil
}

// DeleteExpense removes an expense entry owned by the user
func (s *FinanceService) DeleteExpense(ctx context.Context, userID, id string) error {
	return s.expenses.Delete(ctx, userID, id)
}

// Dashboard builds the overview: lifetime totals, a 30-day expense
// window, a 60-day income window and the most recent activity from
// both ledgers merged newest first.
func (s *FinanceService) Dashboard(ctx context.Context, userID string) (*DashboardResponse, error) {
	totalIncome, err := s.incomes.SumByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalExpense, err := s.expenses.SumByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	recentExpenses, err := s.expenses.ListSince(ctx, userID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	last30DaysExpenses := PeriodSummary{Transactions: make([]TransactionResponse, 0, len(recentExpenses))}
	for _, expense := range recentExpenses {
		last30DaysExpenses.Total += expense.Amount
		last30DaysExpenses.Transactions = append(last30DaysExpenses.Transactions, expenseTransaction(expense))
	}

	recentIncomes, err := s.incomes.ListSince(ctx, userID, now.AddDate(0, 0, -60))
	if err != nil {
		return nil, err
	}

	last60DaysIncome := PeriodSummary{Transactions: make([]TransactionResponse, 0, len(recentIncomes))}
	for _, income := range recentIncomes {
		last60DaysIncome.Total += income.Amount
		last60DaysIncome.Transactions = append(last60DaysIncome.Transactions, incomeTransaction(income))
	}

	latestIncomes, err := s.incomes.ListRecent(ctx, userID, recentTransactionLimit)
	if err != nil {
		return nil, err
	}

	latestExpenses, err := s.expenses.ListRecent(ctx, userID, recentTransactionLimit)
	if err != nil {
		return nil, err
	}

	recent := make([]TransactionResponse, 0, len(latestIncomes)+len(latestExpenses))
	for _, income := range latestIncomes {
		recent = append(recent, incomeTransaction(income))
	}
	for _, expense := range latestExpenses {
		recent = append(recent, expenseTransaction(expense))
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})

	return &DashboardResponse{
		TotalBalance:       totalIncome - totalExpense,
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		Last30DaysExpenses: last30DaysExpenses,
		Last60DaysIncome:   last60DaysIncome,
		RecentTransactions: recent,
	}, nil
}
