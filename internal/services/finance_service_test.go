package services

import (
	"context"
	"testing"
	"time"

	"github.com/adityarathore/fintrack-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFinanceService(incomes IncomeRepository, expenses ExpenseRepository) *FinanceService {
	log, _ := newTestLogger()
	return NewFinanceService(incomes, expenses, log)
}

func testIncome(id string, amount float64, daysAgo int) *models.Income {
	return &models.Income{
		ID:     id,
		UserID: "user123",
		Source: "Salary",
		Amount: amount,
		Date:   time.Now().AddDate(0, 0, -daysAgo),
	}
}

func testExpense(id string, amount float64, daysAgo int) *models.Expense {
	return &models.Expense{
		ID:       id,
		UserID:   "user123",
		Category: "Groceries",
		Amount:   amount,
		Date:     time.Now().AddDate(0, 0, -daysAgo),
	}
}

func TestFinanceService_AddIncome(t *testing.T) {
	var created *models.Income
	incomes := &MockIncomeRepository{
		CreateFunc: func(ctx context.Context, income *models.Income) (*models.Income, error) {
			income.ID = "income123"
			created = income
			return income, nil
		},
	}

	svc := newFinanceService(incomes, &MockExpenseRepository{})

	date := time.Now()
	resp, err := svc.AddIncome(context.Background(), "user123", "💰", "Salary", 2500, date)
	require.NoError(t, err)

	assert.Equal(t, "income123", resp.ID)
	assert.Equal(t, "Salary", resp.Source)
	assert.Equal(t, 2500.0, resp.Amount)
	assert.Equal(t, "user123", created.UserID)
}

func TestFinanceService_DeleteExpense_NotFound(t *testing.T) {
	expenses := &MockExpenseRepository{
		DeleteFunc: func(ctx context.Context, userID, id string) error {
			return models.ErrNotFound
		},
	}

	svc := newFinanceService(&MockIncomeRepository{}, expenses)

	err := svc.DeleteExpense(context.Background(), "user123", "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFinanceService_Dashboard(t *testing.T) {
	incomes := &MockIncomeRepository{
		SumByUserFunc: func(ctx context.Context, userID string) (float64, error) {
			return 5000, nil
		},
		ListSinceFunc: func(ctx context.Context, userID string, since time.Time) ([]*models.Income, error) {
			return []*models.Income{
				testIncome("income1", 3000, 5),
				testIncome("income2", 2000, 45),
			}, nil
		},
		ListRecentFunc: func(ctx context.Context, userID string, limit int) ([]*models.Income, error) {
			assert.Equal(t, 5, limit)
			return []*models.Income{testIncome("income1", 3000, 5)}, nil
		},
	}
	expenses := &MockExpenseRepository{
		SumByUserFunc: func(ctx context.Context, userID string) (float64, error) {
			return 1200, nil
		},
		ListSinceFunc: func(ctx context.Context, userID string, since time.Time) ([]*models.Expense, error) {
			return []*models.Expense{
				testExpense("expense1", 700, 2),
				testExpense("expense2", 500, 20),
			}, nil
		},
		ListRecentFunc: func(ctx context.Context, userID string, limit int) ([]*models.Expense, error) {
			return []*models.Expense{
				testExpense("expense1", 700, 2),
				testExpense("expense2", 500, 20),
			}, nil
		},
	}

	svc := newFinanceService(incomes, expenses)

	dashboard, err := svc.Dashboard(context.Background(), "user123")
	require.NoError(t, err)

	assert.Equal(t, 3800.0, dashboard.TotalBalance)
	assert.Equal(t, 5000.0, dashboard.TotalIncome)
	assert.Equal(t, 1200.0, dashboard.TotalExpense)

	assert.Equal(t, 1200.0, dashboard.Last30DaysExpenses.Total)
	assert.Len(t, dashboard.Last30DaysExpenses.Transactions, 2)

	assert.Equal(t, 5000.0, dashboard.Last60DaysIncome.Total)
	assert.Len(t, dashboard.Last60DaysIncome.Transactions, 2)

	// Merged feed is sorted newest first and tags each entry with its kind
	require.Len(t, dashboard.RecentTransactions, 3)
	assert.Equal(t, "expense1", dashboard.RecentTransactions[0].ID)
	assert.Equal(t, "expense", dashboard.RecentTransactions[0].Type)
	assert.Equal(t, "income1", dashboard.RecentTransactions[1].ID)
	assert.Equal(t, "income", dashboard.RecentTransactions[1].Type)
	assert.Equal(t, "expense2", dashboard.RecentTransactions[2].ID)

	for i := 1; i < len(dashboard.RecentTransactions); i++ {
		assert.False(t, dashboard.RecentTransactions[i-1].Date.Before(dashboard.RecentTransactions[i].Date))
	}
}

func TestFinanceService_Dashboard_EmptyLedgers(t *testing.T) {
	svc := newFinanceService(&MockIncomeRepository{}, &MockExpenseRepository{})

	dashboard, err := svc.Dashboard(context.Background(), "user123")
	require.NoError(t, err)

	assert.Zero(t, dashboard.TotalBalance)
	assert.Empty(t, dashboard.RecentTransactions)
	assert.Empty(t, dashboard.Last30DaysExpenses.Transactions)
	assert.Empty(t, dashboard.Last60DaysIncome.Transactions)
}
