package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/adityarathore/fintrack-api/internal/database"
	"github.com/adityarathore/fintrack-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const expenseColumns = `id, user_id, icon, category, amount, date, created_at, updated_at`

type ExpenseRepository struct {
	db *database.DB
}

func NewExpenseRepository(db *database.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func scanExpenseRow(scanner rowScanner) (*models.Expense, error) {
	var expense models.Expense

	err := scanner.Scan(
		&expense.ID, &expense.UserID, &expense.Icon, &expense.Category,
		&expense.Amount, &expense.Date, &expense.CreatedAt, &expense.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &expense, nil
}

func scanExpenseRows(rows pgx.Rows) ([]*models.Expense, error) {
	defer rows.Close()

	expenses := make([]*models.Expense, 0)

	for rows.Next() {
		expense, err := scanExpenseRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return expenses, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	expense.ID = uuid.New().String()

	now := time.Now()
	expense.CreatedAt = now
	expense.UpdatedAt = now

	query := `
		INSERT INTO expenses (id, user_id, icon, category, amount, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + expenseColumns

	return scanExpenseRow(r.db.Pool.QueryRow(ctx, query,
		expense.ID, expense.UserID, expense.Icon, expense.Category,
		expense.Amount, expense.Date, expense.CreatedAt, expense.UpdatedAt,
	))
}

func (r *ExpenseRepository) ListByUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id = $1 ORDER BY date DESC`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}

	return scanExpenseRows(rows)
}

func (r *ExpenseRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id = $1 AND date >= $2 ORDER BY date DESC`

	rows, err := r.db.Pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}

	return scanExpenseRows(rows)
}

func (r *ExpenseRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id = $1 ORDER BY date DESC LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}

	return scanExpenseRows(rows)
}

func (r *ExpenseRepository) SumByUser(ctx context.Context, userID string) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = $1`

	var total float64
	if err := r.db.Pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return 0, database.MapPostgresError(err)
	}

	return total, nil
}

// Delete removes an expense record, scoped to its owner
func (r *ExpenseRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM expenses WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool.Exec(ctx, query, id, userID)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
