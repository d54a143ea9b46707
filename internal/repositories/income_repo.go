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

const incomeColumns = `id, user_id, icon, source, amount, date, created_at, updated_at`

type IncomeRepository struct {
	db *database.DB
}

func NewIncomeRepository(db *database.DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

func scanIncomeRow(scanner rowScanner) (*models.Income, error) {
	var income models.Income

	err := scanner.Scan(
		&income.ID, &income.UserID, &income.Icon, &income.Source,
		&income.Amount, &income.Date, &income.CreatedAt, &income.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &income, nil
}

func scanIncomeRows(rows pgx.Rows) ([]*models.Income, error) {
	defer rows.Close()

	incomes := make([]*models.Income, 0)

	for rows.Next() {
		income, err := scanIncomeRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		incomes = append(incomes, income)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return incomes, nil
}

func (r *IncomeRepository) Create(ctx context.Context, income *models.Income) (*models.Income, error) {
	income.ID = uuid.New().String()

	now := time.Now()
	income.CreatedAt = now
	income.UpdatedAt = now

	query := `
		INSERT INTO incomes (id, user_id, icon, source, amount, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + incomeColumns

	return scanIncomeRow(r.db.Pool.QueryRow(ctx, query,
		income.ID, income.UserID, income.Icon, income.Source,
		income.Amount, income.Date, income.CreatedAt, income.UpdatedAt,
	))
}

func (r *IncomeRepository) ListByUser(ctx context.Context, userID string) ([]*models.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE user_id = $1 ORDER BY date DESC`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomes: %w", err)
	}

	return scanIncomeRows(rows)
}

func (r *IncomeRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]*models.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE user_id = $1 AND date >= $2 ORDER BY date DESC`

	rows, err := r.db.Pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomes: %w", err)
	}

	return scanIncomeRows(rows)
}

func (r *IncomeRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*models.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE user_id = $1 ORDER BY date DESC LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomes: %w", err)
	}

	return scanIncomeRows(rows)
}

func (r *IncomeRepository) SumByUser(ctx context.Context, userID string) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM incomes WHERE user_id = $1`

	var total float64
	if err := r.db.Pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return 0, database.MapPostgresError(err)
	}

	return total, nil
}

// Delete removes an income record, scoped to its owner
func (r *IncomeRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM incomes WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool.Exec(ctx, query, id, userID)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
