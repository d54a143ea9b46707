package repositories

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/adityarathore/fintrack-api/internal/database"
	"github.com/adityarathore/fintrack-api/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a throwaway postgres container and migrates it
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("fintrack"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := database.NewFromPool(pool, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, db.Migrate(ctx))

	return db
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		FullName:     "Jane Doe",
		Email:        "jane@example.com",
		PasswordHash: "bcrypt-hash",
	}

	created, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.EmailVerified)
	assert.False(t, created.PasswordResetVerified)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &models.User{FullName: "Jane Doe", Email: "jane@example.com", PasswordHash: "hash1"}
	created, err := repo.Create(ctx, first)
	require.NoError(t, err)

	second := &models.User{FullName: "Other Jane", Email: "jane@example.com", PasswordHash: "hash2"}
	_, err = repo.Create(ctx, second)
	assert.ErrorIs(t, err, models.ErrConflict)

	// The unique index loser must not disturb the winner's record
	kept, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", kept.FullName)
	assert.Equal(t, "hash1", kept.PasswordHash)
}

func TestUserRepository_UpdatePersistsOTPState(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := repo.Create(ctx, &models.User{
		FullName:     "Jane Doe",
		Email:        "jane@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	user.SetOTP("123456", models.OTPPurposePasswordReset, time.Now(), time.Now().Add(10*time.Minute))
	user.PasswordResetVerified = true

	_, err = repo.Update(ctx, user.ID, user)
	require.NoError(t, err)

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, reloaded.HasOTP())
	assert.Equal(t, "123456", *reloaded.OTPCode)
	assert.Equal(t, models.OTPPurposePasswordReset, *reloaded.OTPPurpose)
	assert.True(t, reloaded.PasswordResetVerified)

	reloaded.ClearOTP()
	reloaded.PasswordResetVerified = false
	_, err = repo.Update(ctx, reloaded.ID, reloaded)
	require.NoError(t, err)

	cleared, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, cleared.HasOTP())
	assert.Nil(t, cleared.OTPPurpose)
}

func TestIncomeRepository_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	incomes := NewIncomeRepository(db)
	ctx := context.Background()

	user, err := users.Create(ctx, &models.User{
		FullName:     "Jane Doe",
		Email:        "jane@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	_, err = incomes.Create(ctx, &models.Income{
		UserID: user.ID,
		Source: "Salary",
		Amount: 2500.50,
		Date:   time.Now().AddDate(0, 0, -1),
	})
	require.NoError(t, err)

	_, err = incomes.Create(ctx, &models.Income{
		UserID: user.ID,
		Source: "Freelance",
		Amount: 400,
		Date:   time.Now().AddDate(0, 0, -40),
	})
	require.NoError(t, err)

	all, err := incomes.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Salary", all[0].Source)

	recent, err := incomes.ListSince(ctx, user.ID, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Salary", recent[0].Source)

	total, err := incomes.SumByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2900.50, total, 0.001)
}

func TestExpenseRepository_DeleteScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	expenses := NewExpenseRepository(db)
	ctx := context.Background()

	owner, err := users.Create(ctx, &models.User{
		FullName: "Jane Doe", Email: "jane@example.com", PasswordHash: "hash",
	})
	require.NoError(t, err)

	other, err := users.Create(ctx, &models.User{
		FullName: "John Doe", Email: "john@example.com", PasswordHash: "hash",
	})
	require.NoError(t, err)

	expense, err := expenses.Create(ctx, &models.Expense{
		UserID:   owner.ID,
		Category: "Groceries",
		Amount:   42,
		Date:     time.Now(),
	})
	require.NoError(t, err)

	// Another user cannot delete it
	err = expenses.Delete(ctx, other.ID, expense.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, expenses.Delete(ctx, owner.ID, expense.ID))

	remaining, err := expenses.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestUserRepository_DeleteCascadesTransactions(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	incomes := NewIncomeRepository(db)
	ctx := context.Background()

	user, err := users.Create(ctx, &models.User{
		FullName: "Jane Doe", Email: "jane@example.com", PasswordHash: "hash",
	})
	require.NoError(t, err)

	_, err = incomes.Create(ctx, &models.Income{
		UserID: user.ID, Source: "Salary", Amount: 100, Date: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, user.ID))

	left, err := incomes.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}
