package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/adityarathore/fintrack-api/internal/models"
	"github.com/adityarathore/fintrack-api/pkg/logger"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc    func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	CreateFunc     func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc     func(ctx context.Context, id string, user *models.User) (*models.User, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return nil, models.ErrInternalServer
}

// MockEmailSender implements EmailSender for testing
type MockEmailSender struct {
	SendOTPEmailFunc func(ctx context.Context, email, code string, purpose models.OTPPurpose) error
	SentCodes        []string
}

func (m *MockEmailSender) SendOTPEmail(ctx context.Context, email, code string, purpose models.OTPPurpose) error {
	if m.SendOTPEmailFunc != nil {
		return m.SendOTPEmailFunc(ctx, email, code, purpose)
	}
	m.SentCodes = append(m.SentCodes, code)
	return nil
}

// MockIncomeRepository implements IncomeRepository for testing
type MockIncomeRepository struct {
	CreateFunc     func(ctx context.Context, income *models.Income) (*models.Income, error)
	ListByUserFunc func(ctx context.Context, userID string) ([]*models.Income, error)
	ListSinceFunc  func(ctx context.Context, userID string, since time.Time) ([]*models.Income, error)
	ListRecentFunc func(ctx context.Context, userID string, limit int) ([]*models.Income, error)
	SumByUserFunc  func(ctx context.Context, userID string) (float64, error)
	DeleteFunc     func(ctx context.Context, userID, id string) error
}

func (m *MockIncomeRepository) Create(ctx context.Context, income *models.Income) (*models.Income, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, income)
	}
	income.ID = "income_test"
	return income, nil
}

func (m *MockIncomeRepository) ListByUser(ctx context.Context, userID string) ([]*models.Income, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*models.Income{}, nil
}

func (m *MockIncomeRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]*models.Income, error) {
	if m.ListSinceFunc != nil {
		return m.ListSinceFunc(ctx, userID, since)
	}
	return []*models.Income{}, nil
}

func (m *MockIncomeRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*models.Income, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, userID, limit)
	}
	return []*models.Income{}, nil
}

func (m *MockIncomeRepository) SumByUser(ctx context.Context, userID string) (float64, error) {
	if m.SumByUserFunc != nil {
		return m.SumByUserFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockIncomeRepository) Delete(ctx context.Context, userID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

// MockExpenseRepository implements ExpenseRepository for testing
type MockExpenseRepository struct {
	CreateFunc     func(ctx context.Context, expense *models.Expense) (*models.Expense, error)
	ListByUserFunc func(ctx context.Context, userID string) ([]*models.Expense, error)
	ListSinceFunc  func(ctx context.Context, userID string, since time.Time) ([]*models.Expense, error)
	ListRecentFunc func(ctx context.Context, userID string, limit int) ([]*models.Expense, error)
	SumByUserFunc  func(ctx context.Context, userID string) (float64, error)
	DeleteFunc     func(ctx context.Context, userID, id string) error
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, expense)
	}
	expense.ID = "expense_test"
	return expense, nil
}

func (m *MockExpenseRepository) ListByUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*models.Expense{}, nil
}

func (m *MockExpenseRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]*models.Expense, error) {
	if m.ListSinceFunc != nil {
		return m.ListSinceFunc(ctx, userID, since)
	}
	return []*models.Expense{}, nil
}

func (m *MockExpenseRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*models.Expense, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, userID, limit)
	}
	return []*models.Expense{}, nil
}

func (m *MockExpenseRepository) SumByUser(ctx context.Context, userID string) (float64, error) {
	if m.SumByUserFunc != nil {
		return m.SumByUserFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockExpenseRepository) Delete(ctx context.Context, userID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

// NewTestUser creates a verified user
func NewTestUser(id, email, fullName string) *models.User {
	now := time.Now()
	return &models.User{
		ID:            id,
		FullName:      fullName,
		Email:         email,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewTestUserUnverified creates a user that has not verified their email
func NewTestUserUnverified(id, email, fullName string) *models.User {
	user := NewTestUser(id, email, fullName)
	user.EmailVerified = false
	return user
}

// NewTestUserWithOTP creates a user with an outstanding OTP
func NewTestUserWithOTP(id, email, fullName, code string, purpose models.OTPPurpose, expiresAt time.Time) *models.User {
	user := NewTestUser(id, email, fullName)
	user.SetOTP(code, purpose, time.Now(), expiresAt)
	return user
}

// newTestLogger returns a discard logger and matching audit logger
func newTestLogger() (*slog.Logger, *logger.AuditLogger) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return log, logger.NewAuditLogger(log)
}
