package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/adityarathore/fintrack-api/internal/auth"
	"github.com/adityarathore/fintrack-api/internal/models"
	pkgauth "github.com/adityarathore/fintrack-api/pkg/auth"
	"github.com/adityarathore/fintrack-api/pkg/logger"
)

// UserRepository is the persistence surface the auth flows need
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
}

// UserResponse is the safe projection of a user for API responses.
// It never carries the password hash or OTP state.
type UserResponse struct {
	ID              string  `json:"id"`
	FullName        string  `json:"fullName"`
	Email           string  `json:"email"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// NewUserResponse builds the safe projection from a user record
func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:              user.ID,
		FullName:        user.FullName,
		Email:           user.Email,
		ProfileImageURL: user.ProfileImageURL,
	}
}

// LoginResult bundles the minted token pair with the authenticated user
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *UserResponse
}

// AuthService implements registration, email verification and login
type AuthService struct {
	users        UserRepository
	tokenManager *auth.TokenManager
	otpManager   *auth.OTPManager
	emailSender  EmailSender
	logger       *slog.Logger
	auditLogger  *logger.AuditLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserRepository, tm *auth.TokenManager, om *auth.OTPManager, sender EmailSender, log *slog.Logger, audit *logger.AuditLogger) *AuthService {
	return &AuthService{
		users:        users,
		tokenManager: tm,
		otpManager:   om,
		emailSender:  sender,
		logger:       log,
		auditLogger:  audit,
	}
}

// NormalizeEmail lowercases and trims an email so lookups are
// case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and emails a signup OTP.
// A duplicate email returns models.ErrConflict whether the race is lost
// at the lookup or at the insert.
func (s *AuthService) Register(ctx context.Context, fullName, email, password string, profileImageURL *string, clientIP string) (*UserResponse, error) {
	email = NormalizeEmail(email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		s.logger.Warn("registration rejected, email in use",
			slog.String("email", logger.SanitizedEmail(email)))
		s.auditLogger.LogAuthAttempt(logger.AuditEvent{
			EventType:     "register",
			IPAddress:     clientIP,
			Success:       false,
			FailureReason: "email already exists",
		})
		return nil, models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:        fullName,
		Email:           email,
		PasswordHash:    hash,
		EmailVerified:   false,
		ProfileImageURL: profileImageURL,
	}

	code, err := s.otpManager.Issue(user, models.OTPPurposeSignupVerify)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.emailSender.SendOTPEmail(ctx, created.Email, code, models.OTPPurposeSignupVerify); err != nil {
		s.logger.Error("failed to deliver signup otp",
			slog.String("user_id", created.ID),
			slog.Any("error", err))
		return nil, err
	}

	s.auditLogger.LogAuthAttempt(logger.AuditEvent{
		EventType: "register",
		UserID:    created.ID,
		IPAddress: clientIP,
		Success:   true,
	})

	return NewUserResponse(created), nil
}

// VerifyOTP consumes a signup OTP and marks the account verified.
// Failed attempts leave the stored code untouched; a consumed or
// never-issued code surfaces as models.ErrOTPNotFound.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*UserResponse, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if user.EmailVerified {
		return nil, models.ErrAlreadyVerified
	}

	if err := s.otpManager.Verify(user, code, models.OTPPurposeSignupVerify); err != nil {
		return nil, err
	}

	user.EmailVerified = true
	user.ClearOTP()

	updated, err := s.users.Update(ctx, user.ID, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("email verified", slog.String("user_id", updated.ID))

	return NewUserResponse(updated), nil
}

// ResendOTP issues a fresh signup code, replacing any outstanding one
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}

	if user.EmailVerified {
		return models.ErrAlreadyVerified
	}

	code, err := s.otpManager.Issue(user, models.OTPPurposeSignupVerify)
	if err != nil {
		return err
	}

	if _, err := s.users.Update(ctx, user.ID, user); err != nil {
		return err
	}

	return s.emailSender.SendOTPEmail(ctx, user.Email, code, models.OTPPurposeSignupVerify)
}

// Login authenticates a verified account and mints a token pair.
// An unknown email, an unverified account and a wrong password each
// surface as distinct errors so the handler can keep the original
// response taxonomy.
func (s *AuthService) Login(ctx context.Context, email, password, clientIP string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.auditLogger.LogAuthAttempt(logger.AuditEvent{
				EventType:     "login",
				IPAddress:     clientIP,
				Success:       false,
				FailureReason: "user not found",
			})
		}
		return nil, err
	}

	if !user.EmailVerified {
		s.auditLogger.LogAuthAttempt(logger.AuditEvent{
			EventType:     "login",
			UserID:        user.ID,
			IPAddress:     clientIP,
			Success:       false,
			FailureReason: "email not verified",
		})
		return nil, models.ErrEmailNotVerified
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.auditLogger.LogAuthAttempt(logger.AuditEvent{
			EventType:     "login",
			UserID:        user.ID,
			IPAddress:     clientIP,
			Success:       false,
			FailureReason: "invalid credentials",
		})
		return nil, models.ErrUnauthorized
	}

	accessToken, err := s.tokenManager.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.auditLogger.LogAuthAttempt(logger.AuditEvent{
		EventType: "login",
		UserID:    user.ID,
		IPAddress: clientIP,
		Success:   true,
	})

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         NewUserResponse(user),
	}, nil
}

// GetUser returns the safe projection of the user behind a session
func (s *AuthService) GetUser(ctx context.Context, userID string) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewUserResponse(user), nil
}
