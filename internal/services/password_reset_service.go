package services

import (
	"context"
	"log/slog"

	"github.com/adityarathore/fintrack-api/internal/auth"
	"github.com/adityarathore/fintrack-api/internal/models"
	pkgauth "github.com/adityarathore/fintrack-api/pkg/auth"
	"github.com/adityarathore/fintrack-api/pkg/logger"
)

// PasswordResetService implements the forgot-password flow: request an
// OTP, verify it, then set a new password. The verified flag lives on
// the user record so the reset step can demand a prior verification.
type PasswordResetService struct {
	users       UserRepository
	otpManager  *auth.OTPManager
	emailSender EmailSender
	logger      *slog.Logger
	auditLogger *logger.AuditLogger
}

// NewPasswordResetService creates a new PasswordResetService
func NewPasswordResetService(users UserRepository, om *auth.OTPManager, sender EmailSender, log *slog.Logger, audit *logger.AuditLogger) *PasswordResetService {
	return &PasswordResetService{
		users:       users,
		otpManager:  om,
		emailSender: sender,
		logger:      log,
		auditLogger: audit,
	}
}

// RequestOTP issues a password-reset code and emails it. Any previous
// verification is revoked so an old verify cannot authorize a reset
// against a newer code.
func (s *PasswordResetService) RequestOTP(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}

	code, err := s.otpManager.Issue(user, models.OTPPurposePasswordReset)
	if err != nil {
		return err
	}
	user.PasswordResetVerified = false

	if _, err := s.users.Update(ctx, user.ID, user); err != nil {
		return err
	}

	return s.emailSender.SendOTPEmail(ctx, user.Email, code, models.OTPPurposePasswordReset)
}

// VerifyOTP consumes a password-reset code and unlocks the reset step
func (s *PasswordResetService) VerifyOTP(ctx context.Context, email, code string) error {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}

	if err := s.otpManager.Verify(user, code, models.OTPPurposePasswordReset); err != nil {
		return err
	}

	user.ClearOTP()
	user.PasswordResetVerified = true

	if _, err := s.users.Update(ctx, user.ID, user); err != nil {
		return err
	}

	s.logger.Info("password reset otp verified", slog.String("user_id", user.ID))
	return nil
}

// ResetPassword replaces the password after a verified OTP. The
// verification is single-use: it is consumed here along with any
// leftover OTP state, so a second reset needs a fresh code.
func (s *PasswordResetService) ResetPassword(ctx context.Context, email, newPassword, clientIP string) error {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}

	if !user.PasswordResetVerified {
		s.auditLogger.LogPasswordChange(user.ID, clientIP, false)
		return models.ErrResetNotVerified
	}

	hash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.PasswordResetVerified = false
	user.ClearOTP()

	if _, err := s.users.Update(ctx, user.ID, user); err != nil {
		return err
	}

	s.auditLogger.LogPasswordChange(user.ID, clientIP, true)
	return nil
}
