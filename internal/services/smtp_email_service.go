package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adityarathore/fintrack-api/internal/models"
	"gopkg.in/gomail.v2"
)

// SMTPEmailSender sends OTP emails through a plain SMTP relay (e.g. Gmail)
type SMTPEmailSender struct {
	dialer      *gomail.Dialer
	fromAddress string
	logger      *slog.Logger
}

// NewSMTPEmailSender creates a new SMTP email sender
func NewSMTPEmailSender(host string, port int, username, password, fromAddress string, logger *slog.Logger) *SMTPEmailSender {
	return &SMTPEmailSender{
		dialer:      gomail.NewDialer(host, port, username, password),
		fromAddress: fromAddress,
		logger:      logger,
	}
}

// SendOTPEmail sends the code to the user over SMTP. gomail has no
// context support; delivery is bounded by the SMTP dial timeout instead.
func (s *SMTPEmailSender) SendOTPEmail(_ context.Context, email, code string, purpose models.OTPPurpose) error {
	htmlBody, textBody := otpBodies(code, purpose)

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.fromAddress)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", otpSubject(purpose))
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(msg); err != nil {
		s.logger.Error("failed to send otp email via SMTP",
			slog.String("purpose", string(purpose)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("otp email sent", slog.String("purpose", string(purpose)))
	return nil
}
