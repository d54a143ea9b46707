package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adityarathore/fintrack-api/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// EmailSender delivers OTP codes. The auth flows treat delivery as an
// opaque notification sink; failures propagate back to the caller.
type EmailSender interface {
	SendOTPEmail(ctx context.Context, email, code string, purpose models.OTPPurpose) error
}

// otpSubject returns the email subject for an OTP purpose
func otpSubject(purpose models.OTPPurpose) string {
	if purpose == models.OTPPurposePasswordReset {
		return "Your Password Reset OTP"
	}
	return "Verify your email"
}

// otpBodies returns the HTML and plain-text bodies for an OTP email
func otpBodies(code string, purpose models.OTPPurpose) (html, text string) {
	action := "email verification"
	if purpose == models.OTPPurposePasswordReset {
		action = "password reset"
	}

	html = fmt.Sprintf("<p>Your OTP for %s is <b>%s</b>. It is valid for 10 minutes.</p>", action, code)
	text = fmt.Sprintf("Your OTP for %s is: %s. It is valid for 10 minutes.", action, code)
	return html, text
}

// SESEmailSender sends OTP emails using AWS SES
type SESEmailSender struct {
	sesClient   *ses.Client
	fromAddress string
	logger      *slog.Logger
}

// NewSESEmailSender creates a new AWS SES email sender
func NewSESEmailSender(region, fromAddress string, logger *slog.Logger) (*SESEmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESEmailSender{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

// SendOTPEmail sends the code to the user via SES
func (s *SESEmailSender) SendOTPEmail(ctx context.Context, email, code string, purpose models.OTPPurpose) error {
	htmlBody, textBody := otpBodies(code, purpose)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(otpSubject(purpose)),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send otp email via SES",
			slog.String("purpose", string(purpose)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("otp email sent",
		slog.String("purpose", string(purpose)),
		slog.String("message_id", *result.MessageId))

	return nil
}
