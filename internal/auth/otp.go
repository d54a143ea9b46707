package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/adityarathore/fintrack-api/internal/models"
)

// 6-digit OTP space, inclusive on both ends
const (
	otpMin = 100000
	otpMax = 999999
)

// OTPManager issues and checks one-time codes stored on the user record.
// It mutates the in-memory user only; persisting the record and applying
// the purpose-specific side effect are the caller's job.
type OTPManager struct {
	expiry time.Duration
}

// NewOTPManager creates an OTPManager with the given code lifetime
func NewOTPManager(expiry time.Duration) *OTPManager {
	return &OTPManager{expiry: expiry}
}

// GenerateOTP returns a uniformly random 6-digit code from a
// cryptographically strong source.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

// Issue generates a fresh code and stores it on the user, overwriting any
// outstanding code regardless of its purpose. Returns the plain code for
// delivery.
func (m *OTPManager) Issue(user *models.User, purpose models.OTPPurpose) (string, error) {
	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}

	now := time.Now()
	user.SetOTP(code, purpose, now, now.Add(m.expiry))

	return code, nil
}

// Verify checks a submitted code against the user's outstanding OTP.
// A code issued for a different purpose is treated the same as no code at
// all, so the two flows cannot consume each other's OTPs. Failed attempts
// leave the OTP fields untouched; on success the caller clears them.
func (m *OTPManager) Verify(user *models.User, submitted string, purpose models.OTPPurpose) error {
	if !user.HasOTP() {
		return models.ErrOTPNotFound
	}
	if user.OTPPurpose == nil || *user.OTPPurpose != purpose {
		return models.ErrOTPNotFound
	}
	if time.Now().After(*user.OTPExpiresAt) {
		return models.ErrOTPExpired
	}
	// Compare as trimmed strings; clients may submit the code as a number
	if strings.TrimSpace(submitted) != *user.OTPCode {
		return models.ErrOTPMismatch
	}
	return nil
}
