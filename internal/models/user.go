package models

import (
	"time"
)

// OTPPurpose tags an outstanding OTP with the flow that issued it.
// A code issued for one purpose can never be consumed by the other flow.
type OTPPurpose string

const (
	OTPPurposeSignupVerify  OTPPurpose = "signup_verify"
	OTPPurposePasswordReset OTPPurpose = "password_reset"
)

type User struct {
	ID              string
	FullName        string
	Email           string
	PasswordHash    string
	EmailVerified   bool
	ProfileImageURL *string

	// Single OTP slot shared by the signup-verify and password-reset flows.
	// Only one code can be outstanding at a time; issuing a new one
	// overwrites the old, whatever its purpose.
	OTPCode      *string
	OTPPurpose   *OTPPurpose
	OTPCreatedAt *time.Time
	OTPExpiresAt *time.Time

	// Set true only by a successful password-reset OTP verification,
	// consumed (reset to false) by a successful password reset.
	PasswordResetVerified bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasOTP reports whether an OTP is currently stored for the user.
// Expired codes still count as stored until replaced or cleared.
func (u *User) HasOTP() bool {
	return u.OTPCode != nil && u.OTPExpiresAt != nil
}

// SetOTP stores a freshly issued code, overwriting any outstanding one.
func (u *User) SetOTP(code string, purpose OTPPurpose, issuedAt, expiresAt time.Time) {
	u.OTPCode = &code
	u.OTPPurpose = &purpose
	u.OTPCreatedAt = &issuedAt
	u.OTPExpiresAt = &expiresAt
}

// ClearOTP wipes the OTP slot after a code is consumed or invalidated.
func (u *User) ClearOTP() {
	u.OTPCode = nil
	u.OTPPurpose = nil
	u.OTPCreatedAt = nil
	u.OTPExpiresAt = nil
}
