package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Account state errors
	ErrEmailNotVerified = errors.New("email address not verified")
	ErrAlreadyVerified  = errors.New("email address already verified")

	// OTP errors
	ErrOTPNotFound = errors.New("no outstanding otp")
	ErrOTPExpired  = errors.New("otp expired")
	ErrOTPMismatch = errors.New("otp mismatch")

	// Password reset errors
	ErrResetNotVerified = errors.New("otp verification required before resetting password")
)
