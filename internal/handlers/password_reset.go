package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adityarathore/fintrack-api/internal/models"
	pkghttp "github.com/adityarathore/fintrack-api/pkg/http"
)

// PasswordResetServiceInterface defines the interface for the
// forgot-password flow
type PasswordResetServiceInterface interface {
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, newPassword, clientIP string) error
}

// PasswordResetHandler handles the forgot-password endpoints
type PasswordResetHandler struct {
	service  PasswordResetServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewPasswordResetHandler creates a new PasswordResetHandler
func NewPasswordResetHandler(service PasswordResetServiceInterface, ipConfig *pkghttp.IPConfig) *PasswordResetHandler {
	return &PasswordResetHandler{
		service:  service,
		ipConfig: ipConfig,
	}
}

// ForgotPasswordRequest represents the request body for requesting a reset code
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyResetOTPRequest represents the request body for verifying a reset code
type VerifyResetOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ResetPasswordRequest represents the request body for setting a new password
type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// RequestOTP emails a password-reset code to the account
func (h *PasswordResetHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.RequestOTP(r.Context(), req.Email); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "OTP sent to your email"})
}

// VerifyOTP checks the reset code and unlocks the reset step
func (h *PasswordResetHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyResetOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		case errors.Is(err, models.ErrOTPNotFound):
			pkghttp.WriteBadRequest(w, "OTP not found. Please request a new one")
		case errors.Is(err, models.ErrOTPExpired):
			pkghttp.WriteBadRequest(w, "OTP expired. Please request a new one")
		case errors.Is(err, models.ErrOTPMismatch):
			pkghttp.WriteBadRequest(w, "Invalid OTP")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "OTP verified successfully"})
}

// ResetPassword sets a new password after a verified reset code.
// Without a prior successful verification the request is forbidden.
func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	clientIP := pkghttp.ExtractClientIP(r, h.ipConfig)

	if err := h.service.ResetPassword(r.Context(), req.Email, req.NewPassword, clientIP); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		case errors.Is(err, models.ErrResetNotVerified):
			pkghttp.WriteForbidden(w, "OTP verification required before resetting password")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Password reset successfully"})
}
