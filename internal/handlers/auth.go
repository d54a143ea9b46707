package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adityarathore/fintrack-api/internal/auth"
	"github.com/adityarathore/fintrack-api/internal/models"
	"github.com/adityarathore/fintrack-api/internal/services"
	pkghttp "github.com/adityarathore/fintrack-api/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, fullName, email, password string, profileImageURL *string, clientIP string) (*services.UserResponse, error)
	VerifyOTP(ctx context.Context, email, code string) (*services.UserResponse, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, email, password, clientIP string) (*services.LoginResult, error)
	GetUser(ctx context.Context, userID string) (*services.UserResponse, error)
}

// AuthHandler handles registration, verification, login and logout
type AuthHandler struct {
	service      AuthServiceInterface
	tokenManager *auth.TokenManager
	cookies      auth.CookieConfig
	ipConfig     *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, tm *auth.TokenManager, cookies auth.CookieConfig, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:      service,
		tokenManager: tm,
		cookies:      cookies,
		ipConfig:     ipConfig,
	}
}

// Request DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	FullName        string  `json:"fullName" validate:"required,min=1,max=100"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=8,max=72"`
	ProfileImageURL *string `json:"profileImageUrl" validate:"omitempty,url"`
}

// VerifyOTPRequest represents the request body for email verification
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ResendOTPRequest represents the request body for resending a signup code
type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// MessageResponse is a simple acknowledgement body
type MessageResponse struct {
	Message string `json:"message"`
}

// Register handles account creation and sends the verification OTP
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	clientIP := pkghttp.ExtractClientIP(r, h.ipConfig)

	user, err := h.service.Register(r.Context(), req.FullName, req.Email, req.Password, req.ProfileImageURL, clientIP)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			pkghttp.WriteBadRequest(w, "Email already exists")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, user)
}

// VerifyOTP handles email verification with the signup code
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		case errors.Is(err, models.ErrAlreadyVerified):
			pkghttp.WriteBadRequest(w, "Email already verified")
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

	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// ResendOTP issues a fresh signup verification code
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req ResendOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ResendOTP(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		case errors.Is(err, models.ErrAlreadyVerified):
			pkghttp.WriteBadRequest(w, "Email already verified")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "OTP sent successfully"})
}

// Login authenticates the user and sets the session cookies
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	clientIP := pkghttp.ExtractClientIP(r, h.ipConfig)

	result, err := h.service.Login(r.Context(), req.Email, req.Password, clientIP)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		case errors.Is(err, models.ErrEmailNotVerified):
			pkghttp.WriteUnauthorized(w, "Please verify your email first")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid credentials")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	auth.SetAccessTokenCookie(w, result.AccessToken, int(h.tokenManager.AccessTokenExpiry().Seconds()), h.cookies)
	auth.SetRefreshTokenCookie(w, result.RefreshToken, int(h.tokenManager.RefreshTokenExpiry().Seconds()), h.cookies)

	pkghttp.WriteJSON(w, http.StatusOK, result.User)
}

// Logout clears the session cookies. It is deliberately public and
// idempotent: clearing an absent session still succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookies(w, h.cookies)
	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// Me returns the profile of the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.GetAuthContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Unauthorized: no token provided")
		return
	}

	user, err := h.service.GetUser(r.Context(), ac.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}
