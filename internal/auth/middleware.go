package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/adityarathore/fintrack-api/internal/models"
	pkghttp "github.com/adityarathore/fintrack-api/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const authContextKey contextKey = "authContext"

// AuthContext carries the authenticated identity through the request
// context into downstream handlers.
type AuthContext struct {
	UserID string
}

// UserFetcher resolves token identities against the credential store
type UserFetcher interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// SessionMiddleware validates the token cookies on each request and
// attaches the authenticated identity to the context.
//
// Per-request state machine:
//  1. neither cookie present: 401
//  2. valid access token: proceed
//  3. access token invalid for a reason other than expiry: clear cookies, 401
//  4. access token expired or absent, refresh token valid: rotate both
//     tokens, set new cookies, proceed
//  5. refresh token invalid or expired: clear cookies, 401
//  6. identity no longer in the credential store: clear cookies, 404
//
// Rotation is not serialized across concurrent requests carrying the same
// refresh token; each rotation mints an independently valid pair.
func SessionMiddleware(tm *TokenManager, users UserFetcher, cookies CookieConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessToken, _ := GetAccessTokenCookie(r)
			refreshToken, _ := GetRefreshTokenCookie(r)

			if accessToken == "" && refreshToken == "" {
				pkghttp.WriteUnauthorized(w, "Unauthorized: no token provided")
				return
			}

			if accessToken != "" {
				claims, err := tm.ValidateToken(accessToken)
				switch {
				case err == nil && claims.Type == TokenTypeAccess:
					resolveAndServe(w, r, next, users, cookies, claims.UserID)
					return
				case err == nil:
					// A refresh token presented in the access slot
					ClearSessionCookies(w, cookies)
					pkghttp.WriteUnauthorized(w, "Unauthorized: invalid token")
					return
				case !IsExpired(err):
					// Bad signature or malformed payload
					ClearSessionCookies(w, cookies)
					pkghttp.WriteUnauthorized(w, "Unauthorized: invalid token")
					return
				}
				// Expired access token: fall through to the refresh path
			}

			if refreshToken == "" {
				ClearSessionCookies(w, cookies)
				pkghttp.WriteUnauthorized(w, "Session expired. Please log in again")
				return
			}

			claims, err := tm.ValidateToken(refreshToken)
			if err != nil || claims.Type != TokenTypeRefresh {
				ClearSessionCookies(w, cookies)
				pkghttp.WriteUnauthorized(w, "Session expired. Please log in again")
				return
			}

			// Rotate: mint a new pair rather than reusing the refresh token
			newAccess, err := tm.GenerateAccessToken(claims.UserID)
			if err != nil {
				pkghttp.WriteInternalError(w, "Internal server error")
				return
			}
			newRefresh, err := tm.GenerateRefreshToken(claims.UserID)
			if err != nil {
				pkghttp.WriteInternalError(w, "Internal server error")
				return
			}

			SetAccessTokenCookie(w, newAccess, int(tm.AccessTokenExpiry().Seconds()), cookies)
			SetRefreshTokenCookie(w, newRefresh, int(tm.RefreshTokenExpiry().Seconds()), cookies)

			resolveAndServe(w, r, next, users, cookies, claims.UserID)
		})
	}
}

// resolveAndServe confirms the identity still exists in the credential
// store, then threads it to the next handler. Tokens for deleted accounts
// are rejected with 404.
func resolveAndServe(w http.ResponseWriter, r *http.Request, next http.Handler, users UserFetcher, cookies CookieConfig, userID string) {
	if _, err := users.GetByID(r.Context(), userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			ClearSessionCookies(w, cookies)
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	ctx := WithAuthContext(r.Context(), AuthContext{UserID: userID})
	next.ServeHTTP(w, r.WithContext(ctx))
}

// WithAuthContext returns a context carrying the authenticated identity
func WithAuthContext(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}

// GetAuthContext extracts the authenticated identity from a context
func GetAuthContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(authContextKey).(AuthContext)
	return ac, ok
}
