package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adityarathore/fintrack-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserFetcher struct {
	GetByIDFunc func(ctx context.Context, id string) (*models.User, error)
}

func (s *stubUserFetcher) GetByID(ctx context.Context, id string) (*models.User, error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, id)
	}
	return &models.User{ID: id, EmailVerified: true}, nil
}

func sessionTestSetup(t *testing.T, accessExpiry time.Duration) (*TokenManager, *stubUserFetcher, CookieConfig) {
	t.Helper()
	tm := NewTokenManager(testSecret, accessExpiry, 7*24*time.Hour)
	return tm, &stubUserFetcher{}, CookieConfig{SameSite: "strict"}
}

// okHandler records the identity it was invoked with
func okHandler(got *AuthContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ac, ok := GetAuthContext(r.Context()); ok {
			*got = ac
		}
		w.WriteHeader(http.StatusOK)
	})
}

func addCookie(r *http.Request, name, value string) {
	r.AddCookie(&http.Cookie{Name: name, Value: value})
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessionMiddleware_NoCookies(t *testing.T) {
	tm, users, cookies := sessionTestSetup(t, 15*time.Minute)

	var got AuthContext
	handler := SessionMiddleware(tm, users, cookies)(okHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, got.UserID)
}

func TestSessionMiddleware_ValidAccessToken(t *testing.T) {
	tm, users, cookies := sessionTestSetup(t, 15*time.Minute)

	access, err := tm.GenerateAccessToken("user123")
	require.NoError(t, err)

	var got AuthContext
	handler := SessionMiddleware(tm, users, cookies)(okHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	addCookie(req, AccessTokenCookie, access)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user123", got.UserID)

	// A valid access token must not trigger rotation
	assert.Nil(t, cookieByName(rec, AccessTokenCookie))
	assert.Nil(t, cookieByName(rec, RefreshTokenCookie))
}

func TestSessionMiddleware_TamperedAccessToken(t *testing.T) {
	tm, users, cookies := sessionTestSetup(t, 15*time.Minute)

	access, err := tm.GenerateAccessToken("user123")
	require.NoError(t, err)

	var got AuthContext
	handler := SessionMiddleware(tm, users, cookies)(okHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	addCookie(req, AccessTokenCookie, access+"tampered")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, got.UserID)

	// Cookies are cleared so the client stops retrying with bad state
	cleared := cookieByName(rec, AccessTokenCookie)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestSessionMiddleware_RefreshTokenInAccessSlot(t *testing.T) {
	tm, users, cookies := sessionTestSetup(t, 15*time.Minute)

	refresh, err := tm.GenerateRefreshToken("user123")
	require.NoError(t, err)

	var got AuthContext
	handler := SessionMiddleware(tm, users, cookies)(okHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	addCookie(req, AccessTokenCookie, refresh)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, got.UserID)
}

func TestSessionMiddleware_ExpiredAccessValidRefresh_Rotates(t *testing.T) {
	tm, users, cookies := sessionTestSetup(t, -1*time.Minute)

	expiredAccess, err := tm.GenerateAccessToken("user123")
	require.NoError(t, err)
	refresh, err := tm.GenerateRefreshToken("user123")
	require.NoError(t, err)

	var got AuthContext
	handler := SessionMiddleware(tm, users, cookies)(okHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	addCookie(req, AccessTokenCookie, expiredAccess)
	addCookie(req, RefreshTokenCookie, refresh)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user123", got.UserID)

	// Both cookies are replaced with a freshly minted pair
	newAccess := cookieByName(rec, AccessTokenCookie)
	newRefresh := cookieByName(rec, RefreshTokenCookie)
	require.NotNil(t, newAccess)
	require.NotNil(t, newRefresh)
	assert.NotEqual(t, expiredAccess, newAccess.Value)
	assert.NotEqual(t, refresh, newRefresh.Value)

	// The rotated refresh token carries the same identity
	claims, err := tm.ValidateToken(newRefresh.Value)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.Type)
	assert.Equal(t, "user123", claims.UserID)
}

func TestSessionMiddleware_OnlyRefreshCookie_Rotates(t *testing.T) {
	tm, users, cookies := sessionTestSetup(t, 15*time.Minute)

	refresh, err := tm.GenerateRefreshToken("user123")
	require.NoError(t, err)

	var got AuthContext
	handler := SessionMiddleware(tm, users, cookies)(okHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	addCookie(req, RefreshTokenCookie, refresh)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user123", got.UserID)
	assert.NotNil(t, cookieByName(rec, AccessTokenCookie))
}

func TestSessionMiddleware_ExpiredAccessNoRefresh(t *testing.T) {
	tm, users, cookies := sessionTestSetup(t, -1*time.Minute)

	expiredAccess, err := tm.GenerateAccessToken("user123")
	require.NoError(t, err)

	var got AuthContext
	handler := SessionMiddleware(tm, users, cookies)(okHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	addCookie(req, AccessTokenCookie, expiredAccess)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, got.UserID)
}

func TestSessionMiddleware_ExpiredRefreshToken(t *testing.T) {
	expiredTM := NewTokenManager(testSecret, -1*time.Minute, -1*time.Minute)
	tm, users, cookies := sessionTestSetup(t, -1*time.Minute)

	expiredRefresh, err := expiredTM.GenerateRefreshToken("user123")
	require.NoError(t, err)

	var got AuthContext
	handler := SessionMiddleware(tm, users, cookies)(okHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	addCookie(req, RefreshTokenCookie, expiredRefresh)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, got.UserID)
}

func TestSessionMiddleware_AccessTokenInRefreshSlot(t *testing.T) {
	tm, users, cookies := sessionTestSetup(t, 15*time.Minute)

	access, err := tm.GenerateAccessToken("user123")
	require.NoError(t, err)

	var got AuthContext
	handler := SessionMiddleware(tm, users, cookies)(okHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	addCookie(req, RefreshTokenCookie, access)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, got.UserID)
}

func TestSessionMiddleware_DeletedUser(t *testing.T) {
	tm, _, cookies := sessionTestSetup(t, 15*time.Minute)
	users := &stubUserFetcher{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}

	access, err := tm.GenerateAccessToken("user123")
	require.NoError(t, err)

	var got AuthContext
	handler := SessionMiddleware(tm, users, cookies)(okHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	addCookie(req, AccessTokenCookie, access)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Valid token for a deleted account: cleared cookies and 404
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, got.UserID)

	cleared := cookieByName(rec, AccessTokenCookie)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}
