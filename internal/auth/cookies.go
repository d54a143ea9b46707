package auth

import (
	"net/http"
	"time"
)

// Cookie names match what the web client expects
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieConfig holds cookie configuration settings
type CookieConfig struct {
	Domain   string // Empty string = current host only
	Secure   bool   // HTTPS only
	SameSite string // "strict", "lax", or "none"
}

// SetAccessTokenCookie sets an access token in an httpOnly cookie
func SetAccessTokenCookie(w http.ResponseWriter, accessToken string, maxAge int, config CookieConfig) {
	setTokenCookie(w, AccessTokenCookie, accessToken, maxAge, config)
}

// SetRefreshTokenCookie sets a refresh token in an httpOnly cookie
func SetRefreshTokenCookie(w http.ResponseWriter, refreshToken string, maxAge int, config CookieConfig) {
	setTokenCookie(w, RefreshTokenCookie, refreshToken, maxAge, config)
}

func setTokenCookie(w http.ResponseWriter, name, value string, maxAge int, config CookieConfig) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   config.Domain,
		Expires:  time.Now().Add(time.Duration(maxAge) * time.Second),
		MaxAge:   maxAge,
		HttpOnly: true, // prevents JavaScript access
		Secure:   config.Secure,
		SameSite: parseSameSite(config.SameSite),
	}
	http.SetCookie(w, cookie)
}

// ClearSessionCookies clears both token cookies
func ClearSessionCookies(w http.ResponseWriter, config CookieConfig) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		cookie := &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   config.Domain,
			MaxAge:   -1, // Negative MaxAge deletes the cookie
			HttpOnly: true,
			Secure:   config.Secure,
			SameSite: parseSameSite(config.SameSite),
		}
		http.SetCookie(w, cookie)
	}
}

// GetAccessTokenCookie retrieves the access token from cookies
func GetAccessTokenCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// GetRefreshTokenCookie retrieves the refresh token from cookies
func GetRefreshTokenCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// parseSameSite converts string to http.SameSite constant
func parseSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
