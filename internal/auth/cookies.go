package auth

import (
	"net/http"
)

// ManageSessionCookieName is the cookie carrying the manage-session token
const ManageSessionCookieName = "endorsement_session"

// CookieConfig holds cookie configuration settings
type CookieConfig struct {
	Secure bool // HTTPS only; enabled in production
}

// SetManageSessionCookie stores the manage-session token in an httpOnly
// cookie scoped to the whole site path.
func SetManageSessionCookie(w http.ResponseWriter, token string, maxAge int, config CookieConfig) {
	cookie := &http.Cookie{
		Name:     ManageSessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true, // Prevents JavaScript access (XSS protection)
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}

// ClearManageSessionCookie expires the manage-session cookie so clients stop
// retrying with a dead token.
func ClearManageSessionCookie(w http.ResponseWriter, config CookieConfig) {
	cookie := &http.Cookie{
		Name:     ManageSessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}

// GetManageSessionCookie retrieves the manage-session token from the request
func GetManageSessionCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(ManageSessionCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
