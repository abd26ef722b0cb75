package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/mhersel/vitae/internal/models"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// AdminContextKey is the key for storing admin claims in context
	AdminContextKey contextKey = "admin"
	// SessionContextKey is the key for storing the manage-session payload in context
	SessionContextKey contextKey = "manage_session"
)

// AdminMiddleware validates admin bearer tokens and injects claims into context
func AdminMiddleware(tm *TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := tm.ValidateToken(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), AdminContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ManageSessionMiddleware verifies the manage-session cookie and injects its
// payload into context. Token validity is only the local precondition: the
// mutation path still re-checks the payload against the live endorsement.
// Invalid or absent sessions get a distinct "must verify" error and the
// cookie is cleared so clients do not retry with a dead token.
func ManageSessionMiddleware(codec *SessionCodec, cookies CookieConfig, onReject func(w http.ResponseWriter)) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := GetManageSessionCookie(r)
			if err != nil || token == "" {
				onReject(w)
				return
			}

			payload := codec.Verify(token)
			if payload == nil {
				ClearManageSessionCookie(w, cookies)
				onReject(w)
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdminFromContext extracts admin claims from request context
func GetAdminFromContext(r *http.Request) *models.TokenClaims {
	claims, ok := r.Context().Value(AdminContextKey).(*models.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// GetSessionFromContext extracts the manage-session payload from request context
func GetSessionFromContext(r *http.Request) *SessionPayload {
	payload, ok := r.Context().Value(SessionContextKey).(*SessionPayload)
	if !ok {
		return nil
	}
	return payload
}
