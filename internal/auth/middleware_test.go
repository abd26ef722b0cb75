package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sessionToken(t *testing.T, codec *SessionCodec, endorsementID string) string {
	t.Helper()
	token, err := codec.Mint(SessionPayload{
		EndorsementID: endorsementID,
		Email:         "person@example.com",
		ExpiresAtMs:   time.Now().Add(30 * time.Minute).UnixMilli(),
	})
	assert.NoError(t, err)
	return token
}

func TestManageSessionMiddleware_ValidCookie(t *testing.T) {
	codec := NewSessionCodec([]byte("test-session-secret-with-length!"))

	var captured *SessionPayload
	handler := ManageSessionMiddleware(codec, CookieConfig{}, func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetSessionFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodPatch, "/endorsements/end-1", nil)
	r.AddCookie(&http.Cookie{Name: ManageSessionCookieName, Value: sessionToken(t, codec, "end-1")})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, captured)
	assert.Equal(t, "end-1", captured.EndorsementID)
}

func TestManageSessionMiddleware_MissingCookie(t *testing.T) {
	codec := NewSessionCodec([]byte("test-session-secret-with-length!"))

	handler := ManageSessionMiddleware(codec, CookieConfig{}, func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session")
	}))

	r := httptest.NewRequest(http.MethodPatch, "/endorsements/end-1", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestManageSessionMiddleware_InvalidTokenClearsCookie(t *testing.T) {
	codec := NewSessionCodec([]byte("test-session-secret-with-length!"))

	handler := ManageSessionMiddleware(codec, CookieConfig{}, func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a forged token")
	}))

	r := httptest.NewRequest(http.MethodPatch, "/endorsements/end-1", nil)
	r.AddCookie(&http.Cookie{Name: ManageSessionCookieName, Value: "forged.token"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookies := rec.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestAdminMiddleware_ValidToken(t *testing.T) {
	tm := NewTokenManager("test-admin-secret-with-length!!!", time.Hour)
	token, err := tm.GenerateAdminToken("owner@example.com")
	assert.NoError(t, err)

	handler := AdminMiddleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetAdminFromContext(r)
		assert.NotNil(t, claims)
		assert.Equal(t, "owner@example.com", claims.Email)
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/admin/endorsements", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminMiddleware_RejectsBadTokens(t *testing.T) {
	tm := NewTokenManager("test-admin-secret-with-length!!!", time.Hour)

	handler := AdminMiddleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a valid token")
	}))

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc123",
		"garbage token":  "Bearer not-a-jwt",
	}

	for name, header := range cases {
		r := httptest.NewRequest(http.MethodGet, "/admin/endorsements", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}

func TestAdminMiddleware_RejectsTokenFromOtherSecret(t *testing.T) {
	tm := NewTokenManager("test-admin-secret-with-length!!!", time.Hour)
	other := NewTokenManager("another-admin-secret-entirely!!!", time.Hour)

	token, err := other.GenerateAdminToken("owner@example.com")
	assert.NoError(t, err)

	handler := AdminMiddleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a foreign token")
	}))

	r := httptest.NewRequest(http.MethodGet, "/admin/endorsements", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
