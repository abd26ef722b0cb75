package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mhersel/vitae/internal/auth"
	"github.com/mhersel/vitae/internal/models"
)

func newTestEndorsementHandler(service EndorsementServiceInterface, authorizer AccessAuthorizer, limiter RateLimiter) *EndorsementHandler {
	return NewEndorsementHandler(service, authorizer, limiter, auth.CookieConfig{}, nil, slog.Default())
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}

func withSession(r *http.Request, payload *auth.SessionPayload) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), auth.SessionContextKey, payload))
}

func TestEndorsementHandler_Submit_Success(t *testing.T) {
	service := &MockEndorsementService{
		SubmitFunc: func(ctx context.Context, e *models.Endorsement) (*models.Endorsement, error) {
			e.ID = testEndorsementID
			e.Status = models.StatusPending
			return e, nil
		},
	}

	h := newTestEndorsementHandler(service, &MockAccessAuthorizer{}, &MockRateLimiter{})

	r := httptest.NewRequest(http.MethodPost, "/endorsements",
		jsonBody(`{"author_name":"Dana","author_role":"CTO","company":"Acme","message":"Great colleague.","email":"dana@example.com"}`))
	rec := httptest.NewRecorder()

	h.Submit(rec, r)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.Endorsement
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, testEndorsementID, created.ID)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.NotContains(t, rec.Body.String(), "dana@example.com", "the email must never be serialized")
}

func TestEndorsementHandler_Submit_MissingFields(t *testing.T) {
	h := newTestEndorsementHandler(&MockEndorsementService{}, &MockAccessAuthorizer{}, &MockRateLimiter{})

	r := httptest.NewRequest(http.MethodPost, "/endorsements", jsonBody(`{"author_name":"Dana"}`))
	rec := httptest.NewRecorder()

	h.Submit(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool     `json:"success"`
		Errors  []string `json:"errors"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Errors)
}

func TestEndorsementHandler_Submit_RateLimited(t *testing.T) {
	limiter := &MockRateLimiter{
		AllowFunc: func(identifier string, window time.Duration, maxRequests int) (bool, time.Duration) {
			return false, 30 * time.Minute
		},
	}

	h := newTestEndorsementHandler(&MockEndorsementService{}, &MockAccessAuthorizer{}, limiter)

	r := httptest.NewRequest(http.MethodPost, "/endorsements",
		jsonBody(`{"author_name":"Dana","message":"Great colleague."}`))
	rec := httptest.NewRecorder()

	h.Submit(rec, r)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestEndorsementHandler_ListApproved(t *testing.T) {
	service := &MockEndorsementService{
		ListApprovedFunc: func(ctx context.Context) ([]*models.Endorsement, error) {
			return []*models.Endorsement{
				{ID: testEndorsementID, AuthorName: "Dana", Status: models.StatusApproved, Email: "dana@example.com"},
			}, nil
		},
	}

	h := newTestEndorsementHandler(service, &MockAccessAuthorizer{}, &MockRateLimiter{})

	r := httptest.NewRequest(http.MethodGet, "/endorsements", nil)
	rec := httptest.NewRecorder()

	h.ListApproved(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "dana@example.com")
}

func TestEndorsementHandler_Update_Success(t *testing.T) {
	authorizer := &MockAccessAuthorizer{
		AuthorizeFunc: func(ctx context.Context, session *auth.SessionPayload, endorsementID string) (*models.Endorsement, error) {
			return &models.Endorsement{ID: endorsementID, Email: session.Email}, nil
		},
	}

	service := &MockEndorsementService{
		UpdateFunc: func(ctx context.Context, id string, update *models.EndorsementUpdate) (*models.Endorsement, error) {
			return &models.Endorsement{ID: id, Message: update.Message, Status: models.StatusPending}, nil
		},
	}

	h := newTestEndorsementHandler(service, authorizer, &MockRateLimiter{})

	r := newRequestWithID(http.MethodPatch, "/endorsements/"+testEndorsementID,
		`{"author_name":"Dana","message":"Edited message."}`, testEndorsementID)
	r = withSession(r, &auth.SessionPayload{EndorsementID: testEndorsementID, Email: "dana@example.com"})
	rec := httptest.NewRecorder()

	h.Update(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)

	var updated models.Endorsement
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusPending, updated.Status, "an edit must send the endorsement back to moderation")
}

func TestEndorsementHandler_Update_StaleSessionClearsCookie(t *testing.T) {
	authorizer := &MockAccessAuthorizer{
		AuthorizeFunc: func(ctx context.Context, session *auth.SessionPayload, endorsementID string) (*models.Endorsement, error) {
			return nil, models.ErrSessionStale
		},
	}

	h := newTestEndorsementHandler(&MockEndorsementService{}, authorizer, &MockRateLimiter{})

	r := newRequestWithID(http.MethodPatch, "/endorsements/"+testEndorsementID,
		`{"author_name":"Dana","message":"Edited message."}`, testEndorsementID)
	r = withSession(r, &auth.SessionPayload{EndorsementID: testEndorsementID, Email: "old@example.com"})
	rec := httptest.NewRecorder()

	h.Update(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookies := rec.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, auth.ManageSessionCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestEndorsementHandler_Update_SessionForDifferentEndorsement(t *testing.T) {
	authorizer := &MockAccessAuthorizer{
		AuthorizeFunc: func(ctx context.Context, session *auth.SessionPayload, endorsementID string) (*models.Endorsement, error) {
			return nil, models.ErrSessionInvalid
		},
	}

	h := newTestEndorsementHandler(&MockEndorsementService{}, authorizer, &MockRateLimiter{})

	r := newRequestWithID(http.MethodPatch, "/endorsements/"+testEndorsementID,
		`{"author_name":"Dana","message":"Edited message."}`, testEndorsementID)
	r = withSession(r, &auth.SessionPayload{EndorsementID: "other", Email: "dana@example.com"})
	rec := httptest.NewRecorder()

	h.Update(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEndorsementHandler_Delete_Success(t *testing.T) {
	authorizer := &MockAccessAuthorizer{
		AuthorizeFunc: func(ctx context.Context, session *auth.SessionPayload, endorsementID string) (*models.Endorsement, error) {
			return &models.Endorsement{ID: endorsementID}, nil
		},
	}

	deleted := false
	service := &MockEndorsementService{
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}

	h := newTestEndorsementHandler(service, authorizer, &MockRateLimiter{})

	r := newRequestWithID(http.MethodDelete, "/endorsements/"+testEndorsementID, "", testEndorsementID)
	r = withSession(r, &auth.SessionPayload{EndorsementID: testEndorsementID, Email: "dana@example.com"})
	rec := httptest.NewRecorder()

	h.Delete(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, deleted)

	cookies := rec.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge, "a successful delete must clear the session cookie")
}
