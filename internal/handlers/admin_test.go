package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mhersel/vitae/internal/models"
)

func TestAdminHandler_Login_Success(t *testing.T) {
	service := &MockAdminService{
		LoginFunc: func(ctx context.Context, email, password, totpCode string) (string, error) {
			return "admin-token", nil
		},
	}

	h := NewAdminHandler(service, &MockAdminEndorsementService{}, slog.Default())

	r := httptest.NewRequest(http.MethodPost, "/admin/login",
		jsonBody(`{"email":"owner@example.com","password":"correct horse","totp_code":"123456"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "admin-token", body["token"])
}

func TestAdminHandler_Login_BadCredentials(t *testing.T) {
	h := NewAdminHandler(&MockAdminService{}, &MockAdminEndorsementService{}, slog.Default())

	r := httptest.NewRequest(http.MethodPost, "/admin/login",
		jsonBody(`{"email":"owner@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminHandler_ListEndorsements_DefaultsToPending(t *testing.T) {
	var gotStatus string
	service := &MockAdminEndorsementService{
		ListByStatusFunc: func(ctx context.Context, status string) ([]*models.Endorsement, error) {
			gotStatus = status
			return []*models.Endorsement{}, nil
		},
	}

	h := NewAdminHandler(&MockAdminService{}, service, slog.Default())

	r := httptest.NewRequest(http.MethodGet, "/admin/endorsements", nil)
	rec := httptest.NewRecorder()

	h.ListEndorsements(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusPending, gotStatus)
}

func TestAdminHandler_ListEndorsements_InvalidStatus(t *testing.T) {
	h := NewAdminHandler(&MockAdminService{}, &MockAdminEndorsementService{}, slog.Default())

	r := httptest.NewRequest(http.MethodGet, "/admin/endorsements?status=published", nil)
	rec := httptest.NewRecorder()

	h.ListEndorsements(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminHandler_SetStatus_Approve(t *testing.T) {
	var gotID, gotStatus string
	service := &MockAdminEndorsementService{
		SetStatusFunc: func(ctx context.Context, id, status string) error {
			gotID = id
			gotStatus = status
			return nil
		},
	}

	h := NewAdminHandler(&MockAdminService{}, service, slog.Default())

	r := newRequestWithID(http.MethodPatch, "/admin/endorsements/"+testEndorsementID+"/status",
		`{"status":"approved"}`, testEndorsementID)
	rec := httptest.NewRecorder()

	h.SetStatus(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testEndorsementID, gotID)
	assert.Equal(t, models.StatusApproved, gotStatus)
}

func TestAdminHandler_SetStatus_RejectsInvalidStatus(t *testing.T) {
	h := NewAdminHandler(&MockAdminService{}, &MockAdminEndorsementService{}, slog.Default())

	r := newRequestWithID(http.MethodPatch, "/admin/endorsements/"+testEndorsementID+"/status",
		`{"status":"pending"}`, testEndorsementID)
	rec := httptest.NewRecorder()

	h.SetStatus(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminHandler_SetStatus_NotFound(t *testing.T) {
	service := &MockAdminEndorsementService{
		SetStatusFunc: func(ctx context.Context, id, status string) error {
			return models.ErrNotFound
		},
	}

	h := NewAdminHandler(&MockAdminService{}, service, slog.Default())

	r := newRequestWithID(http.MethodPatch, "/admin/endorsements/"+testEndorsementID+"/status",
		`{"status":"rejected"}`, testEndorsementID)
	rec := httptest.NewRecorder()

	h.SetStatus(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminHandler_DeleteEndorsement_MalformedID(t *testing.T) {
	h := NewAdminHandler(&MockAdminService{}, &MockAdminEndorsementService{}, slog.Default())

	r := newRequestWithID(http.MethodDelete, "/admin/endorsements/not-a-uuid", "", "not-a-uuid")
	rec := httptest.NewRecorder()

	h.DeleteEndorsement(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
