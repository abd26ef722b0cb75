package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, http.StatusBadRequest, "author_name is required")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "author_name is required", resp.Error)
}

func TestWriteValidationErrors(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteValidationErrors(rec, []string{"email is invalid", "message is required"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorsResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Len(t, resp.Errors, 2)
}

func TestWriteTooManyRequestsWithRetry(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteTooManyRequestsWithRetry(rec, "too many requests", 90*time.Second)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "90", rec.Header().Get("Retry-After"))
}

func TestWriteTooManyRequestsWithRetry_RoundsUp(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteTooManyRequestsWithRetry(rec, "too many requests", 1500*time.Millisecond)

	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
}

func TestWriteSuccessMergesExtraFields(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteSuccess(rec, http.StatusOK, map[string]any{"id": "end-1"})

	var body map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "end-1", body["id"])
}
