package http

import (
	"net/http"
	"strconv"
	"time"
)

// ErrorResponse is the single-message error envelope
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ErrorsResponse carries multiple messages, used for field validation failures
type ErrorsResponse struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

// WriteError writes a JSON error envelope with the given status code
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Success: false, Error: message})
}

// WriteValidationErrors writes all field validation messages at once
func WriteValidationErrors(w http.ResponseWriter, messages []string) {
	WriteJSON(w, http.StatusBadRequest, ErrorsResponse{Success: false, Errors: messages})
}

// Common error writers for consistency
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

func WriteTooManyRequests(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message)
}

// WriteTooManyRequestsWithRetry sets Retry-After (whole seconds, rounded up)
// before writing the 429 envelope
func WriteTooManyRequestsWithRetry(w http.ResponseWriter, message string, retryAfter time.Duration) {
	seconds := int(retryAfter.Seconds())
	if retryAfter > time.Duration(seconds)*time.Second {
		seconds++
	}
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	WriteError(w, http.StatusTooManyRequests, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
