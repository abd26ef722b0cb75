package http

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes an arbitrary payload as JSON with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// Log encoding errors but don't expose them to client
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteSuccess writes a {"success": true} envelope, merging in extra fields
func WriteSuccess(w http.ResponseWriter, statusCode int, extra map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	WriteJSON(w, statusCode, body)
}
