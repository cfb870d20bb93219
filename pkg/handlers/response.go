package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse writes the JSON error shape every endpoint uses:
// {"error": <code>, "message": <text>}, where code is one of the stable
// machine-readable identifiers (invalid_request, invalid_token,
// not_approved, not_found, load_failed, internal_error). Returns any
// encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes data as a JSON response and returns any encoding
// error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}
