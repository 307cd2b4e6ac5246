package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSON writes data to the HTTP response as a JSON document.
//
// Values of type json.RawMessage or []byte are written verbatim, without
// validation, which lets test providers emit deliberately malformed bodies.
// Everything else is serialized with encoding/json.
//
// It sets the "Content-Type" header to "application/json" and writes
// the provided HTTP status code before sending the response body.
// If marshaling fails, it responds with 500 Internal Server Error
// and returns a wrapped error.
//
// Example usage:
//
//	WriteJSON(w, map[string]any{"changes": false}, http.StatusOK)
//	WriteJSON(w, json.RawMessage(`{"error": "rate_limited"}`), http.StatusTooManyRequests)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	var payload []byte
	switch v := data.(type) {
	case json.RawMessage:
		payload = v
	case []byte:
		payload = v
	default:
		encoded, err := json.Marshal(data)
		if err != nil {
			http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
			return 0, fmt.Errorf("error writing data to JSON: %w", err)
		}
		payload = encoded
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(payload)
}
