package utils

import (
	"encoding/json"
	"net/http"
)

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Logger().Sugar().Warnf("HTTP: failed to encode response: %v", err)
	}
}

// WriteError sends {"error": msg} with the given status code.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}
