package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// respondJSON writes v as a JSON response body
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// respondError writes a JSON error body with a caller-facing detail message.
// The internal error, if any, only goes to the log.
func respondError(w http.ResponseWriter, status int, detail string, err error) {
	if err != nil {
		log.Printf("%s: %v", detail, err)
	}
	respondJSON(w, status, map[string]string{"detail": detail})
}
