package utils

import (
	"net/http"

	"github.com/goccy/go-json"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteRedirect tells the frontend to navigate elsewhere. Policy rejections
// on owner pages resolve this way rather than with a hard error body.
func WriteRedirect(w http.ResponseWriter, status int, location string) {
	WriteJSON(w, status, map[string]string{"redirect": location})
}
