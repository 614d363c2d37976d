package handler

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the body of every non-2xx reply. Code is a stable,
// machine-readable discriminator; Message never leaks backend internals.
type errorResponse struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, code, message string) {
	respondWithJSON(w, status, errorResponse{Code: code, Message: message})
}
