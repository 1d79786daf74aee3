package mw

import (
	"encoding/json"
	"net/http"
)

// writeError mirrors the handlers' JSON error body so rejected requests look
// the same as failed ones.
func writeError(w http.ResponseWriter, status int, code string, retryable bool) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Error     string `json:"error"`
		Retryable bool   `json:"retryable"`
	}{code, retryable})
}
