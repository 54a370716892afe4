package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mehrbank/ledger-backend/internal/domain"
)

// envelope is the uniform JSON shape of every response
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// respondServiceError maps a use-case error onto an HTTP status
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrClientNotFound), errors.Is(err, domain.ErrTrackingNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case domain.IsValidationError(err), errors.Is(err, domain.ErrAmountBelowMinimum):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
