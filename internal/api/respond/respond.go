// Package respond writes the {message, data} envelope shared by every REST
// endpoint.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/userhub-be/internal/common"
	"github.com/rs/zerolog/log"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// JSON writes a success response using the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Message: message, Data: data})
}

// Error writes an error response with a nil data field.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Message: message})
}

// Err maps an error kind to its HTTP status. Errors without a kind are logged
// and reported as 500 without leaking their text.
func Err(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Unhandled error")
		Error(w, status, "Internal server error")
		return
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	Error(w, status, common.Message(err, http.StatusText(status)))
}

// StatusFor returns the HTTP status that corresponds to err's kind.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
