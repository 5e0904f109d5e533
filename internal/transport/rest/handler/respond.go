package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mohammadf16/numberhunt/internal/game"
	"github.com/mohammadf16/numberhunt/internal/service"
)

// errorEnvelope is the uniform error body of every failed request.
type errorEnvelope struct {
	Error  string              `json:"error"`
	Code   string              `json:"code,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Error: message})
}

func writeFieldErrors(w http.ResponseWriter, message string, fields map[string][]string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorEnvelope{Error: message, Errors: fields})
}

// writeEngineError maps the engine error taxonomy onto HTTP statuses:
// validation 422, conflict 409, authorization 403, not-found 404,
// capacity 409, transient 500.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch game.KindOf(err) {
	case game.KindValidation:
		status = http.StatusUnprocessableEntity
	case game.KindConflict, game.KindCapacity:
		status = http.StatusConflict
	case game.KindAuthorization:
		status = http.StatusForbidden
	case game.KindNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorEnvelope{Error: err.Error(), Code: game.CodeOf(err)})
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
