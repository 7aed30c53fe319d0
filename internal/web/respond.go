package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/tablebook/internal/availability"
	"github.com/example/tablebook/internal/bookings"
	"github.com/example/tablebook/internal/db"
)

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: responseError{Code: code, Message: message}})
}

// mapError translates domain errors into HTTP statuses.
func mapError(err error) (int, string, string) {
	switch {
	case db.IsNotFound(err):
		return http.StatusNotFound, "not_found", "resource not found"
	case errors.Is(err, availability.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_request", err.Error()
	case errors.Is(err, bookings.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition", err.Error()
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
