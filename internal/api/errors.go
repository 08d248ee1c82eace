package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"shareit/internal/database"

	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeDomainError maps a service error to an HTTP status. Access violations
// are reported as 404 so that unauthorized callers cannot probe for
// existence.
func writeDomainError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	switch {
	case errors.Is(err, database.ErrUserNotFound),
		errors.Is(err, database.ErrItemNotFound),
		errors.Is(err, database.ErrBookingNotFound),
		errors.Is(err, database.ErrRequestNotFound),
		errors.Is(err, database.ErrAccessDenied):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrItemNotAvailable),
		errors.Is(err, database.ErrOwnBooking),
		errors.Is(err, database.ErrInvalidTimeRange),
		errors.Is(err, database.ErrAlreadyDecided),
		errors.Is(err, database.ErrCommentNotAllowed):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Error().Err(err).Msg("unexpected error")
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}
