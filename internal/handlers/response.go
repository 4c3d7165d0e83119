package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"rental-booking/internal/middleware"
	"rental-booking/internal/models"
	"rental-booking/internal/services"

	"github.com/rs/zerolog"
)

var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{services.ErrValidation, http.StatusBadRequest, "validation_error"},
	{services.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{services.ErrForbidden, http.StatusForbidden, "forbidden"},
	{services.ErrNotFound, http.StatusNotFound, "not_found"},
	{services.ErrConflict, http.StatusConflict, "conflict"},
}

// respondWithServiceError maps the service error taxonomy onto HTTP.
// Anything unrecognised is a 500 with a generic message.
func respondWithServiceError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			respondWithError(w, m.status, m.code, detail(err, m.err))
			return
		}
	}
	logger.Error().Err(err).Msg("Request failed")
	respondWithError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}

func detail(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return false
	}
	return true
}

func actorFrom(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
	}
	return actor, ok
}
