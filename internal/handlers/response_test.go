package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"rental-booking/internal/services"

	"github.com/rs/zerolog"
)

func TestRespondWithServiceError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{fmt.Errorf("%w: startDate must be before endDate", services.ErrValidation), http.StatusBadRequest, "validation_error", "StartDate must be before endDate"},
		{fmt.Errorf("%w: invalid token", services.ErrUnauthorized), http.StatusUnauthorized, "unauthorized", "Invalid token"},
		{fmt.Errorf("%w: insufficient permissions", services.ErrForbidden), http.StatusForbidden, "forbidden", "Insufficient permissions"},
		{fmt.Errorf("%w: booking not found", services.ErrNotFound), http.StatusNotFound, "not_found", "Booking not found"},
		{fmt.Errorf("%w: property is not available during the requested duration", services.ErrConflict), http.StatusConflict, "conflict", "Property is not available during the requested duration"},
		{services.ErrConflict, http.StatusConflict, "conflict", "conflict"},
		{fmt.Errorf("%w: database error", services.ErrInternal), http.StatusInternalServerError, "internal_error", "Internal server error"},
		{errors.New("driver: bad connection"), http.StatusInternalServerError, "internal_error", "Internal server error"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		respondWithServiceError(rec, zerolog.Nop(), tt.err)

		if rec.Code != tt.status {
			t.Errorf("%v: status %d, want %d", tt.err, rec.Code, tt.status)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%v: decode: %v", tt.err, err)
		}
		if body["error"] != tt.code || body["message"] != tt.message {
			t.Errorf("%v: body %v, want %s/%q", tt.err, body, tt.code, tt.message)
		}
	}
}
