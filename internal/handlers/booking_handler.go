package handlers

import (
	"context"
	"net/http"

	"rental-booking/internal/models"
	"rental-booking/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type BookingHandler struct {
	bookingService *services.BookingService
	logger         zerolog.Logger
}

func NewBookingHandler(bookingService *services.BookingService, logger zerolog.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	bookings, err := h.bookingService.List(r.Context(), actor, r.URL.Query().Get("status"))
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"bookings": bookings})
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req models.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.bookingService.Create(r.Context(), actor, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{"booking": booking})
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	booking, err := h.bookingService.Get(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"booking": booking})
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req models.UpdateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.bookingService.Update(r.Context(), actor, mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"booking": booking})
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	booking, err := h.bookingService.Delete(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Booking deleted",
		"booking": booking,
	})
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookingService.Confirm)
}

func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookingService.Reject)
}

func (h *BookingHandler) transition(w http.ResponseWriter, r *http.Request, apply func(context.Context, models.Actor, string) (*models.Booking, error)) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	booking, err := apply(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"booking": booking})
}
