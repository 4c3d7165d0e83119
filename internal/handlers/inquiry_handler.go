package handlers

import (
	"net/http"

	"rental-booking/internal/models"
	"rental-booking/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type InquiryHandler struct {
	inquiryService *services.InquiryService
	logger         zerolog.Logger
}

func NewInquiryHandler(inquiryService *services.InquiryService, logger zerolog.Logger) *InquiryHandler {
	return &InquiryHandler{
		inquiryService: inquiryService,
		logger:         logger,
	}
}

func (h *InquiryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req models.SubmitInquiryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	inquiry, err := h.inquiryService.Submit(r.Context(), actor, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{"inquiry": inquiry})
}

func (h *InquiryHandler) Respond(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req models.RespondInquiryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	inquiry, err := h.inquiryService.Respond(r.Context(), actor, mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"inquiry": inquiry})
}

func (h *InquiryHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	inquiries, err := h.inquiryService.ListOwn(r.Context(), actor)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"inquiries": inquiries})
}

func (h *InquiryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	inquiries, err := h.inquiryService.ListAll(r.Context(), actor)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"inquiries": inquiries})
}
