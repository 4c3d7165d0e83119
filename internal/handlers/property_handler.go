package handlers

import (
	"net/http"
	"strconv"

	"rental-booking/internal/models"
	"rental-booking/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type PropertyHandler struct {
	propertyService *services.PropertyService
	logger          zerolog.Logger
}

func NewPropertyHandler(propertyService *services.PropertyService, logger zerolog.Logger) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		logger:          logger,
	}
}

// List serves the public catalog: approved properties only.
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.PropertyFilter{
		District:     q.Get("district"),
		PropertyType: q.Get("propertyType"),
	}

	for key, dst := range map[string]**float64{"minPrice": &filter.MinPrice, "maxPrice": &filter.MaxPrice} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "validation_error", key+" must be a number")
			return
		}
		*dst = &v
	}

	properties, err := h.propertyService.ListApproved(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, properties)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	property, err := h.propertyService.GetApproved(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, property)
}

func (h *PropertyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var in models.PropertyInput
	if !decodeJSON(w, r, &in) {
		return
	}

	property, err := h.propertyService.Submit(r.Context(), actor, &in)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Request submitted for approval.",
		"property": property,
	})
}

func (h *PropertyHandler) RequestUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var in models.PropertyInput
	if !decodeJSON(w, r, &in) {
		return
	}

	property, err := h.propertyService.RequestUpdate(r.Context(), actor, mux.Vars(r)["id"], &in)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Update request submitted.",
		"property": property,
	})
}

func (h *PropertyHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	property, err := h.propertyService.RequestDelete(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Delete request submitted for approval.",
		"property": property,
	})
}

func (h *PropertyHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	pending, err := h.propertyService.ListPending(r.Context(), actor)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, pending)
}

func (h *PropertyHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	msg, err := h.propertyService.Approve(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (h *PropertyHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	msg, err := h.propertyService.Reject(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": msg})
}
