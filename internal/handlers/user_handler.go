package handlers

import (
	"net/http"

	"rental-booking/internal/models"
	"rental-booking/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	userService *services.UserService
	logger      zerolog.Logger
}

func NewUserHandler(userService *services.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), actor.UserID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// GetUser returns any profile to an admin and only the caller's own to everyone else.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	userID := mux.Vars(r)["id"]
	if actor.Role != models.RoleAdmin && actor.UserID != userID {
		respondWithError(w, http.StatusForbidden, "forbidden", "You can only view your own profile")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}
