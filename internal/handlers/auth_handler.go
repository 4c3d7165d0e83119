package handlers

import (
	"net/http"

	"rental-booking/internal/models"
	"rental-booking/internal/services"

	"github.com/rs/zerolog"
)

type AuthHandler struct {
	userService *services.UserService
	authService *services.AuthService
	logger      zerolog.Logger
}

func NewAuthHandler(userService *services.UserService, authService *services.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Registration failed")
		respondWithServiceError(w, h.logger, err)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, models.AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Authenticate(r.Context(), &req)
	if err != nil {
		h.logger.Warn().Str("email", req.Email).Msg("Login failed")
		respondWithServiceError(w, h.logger, err)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

// Refresh issues a new token for the caller, picking up any role change.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), actor.UserID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.AuthResponse{
		Message: "Token refreshed",
		Token:   token,
		User:    user,
	})
}
