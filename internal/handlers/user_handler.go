package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"foodapp/internal/middleware"
	"foodapp/internal/models"
	"foodapp/internal/services"

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

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		h.respondWithLookupError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, "", models.AuthResponse{User: user})
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var patch models.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, patch)
	if err != nil {
		if respondWithValidation(w, err) {
			return
		}
		if errors.Is(err, services.ErrEmailTaken) {
			respondWithError(w, http.StatusBadRequest, "update_failed", "An account with this email already exists")
			return
		}
		h.respondWithLookupError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, "Profile updated successfully!", models.AuthResponse{User: user})
}

func (h *UserHandler) respondWithLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrUserNotFound) {
		respondWithError(w, http.StatusNotFound, "user_not_found", "User not found")
		return
	}
	h.logger.Error().Err(err).Msg("Profile request failed")
	respondWithError(w, http.StatusInternalServerError, "internal_error", "Something went wrong")
}
