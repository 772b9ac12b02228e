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

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		if respondWithValidation(w, err) {
			return
		}
		if errors.Is(err, services.ErrEmailTaken) {
			respondWithError(w, http.StatusBadRequest, "registration_failed", "An account with this email already exists")
			return
		}
		h.logger.Error().Err(err).Msg("Registration failed")
		respondWithError(w, http.StatusInternalServerError, "registration_failed", "Failed to create account")
		return
	}

	respondWithJSON(w, http.StatusCreated, "Account created successfully!", models.AuthResponse{User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), &req)
	if err != nil {
		if respondWithValidation(w, err) {
			return
		}
		h.logger.Warn().Str("email", req.Email).Msg("Login failed")
		respondWithError(w, http.StatusUnauthorized, "authentication_failed", "Invalid email or password")
		return
	}

	token, err := h.authService.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		h.logger.Error().Err(err).Msg("Token generation failed")
		respondWithError(w, http.StatusInternalServerError, "token_generation_failed", "Failed to generate token")
		return
	}

	respondWithJSON(w, http.StatusOK, "Logged in successfully!", models.AuthResponse{
		User:  user,
		Token: token,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	h.authService.Revoke(claims)
	respondWithJSON(w, http.StatusOK, "Logged out successfully", nil)
}
