package handler

import (
	"net/http"

	"poke_league/internal/api/middleware"
	"poke_league/internal/app/service"
	"poke_league/internal/common"
	"poke_league/internal/common/security"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService  *service.AuthService
	logger       *logrus.Logger
	maxBodyBytes int64
}

func NewAuthHandler(authService *service.AuthService, logger *logrus.Logger, maxBodyBytes int64) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger, maxBodyBytes: maxBodyBytes}
}

type loginResponse struct {
	Message string `json:"message"`
	*service.AuthResponse
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.With(middleware.Authenticator).Get("/me", h.me)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := common.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, loginResponse{Message: "Login successful", AuthResponse: resp})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, r, h.logger, security.ErrMissingToken)
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}
