package handler

import (
	"net/http"

	"poke_league/internal/app/service"
	"poke_league/internal/common"
	"poke_league/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	userService  *service.UserService
	logger       *logrus.Logger
	maxBodyBytes int64
}

func NewUserHandler(us *service.UserService, logger *logrus.Logger, maxBodyBytes int64) *UserHandler {
	return &UserHandler{userService: us, logger: logger, maxBodyBytes: maxBodyBytes}
}

type registerResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listUsers)   // GET /users
	r.Post("/", h.createUser) // POST /users
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := common.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, registerResponse{Message: "User registered", User: user})
}
