package handler

import (
	"net/http"

	"poke_league/internal/api/middleware"
	"poke_league/internal/app/service"
	"poke_league/internal/common"
	"poke_league/internal/common/security"
	"poke_league/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
	logger             *logrus.Logger
	maxBodyBytes       int64
}

func NewLeaderboardHandler(ls *service.LeaderboardService, logger *logrus.Logger, maxBodyBytes int64) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: ls, logger: logger, maxBodyBytes: maxBodyBytes}
}

type rosterResponse struct {
	Message string       `json:"message,omitempty"`
	Roster  model.Roster `json:"roster"`
}

type scoreResponse struct {
	Message string `json:"message,omitempty"`
	Score   int    `json:"score"`
}

func (h *LeaderboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.getLeaderboard)              // GET /leaderboard
	r.Get("/{userID}", h.getRoster)           // GET /leaderboard/{id}
	r.Get("/{userID}/score", h.getScore)      // GET /leaderboard/{id}/score
	r.Put("/{userID}/roster", h.updateRoster) // PUT /leaderboard/{id}/roster

	r.Group(func(authRouter chi.Router) {
		authRouter.Use(middleware.Authenticator)
		authRouter.Patch("/{userID}/score", h.adjustScore) // PATCH /leaderboard/{id}/score
	})
}

func (h *LeaderboardHandler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.leaderboardService.GetLeaderboard(r.Context())
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, board)
}

func (h *LeaderboardHandler) getRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := h.leaderboardService.GetRoster(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, rosterResponse{Roster: roster})
}

func (h *LeaderboardHandler) getScore(w http.ResponseWriter, r *http.Request) {
	score, err := h.leaderboardService.GetScore(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, scoreResponse{Score: score})
}

func (h *LeaderboardHandler) updateRoster(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateRosterRequest
	if err := common.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	roster, err := h.leaderboardService.UpdateRoster(r.Context(), chi.URLParam(r, "userID"), req)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, rosterResponse{Message: "Roster updated", Roster: roster})
}

func (h *LeaderboardHandler) adjustScore(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, r, h.logger, security.ErrMissingToken)
		return
	}

	var req service.AdjustScoreRequest
	if err := common.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}

	score, err := h.leaderboardService.AdjustScore(r.Context(), callerID, chi.URLParam(r, "userID"), req)
	if err != nil {
		respondWithError(w, r, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, scoreResponse{Message: "Score updated", Score: score})
}
