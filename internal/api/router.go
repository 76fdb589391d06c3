package api

import (
	"net/http"
	"time"

	"poke_league/internal/api/handler"
	"poke_league/internal/api/middleware"
	"poke_league/internal/app/service"
	"poke_league/internal/common"
	"poke_league/internal/common/security"
	"poke_league/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/sirupsen/logrus"
)

const rootBanner = "🟢 Backend server is running!"

func NewRouter(
	userService *service.UserService,
	authService *service.AuthService,
	leaderboardService *service.LeaderboardService,
	logger *logrus.Logger,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins(),
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Verifies a bearer token if one is sent and leaves the outcome in the
	// context. Only routes behind middleware.Authenticator reject on it.
	r.Use(jwtauth.Verify(security.TokenAuth, jwtauth.TokenFromHeader))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithText(w, http.StatusOK, rootBanner)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithText(w, http.StatusOK, "OK")
	})

	userHandler := handler.NewUserHandler(userService, logger, cfg.MaxBodyBytes)
	r.Route("/users", userHandler.RegisterRoutes)

	authHandler := handler.NewAuthHandler(authService, logger, cfg.MaxBodyBytes)
	r.Route("/auth", authHandler.RegisterRoutes)

	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService, logger, cfg.MaxBodyBytes)
	r.Route("/leaderboard", leaderboardHandler.RegisterRoutes)

	return r
}
