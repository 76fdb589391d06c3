package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poke_league/internal/api"
	"poke_league/internal/app/service"
	"poke_league/internal/common/security"
	"poke_league/internal/domain/repository"
	"poke_league/internal/platform/config"
	"poke_league/internal/platform/logger"

	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New(cfg.AppEnv, cfg.LogLevel)
	log.WithFields(logrus.Fields{"env": cfg.AppEnv, "level": log.GetLevel().String()}).Info("Configuration loaded.")

	// 3. Initialize JWT
	security.InitJWT(cfg.JWTKey, cfg.JWTExp)
	log.WithField("expires_in", cfg.JWTExp.String()).Info("JWT initialized.")

	// 4. Initialize Repositories
	userRepo := repository.NewMemUserRepository()

	// 5. Initialize Services
	userService := service.NewUserService(userRepo, log)
	authService := service.NewAuthService(userRepo, log)
	leaderboardService := service.NewLeaderboardService(userRepo, log)

	// 6. Initialize Router & HTTP Server
	router := api.NewRouter(userService, authService, leaderboardService, log, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infof("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Could not listen on %s: %v", cfg.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Info("Server stopped gracefully.")
}
