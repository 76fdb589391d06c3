package service

import (
	"context"
	"errors"
	"fmt"

	"poke_league/internal/common"
	"poke_league/internal/common/security"
	"poke_league/internal/domain/model"
	"poke_league/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

type AuthService struct {
	userRepo repository.UserRepository
	logger   *logrus.Logger
}

func NewAuthService(userRepo repository.UserRepository, logger *logrus.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, logger: logger}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  model.PublicUser `json:"user"`
	Token string           `json:"token"`
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if _, err := common.ValidateStruct(req); err != nil {
		return nil, ErrMissingCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrInvalidCredentials // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.logger.WithField("user_id", user.ID).Warn("login failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("user logged in")
	return &AuthResponse{User: user.Public(), Token: token}, nil
}

// Me resolves the identity behind an already verified token. The token may
// outlive its user, so absence is reported as not found.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.PublicUser, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	pub := user.Public()
	return &pub, nil
}
