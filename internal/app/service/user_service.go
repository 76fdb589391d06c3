package service

import (
	"context"
	"errors"
	"fmt"

	"poke_league/internal/common"
	"poke_league/internal/common/security"
	"poke_league/internal/domain/model"
	"poke_league/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UserService struct {
	userRepo repository.UserRepository
	logger   *logrus.Logger
}

func NewUserService(userRepo repository.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register adds a new user to the directory. Email is the only uniqueness key.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if fields, err := common.ValidateStruct(req); err != nil {
		s.logger.WithField("fields", fields).Debug("registration rejected: missing fields")
		return nil, ErrMissingFields
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Roster:       model.Roster{},
		Score:        0,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, ErrEmailConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return user, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// List returns every registered user in registration order.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
