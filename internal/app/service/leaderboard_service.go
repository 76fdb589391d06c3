package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"poke_league/internal/common"
	"poke_league/internal/domain/model"
	"poke_league/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

type LeaderboardService struct {
	userRepo repository.UserRepository
	logger   *logrus.Logger
}

func NewLeaderboardService(userRepo repository.UserRepository, logger *logrus.Logger) *LeaderboardService {
	return &LeaderboardService{userRepo: userRepo, logger: logger}
}

type UpdateRosterRequest struct {
	Action    model.RosterAction `json:"action"`
	PokemonID json.RawMessage    `json:"pokemonId"`
}

type AdjustScoreRequest struct {
	Delta int `json:"delta" validate:"required"`
}

func (s *LeaderboardService) GetLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return model.BuildLeaderboard(users), nil
}

func (s *LeaderboardService) GetRoster(ctx context.Context, userID string) (model.Roster, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Roster.Clone(), nil
}

func (s *LeaderboardService) GetScore(ctx context.Context, userID string) (int, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Score, nil
}

// UpdateRoster applies a roster action atomically. An unknown user is
// reported before the action or the item is looked at.
func (s *LeaderboardService) UpdateRoster(ctx context.Context, userID string, req UpdateRosterRequest) (model.Roster, error) {
	user, err := s.userRepo.Update(ctx, userID, func(u *model.User) error {
		next, err := u.Roster.Apply(req.Action, req.PokemonID)
		if err != nil {
			return err
		}
		u.Roster = next
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, model.ErrInvalidAction) || errors.Is(err, model.ErrMissingItem) || errors.Is(err, model.ErrInvalidItem) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update roster: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"action":  req.Action,
		"size":    len(user.Roster),
	}).Info("roster updated")
	return user.Roster, nil
}

// AdjustScore adds delta to the score of userID. Only the user themself may
// do this; callerID is the verified token subject.
func (s *LeaderboardService) AdjustScore(ctx context.Context, callerID, userID string, req AdjustScoreRequest) (int, error) {
	if _, err := s.findUser(ctx, userID); err != nil {
		return 0, err
	}
	if callerID != userID {
		return 0, ErrForbiddenScore
	}
	if _, err := common.ValidateStruct(req); err != nil {
		return 0, ErrMissingDelta
	}

	user, err := s.userRepo.Update(ctx, userID, func(u *model.User) error {
		u.Score += req.Delta
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to adjust score: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "delta": req.Delta, "score": user.Score}).Info("score adjusted")
	return user.Score, nil
}

func (s *LeaderboardService) findUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
