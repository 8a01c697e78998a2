package service

import (
	"context"
	"time"

	"hotelbot/internal/domain"
	"hotelbot/internal/models"

	"github.com/rs/zerolog"
)

type StateService struct {
	stateRepo domain.StateRepository
	logger    *zerolog.Logger
}

func NewStateService(stateRepo domain.StateRepository, logger *zerolog.Logger) *StateService {
	return &StateService{
		stateRepo: stateRepo,
		logger:    logger,
	}
}

func (s *StateService) GetUserState(ctx context.Context, userID int64) (*models.GuestState, error) {
	state, err := s.stateRepo.GetState(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get user state")
		return nil, err
	}
	if state == nil {
		state = &models.GuestState{UserID: userID, Step: models.StepMainMenu}
	}
	return state, nil
}

func (s *StateService) SetUserState(ctx context.Context, state *models.GuestState) error {
	return s.stateRepo.SetState(ctx, state)
}

func (s *StateService) ClearUserState(ctx context.Context, userID int64) error {
	return s.stateRepo.ClearState(ctx, userID)
}

func (s *StateService) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	allowed, err := s.stateRepo.CheckRateLimit(ctx, userID, limit, window)
	if err != nil {
		// При сбое лимитера пропускаем сообщение, а не блокируем пользователя
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("rate limit check failed")
		return true, nil
	}
	return allowed, err
}
