package service

import (
	"context"

	"hotelbot/internal/hotelapi"
	"hotelbot/internal/models"

	"github.com/rs/zerolog"
)

type RoomService struct {
	api    *hotelapi.API
	logger *zerolog.Logger
}

func NewRoomService(api *hotelapi.API, logger *zerolog.Logger) *RoomService {
	return &RoomService{
		api:    api,
		logger: logger,
	}
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.api.ListRooms(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list rooms")
		return nil, err
	}
	return rooms, nil
}

func (s *RoomService) Detail(ctx context.Context, number string) (*models.Room, error) {
	room, err := s.api.RoomDetail(ctx, number)
	if err != nil {
		s.logger.Error().Err(err).Str("room", number).Msg("failed to get room")
		return nil, err
	}
	return room, nil
}
