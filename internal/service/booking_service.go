package service

import (
	"context"

	"hotelbot/internal/database"
	"hotelbot/internal/domain"
	"hotelbot/internal/events"
	"hotelbot/internal/hotelapi"
	"hotelbot/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	api            *hotelapi.API
	db             *database.DB
	eventBus       domain.EventPublisher
	queue          domain.TaskQueue
	maxAdvanceDays int
	logger         *zerolog.Logger
}

func NewBookingService(api *hotelapi.API, db *database.DB, eventBus domain.EventPublisher, queue domain.TaskQueue, maxAdvanceDays int, logger *zerolog.Logger) *BookingService {
	if maxAdvanceDays <= 0 {
		maxAdvanceDays = models.DefaultMaxAdvanceDays
	}
	return &BookingService{
		api:            api,
		db:             db,
		eventBus:       eventBus,
		queue:          queue,
		maxAdvanceDays: maxAdvanceDays,
		logger:         logger,
	}
}

// ValidateStay проверяет диапазон дат до обращения к API.
func (s *BookingService) ValidateStay(checkIn, checkOut models.Date) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return ErrMissingDates
	}
	if !checkOut.After(checkIn.Time) {
		return ErrCheckOutNotAfterCheckIn
	}

	today := models.Today()
	if checkIn.Before(today.Time) {
		return ErrPastCheckIn
	}
	if checkIn.After(today.AddDays(s.maxAdvanceDays).Time) {
		return ErrDateTooFar
	}

	return nil
}

func (s *BookingService) SearchAvailable(ctx context.Context, checkIn, checkOut models.Date) ([]models.Room, error) {
	if err := s.ValidateStay(checkIn, checkOut); err != nil {
		return nil, err
	}

	rooms, err := s.api.SearchAvailable(ctx, checkIn, checkOut)
	if err != nil {
		s.logger.Error().Err(err).Msg("availability search failed")
		return nil, err
	}
	return rooms, nil
}

func (s *BookingService) CreateBooking(ctx context.Context, roomNumber string, checkIn, checkOut models.Date) (*models.Booking, error) {
	if err := s.ValidateStay(checkIn, checkOut); err != nil {
		return nil, err
	}

	booking, err := s.api.CreateBooking(ctx, hotelapi.CreateBookingRequest{
		RoomID:   roomNumber,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	})
	if err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		s.eventBus.PublishJSON(events.EventBookingCreated, events.BookingEventPayload{
			BookingID:  booking.ID,
			RoomNumber: booking.Room.Number,
			RoomName:   booking.Room.Name,
			CheckIn:    booking.CheckIn.String(),
			CheckOut:   booking.CheckOut.String(),
			TotalPrice: booking.TotalPrice,
			Status:     booking.Status,
		})
	}

	// Обновляем локальное зеркало истории в фоне
	if s.queue != nil {
		if err := s.queue.Enqueue(ctx, domain.TaskMirrorBookings); err != nil {
			s.logger.Warn().Err(err).Msg("failed to enqueue bookings mirror sync")
		}
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Str("room", booking.Room.Number).
		Msg("booking created")
	return booking, nil
}

// MyBookings возвращает свежую историю с сервера и обновляет зеркало в SQLite.
func (s *BookingService) MyBookings(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.api.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	if s.db != nil {
		if err := s.db.ReplaceBookings(ctx, bookings); err != nil {
			s.logger.Warn().Err(err).Msg("failed to refresh bookings mirror")
		}
	}

	return bookings, nil
}

// MirroredBookings читает локальное зеркало; полезно, когда API недоступен.
func (s *BookingService) MirroredBookings(ctx context.Context) ([]models.Booking, error) {
	if s.db == nil {
		return nil, nil
	}
	return s.db.ListBookings(ctx)
}
