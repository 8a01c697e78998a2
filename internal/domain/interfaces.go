package domain

import (
	"context"
	"time"

	"hotelbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// StateRepository persists per-chat conversation state.
type StateRepository interface {
	GetState(ctx context.Context, userID int64) (*models.GuestState, error)
	SetState(ctx context.Context, state *models.GuestState) error
	ClearState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// StateManager is the service-level view of conversation state.
type StateManager interface {
	GetUserState(ctx context.Context, userID int64) (*models.GuestState, error)
	SetUserState(ctx context.Context, state *models.GuestState) error
	ClearUserState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// EventPublisher publishes application events.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Authenticator drives the session lifecycle for the view layer.
type Authenticator interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, form RegisterForm) error
	Logout(ctx context.Context) error
	IsAuthenticated() bool
	Profile(ctx context.Context) (models.UserProfile, error)
}

// RegisterForm collects the registration fields from the view layer.
type RegisterForm struct {
	Username    string
	Password    string
	Password2   string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
}

// RoomCatalog exposes room browsing.
type RoomCatalog interface {
	List(ctx context.Context) ([]models.Room, error)
	Detail(ctx context.Context, number string) (*models.Room, error)
}

// BookingDesk exposes availability search and booking operations.
type BookingDesk interface {
	SearchAvailable(ctx context.Context, checkIn, checkOut models.Date) ([]models.Room, error)
	CreateBooking(ctx context.Context, roomNumber string, checkIn, checkOut models.Date) (*models.Booking, error)
	MyBookings(ctx context.Context) ([]models.Booking, error)
	MirroredBookings(ctx context.Context) ([]models.Booking, error)
	ValidateStay(checkIn, checkOut models.Date) error
}

// Background task types understood by the sync worker.
const (
	TaskWarmRooms      = "warm_rooms"
	TaskMirrorBookings = "mirror_bookings"
)

// TaskQueue enqueues background sync work.
type TaskQueue interface {
	Enqueue(ctx context.Context, taskType string) error
}

// TelegramSender is the minimal bot API surface, fakeable in tests.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
