package models

// Booking statuses as served by the API.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Conversation steps for the storefront flows.
const (
	StepMainMenu = "main_menu"

	StepSearchCheckIn  = "search_check_in"
	StepSearchCheckOut = "search_check_out"
	StepConfirmBooking = "confirm_booking"

	StepLoginUsername = "login_username"
	StepLoginPassword = "login_password"

	StepRegisterUsername = "register_username"
	StepRegisterEmail    = "register_email"
	StepRegisterFirst    = "register_first_name"
	StepRegisterLast     = "register_last_name"
	StepRegisterPhone    = "register_phone"
	StepRegisterPassword = "register_password"
	StepRegisterRepeat   = "register_password2"
)

const (
	// DefaultStateTTL время жизни состояния диалога в Redis
	DefaultStateTTL = 24 * 60 * 60 // секунды

	// DefaultPaginationSize размер страницы списка номеров
	DefaultPaginationSize = 6

	// DefaultBookingsPaginationSize размер страницы истории бронирований
	DefaultBookingsPaginationSize = 5

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений, секунды
	RateLimitWindow = 60

	// DefaultMaxAdvanceDays максимальный горизонт бронирования
	DefaultMaxAdvanceDays = 365
)
