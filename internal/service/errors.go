package service

import "errors"

// Доменные ошибки сервисного слоя; бот превращает их в сообщения пользователю.
var (
	ErrNotAuthenticated        = errors.New("not authenticated")
	ErrMissingDates            = errors.New("check-in and check-out dates are required")
	ErrCheckOutNotAfterCheckIn = errors.New("check-out must be after check-in")
	ErrPastCheckIn             = errors.New("check-in date is in the past")
	ErrDateTooFar              = errors.New("date is too far in the future")
	ErrPasswordMismatch        = errors.New("passwords do not match")
)
