package bot

import (
	"errors"

	"hotelbot/internal/client"
	"hotelbot/internal/service"
)

// getErrorMessage переводит доменные ошибки в сообщения пользователю.
// Текст ошибки API (detail) показывается как есть.
func (b *Bot) getErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, service.ErrMissingDates) {
		return "⚠️ Укажите даты заезда и выезда."
	}

	if errors.Is(err, service.ErrCheckOutNotAfterCheckIn) {
		return "⚠️ Дата выезда должна быть позже даты заезда."
	}

	if errors.Is(err, service.ErrPastCheckIn) {
		return "⚠️ Нельзя заезжать в прошедшую дату."
	}

	if errors.Is(err, service.ErrDateTooFar) {
		return "⚠️ Вы не можете бронировать так далеко в будущем. Пожалуйста, выберите более раннюю дату."
	}

	if errors.Is(err, service.ErrNotAuthenticated) || client.IsUnauthorized(err) {
		return "🔐 Для этого действия нужно войти в аккаунт: /login"
	}

	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return "⚠️ " + ve.Error()
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return "⚠️ " + apiErr.Detail
	}

	return "❌ Произошла ошибка при обработке вашего запроса. Пожалуйста, попробуйте позже."
}
