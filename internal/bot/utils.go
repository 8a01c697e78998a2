package bot

import (
	"context"
	"fmt"
	"strings"

	"hotelbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Кнопки главного меню
const (
	btnRooms    = "🏨 Номера"
	btnSearch   = "🔍 Поиск свободных"
	btnBookings = "📊 Мои бронирования"
	btnProfile  = "👤 Профиль"
	btnLogin    = "🔐 Войти"
	btnLogout   = "🚪 Выйти"
	btnCancel   = "❌ Отмена"
	btnBackMenu = "⬅️ Назад в меню"
)

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (b *Bot) mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	if b.auth.IsAuthenticated() {
		return tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnRooms),
				tgbotapi.NewKeyboardButton(btnSearch),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnBookings),
				tgbotapi.NewKeyboardButton(btnProfile),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnLogout),
			),
		)
	}
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnRooms),
			tgbotapi.NewKeyboardButton(btnSearch),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnLogin),
		),
	)
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.OneTimeKeyboard = true
	return kb
}

func (b *Bot) getUserState(ctx context.Context, userID int64) *models.GuestState {
	state, err := b.stateService.GetUserState(ctx, userID)
	if err != nil || state == nil {
		return &models.GuestState{UserID: userID, Step: models.StepMainMenu}
	}
	return state
}

func (b *Bot) setUserState(ctx context.Context, state *models.GuestState) {
	if err := b.stateService.SetUserState(ctx, state); err != nil {
		b.logger.Error().Err(err).Int64("user_id", state.UserID).Msg("Failed to save user state")
	}
}

func (b *Bot) clearUserState(ctx context.Context, userID int64) {
	if err := b.stateService.ClearUserState(ctx, userID); err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to clear user state")
	}
}

func formatRoomLine(idx int, room models.Room) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d. *%s* (№%s)\n", idx, room.Name, room.Number))
	sb.WriteString(fmt.Sprintf("   🛏 %s, до %d гостей\n", room.Type, room.Capacity))
	sb.WriteString(fmt.Sprintf("   💰 %s ₽/ночь\n", room.PricePerNight))
	return sb.String()
}

func formatRoomDetail(room *models.Room) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* (№%s)\n\n", room.Name, room.Number))
	sb.WriteString(fmt.Sprintf("🛏 Тип: %s\n", room.Type))
	sb.WriteString(fmt.Sprintf("👥 Вместимость: до %d гостей\n", room.Capacity))
	sb.WriteString(fmt.Sprintf("💰 Цена: %s ₽/ночь\n", room.PricePerNight))
	if room.Description != "" {
		sb.WriteString(fmt.Sprintf("\n📝 %s\n", room.Description))
	}
	return sb.String()
}

func formatBooking(booking models.Booking) string {
	statusEmoji := "⏳"
	switch booking.Status {
	case models.StatusConfirmed:
		statusEmoji = "✅"
	case models.StatusCancelled:
		statusEmoji = "❌"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s *Бронирование #%d*\n", statusEmoji, booking.ID))
	sb.WriteString(fmt.Sprintf("   🏨 %s (№%s)\n", booking.Room.Name, booking.Room.Number))
	sb.WriteString(fmt.Sprintf("   📅 %s — %s (%d ноч.)\n",
		booking.CheckIn.Format("02.01.2006"),
		booking.CheckOut.Format("02.01.2006"),
		booking.Nights()))
	sb.WriteString(fmt.Sprintf("   💰 %s ₽\n", booking.TotalPrice))
	return sb.String()
}

func formatProfile(profile models.UserProfile) string {
	var sb strings.Builder
	sb.WriteString("👤 *Ваш профиль*\n\n")
	sb.WriteString(fmt.Sprintf("Логин: %s\n", profile.Username))
	if name := profile.FullName(); name != "" {
		sb.WriteString(fmt.Sprintf("Имя: %s\n", name))
	}
	if profile.Email != "" {
		sb.WriteString(fmt.Sprintf("Email: %s\n", profile.Email))
	}
	if profile.PhoneNumber != "" {
		sb.WriteString(fmt.Sprintf("Телефон: %s\n", profile.PhoneNumber))
	}
	return sb.String()
}
