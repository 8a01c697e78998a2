package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// handleCallbackQuery обработка callback запросов от inline кнопок
func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) {
	callback := update.CallbackQuery
	if callback == nil || callback.Message == nil {
		return
	}

	l := zerolog.Ctx(ctx)
	l.Debug().
		Int64("user_id", callback.From.ID).
		Str("data", callback.Data).
		Msg("Handling callback query")

	// Убираем "часики" на кнопке
	if _, err := b.tg.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		l.Warn().Err(err).Msg("Failed to answer callback query")
	}

	userID := callback.From.ID
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	data := callback.Data

	switch {
	case data == "menu":
		b.clearUserState(ctx, userID)
		b.showMainMenu(ctx, chatID)

	case strings.HasPrefix(data, "rooms_page:"):
		page := parsePage(data, "rooms_page:")
		b.showRooms(ctx, chatID, page, messageID)

	case strings.HasPrefix(data, "search_page:"):
		state := b.getUserState(ctx, userID)
		if state.CheckIn.IsZero() || state.CheckOut.IsZero() {
			b.sendMessage(chatID, "Даты поиска устарели. Начните заново: /search")
			return
		}
		page := parsePage(data, "search_page:")
		b.showSearchResults(ctx, chatID, state, page, messageID)

	case strings.HasPrefix(data, "bookings_page:"):
		page := parsePage(data, "bookings_page:")
		b.showBookings(ctx, chatID, page, messageID)

	case strings.HasPrefix(data, "room:"):
		b.showRoomDetail(ctx, chatID, strings.TrimPrefix(data, "room:"))

	case strings.HasPrefix(data, "book:"):
		b.startBooking(ctx, userID, chatID, strings.TrimPrefix(data, "book:"))

	case data == "confirm_booking":
		b.finalizeBooking(ctx, userID, chatID)

	case data == "cancel_booking":
		b.clearUserState(ctx, userID)
		b.sendWithKeyboard(chatID, "Бронирование отменено.", b.mainMenuKeyboard())
	}
}

func parsePage(data, prefix string) int {
	page, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil || page < 0 {
		return 0
	}
	return page
}
