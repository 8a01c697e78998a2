package bot

import (
	"context"
	"fmt"
	"strings"

	"hotelbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := update.Message.Text
	l := zerolog.Ctx(ctx)

	l.Debug().
		Int64("user_id", userID).
		Str("username", update.Message.From.UserName).
		Str("text", text).
		Msg("Handling message")

	if update.Message.IsCommand() {
		b.handleCommand(ctx, update)
		return
	}

	state := b.getUserState(ctx, userID)

	switch {
	case text == btnCancel || text == btnBackMenu:
		b.clearUserState(ctx, userID)
		b.showMainMenu(ctx, chatID)

	case text == btnRooms:
		b.showRooms(ctx, chatID, 0, 0)

	case text == btnSearch:
		b.startSearch(ctx, userID, chatID)

	case text == btnBookings:
		b.showBookings(ctx, chatID, 0, 0)

	case text == btnProfile:
		b.showProfile(ctx, chatID)

	case text == btnLogin:
		b.startLogin(ctx, userID, chatID)

	case text == btnLogout:
		b.handleLogout(ctx, chatID)

	case strings.HasPrefix(state.Step, "search_"), state.Step == models.StepConfirmBooking:
		b.handleStayFlow(ctx, update, state)

	case strings.HasPrefix(state.Step, "login_"):
		b.handleLoginFlow(ctx, update, state)

	case strings.HasPrefix(state.Step, "register_"):
		b.handleRegisterFlow(ctx, update, state)

	default:
		b.showMainMenu(ctx, chatID)
	}
}

func (b *Bot) handleCommand(ctx context.Context, update tgbotapi.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	command := update.Message.Command()

	if b.metrics != nil {
		b.metrics.CommandsProcessed.WithLabelValues(command).Inc()
	}

	switch command {
	case "start":
		b.clearUserState(ctx, userID)
		b.handleStart(ctx, update)

	case "help":
		b.sendMessage(chatID, helpText)

	case "rooms":
		b.showRooms(ctx, chatID, 0, 0)

	case "search":
		b.startSearch(ctx, userID, chatID)

	case "bookings":
		b.showBookings(ctx, chatID, 0, 0)

	case "profile":
		b.showProfile(ctx, chatID)

	case "login":
		b.startLogin(ctx, userID, chatID)

	case "register":
		b.startRegister(ctx, userID, chatID)

	case "logout":
		b.handleLogout(ctx, chatID)

	case "export":
		b.handleExport(ctx, chatID)

	default:
		b.sendMessage(chatID, "Неизвестная команда. Список команд: /help")
	}
}

const helpText = `Команды бота:
/rooms — каталог номеров
/search — поиск свободных номеров по датам
/bookings — мои бронирования
/profile — мой профиль
/login — войти в аккаунт
/register — создать аккаунт
/logout — выйти
/export — выгрузка истории бронирований в Excel
/start — в главное меню`

func (b *Bot) handleStart(ctx context.Context, update tgbotapi.Update) {
	name := update.Message.From.FirstName
	greeting := fmt.Sprintf("Здравствуйте, %s! 👋\nЯ помогу выбрать и забронировать номер в отеле.", name)
	if b.auth.IsAuthenticated() {
		if profile, err := b.auth.Profile(ctx); err == nil && profile.FirstName != "" {
			greeting = fmt.Sprintf("С возвращением, %s! 👋", profile.FirstName)
		}
	}
	b.sendWithKeyboard(update.Message.Chat.ID, greeting, b.mainMenuKeyboard())
}

func (b *Bot) showMainMenu(ctx context.Context, chatID int64) {
	b.sendWithKeyboard(chatID, "Главное меню. Чем могу помочь?", b.mainMenuKeyboard())
}

func (b *Bot) showRooms(ctx context.Context, chatID int64, page, messageID int) {
	rooms, err := b.rooms.List(ctx)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if len(rooms) == 0 {
		b.sendMessage(chatID, "Пока нет доступных номеров.")
		return
	}

	b.renderPaginatedRooms(PaginationParams{
		ChatID:     chatID,
		MessageID:  messageID,
		Page:       page,
		Title:      "🏨 *Номера отеля*",
		PagePrefix: "rooms_page:",
	}, rooms)
}

func (b *Bot) showRoomDetail(ctx context.Context, chatID int64, number string) {
	room, err := b.rooms.Detail(ctx, number)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	// Фотографии уходят отдельными сообщениями перед карточкой
	for _, photo := range room.Photos {
		if photo.Image == "" {
			continue
		}
		photoMsg := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photo.Image))
		if _, err := b.tg.Send(photoMsg); err != nil {
			b.logger.Warn().Err(err).Str("url", photo.Image).Msg("Failed to send room photo")
		}
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Забронировать", "book:"+room.Number),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ К списку номеров", "rooms_page:0"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, formatRoomDetail(room))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	b.tg.Send(msg)
}

func (b *Bot) showBookings(ctx context.Context, chatID int64, page, messageID int) {
	if !b.auth.IsAuthenticated() {
		b.sendMessage(chatID, "🔐 Для просмотра бронирований нужно войти: /login")
		return
	}

	bookings, err := b.bookings.MyBookings(ctx)
	if err != nil {
		// При недоступном API показываем локальное зеркало
		mirrored, mErr := b.bookings.MirroredBookings(ctx)
		if mErr != nil || len(mirrored) == 0 {
			b.sendMessage(chatID, b.getErrorMessage(err))
			return
		}
		b.sendMessage(chatID, "⚠️ Сервер недоступен, показываю сохраненную историю.")
		bookings = mirrored
	}

	if len(bookings) == 0 {
		b.sendMessage(chatID, "У вас пока нет бронирований. Начните с поиска: /search")
		return
	}

	b.renderPaginatedBookings(PaginationParams{
		ChatID:     chatID,
		MessageID:  messageID,
		Page:       page,
		Title:      "📊 *Мои бронирования*",
		PagePrefix: "bookings_page:",
	}, bookings)
}

func (b *Bot) showProfile(ctx context.Context, chatID int64) {
	profile, err := b.auth.Profile(ctx)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	msg := tgbotapi.NewMessage(chatID, formatProfile(profile))
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.tg.Send(msg)
}

func (b *Bot) handleLogout(ctx context.Context, chatID int64) {
	if !b.auth.IsAuthenticated() {
		b.sendMessage(chatID, "Вы и так не авторизованы.")
		return
	}
	if err := b.auth.Logout(ctx); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendWithKeyboard(chatID, "Вы вышли из аккаунта. До встречи! 👋", b.mainMenuKeyboard())
}
