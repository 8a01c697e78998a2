package bot

import (
	"context"
	"fmt"
	"strings"

	"hotelbot/internal/domain"
	"hotelbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// startSearch запускает диалог выбора дат для поиска свободных номеров.
func (b *Bot) startSearch(ctx context.Context, userID, chatID int64) {
	state := &models.GuestState{UserID: userID, Step: models.StepSearchCheckIn}
	b.setUserState(ctx, state)
	b.sendWithKeyboard(chatID, "🔍 Введите дату заезда в формате ГГГГ-ММ-ДД (например, 2026-09-15):", cancelKeyboard())
}

// startBooking запускает тот же диалог дат, но для конкретного номера.
func (b *Bot) startBooking(ctx context.Context, userID, chatID int64, roomNumber string) {
	state := b.getUserState(ctx, userID)

	// Если даты уже выбраны поиском, сразу переходим к подтверждению
	if !state.CheckIn.IsZero() && !state.CheckOut.IsZero() {
		state.RoomNumber = roomNumber
		b.askConfirmBooking(ctx, chatID, state)
		return
	}

	state = &models.GuestState{UserID: userID, Step: models.StepSearchCheckIn, RoomNumber: roomNumber}
	b.setUserState(ctx, state)
	b.sendWithKeyboard(chatID, "📋 Введите дату заезда в формате ГГГГ-ММ-ДД:", cancelKeyboard())
}

// handleStayFlow ведет пользователя по шагам выбора дат и подтверждения.
func (b *Bot) handleStayFlow(ctx context.Context, update tgbotapi.Update, state *models.GuestState) {
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	switch state.Step {
	case models.StepSearchCheckIn:
		date, err := models.ParseDate(text)
		if err != nil {
			b.sendMessage(chatID, "⚠️ Не понял дату. Формат: ГГГГ-ММ-ДД, например 2026-09-15.")
			return
		}
		state.CheckIn = date
		state.Step = models.StepSearchCheckOut
		b.setUserState(ctx, state)
		b.sendMessage(chatID, "Теперь введите дату выезда:")

	case models.StepSearchCheckOut:
		date, err := models.ParseDate(text)
		if err != nil {
			b.sendMessage(chatID, "⚠️ Не понял дату. Формат: ГГГГ-ММ-ДД, например 2026-09-18.")
			return
		}
		state.CheckOut = date

		if err := b.bookings.ValidateStay(state.CheckIn, state.CheckOut); err != nil {
			// Начинаем диапазон заново, заезд мог быть причиной
			state.CheckIn = models.Date{}
			state.CheckOut = models.Date{}
			state.Step = models.StepSearchCheckIn
			b.setUserState(ctx, state)
			b.sendMessage(chatID, b.getErrorMessage(err)+"\nВведите дату заезда еще раз:")
			return
		}

		if state.RoomNumber != "" {
			b.askConfirmBooking(ctx, chatID, state)
			return
		}

		b.setUserState(ctx, state)
		b.showSearchResults(ctx, chatID, state, 0, 0)

	case models.StepConfirmBooking:
		b.sendMessage(chatID, "Подтвердите или отмените бронирование кнопками выше.")
	}
}

func (b *Bot) showSearchResults(ctx context.Context, chatID int64, state *models.GuestState, page, messageID int) {
	rooms, err := b.bookings.SearchAvailable(ctx, state.CheckIn, state.CheckOut)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if len(rooms) == 0 {
		b.clearUserState(ctx, state.UserID)
		b.sendWithKeyboard(chatID, "😔 На эти даты свободных номеров нет. Попробуйте другие даты: /search", b.mainMenuKeyboard())
		return
	}

	title := fmt.Sprintf("🔍 *Свободные номера*\n%s — %s",
		state.CheckIn.Format("02.01.2006"), state.CheckOut.Format("02.01.2006"))
	b.renderPaginatedRooms(PaginationParams{
		ChatID:     chatID,
		MessageID:  messageID,
		Page:       page,
		Title:      title,
		PagePrefix: "search_page:",
	}, rooms)
}

func (b *Bot) askConfirmBooking(ctx context.Context, chatID int64, state *models.GuestState) {
	if !b.auth.IsAuthenticated() {
		b.sendMessage(chatID, "🔐 Для бронирования нужно войти в аккаунт: /login")
		return
	}

	room, err := b.rooms.Detail(ctx, state.RoomNumber)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	state.Step = models.StepConfirmBooking
	b.setUserState(ctx, state)

	nights := state.CheckIn.DaysUntil(state.CheckOut)
	summary := fmt.Sprintf(
		"📋 *Проверьте бронирование:*\n\n🏨 %s (№%s)\n📅 %s — %s (%d ноч.)\n💰 %s ₽/ночь\n",
		room.Name, room.Number,
		state.CheckIn.Format("02.01.2006"), state.CheckOut.Format("02.01.2006"),
		nights, room.PricePerNight)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", "confirm_booking"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", "cancel_booking"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, summary)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	b.tg.Send(msg)
}

func (b *Bot) finalizeBooking(ctx context.Context, userID, chatID int64) {
	state := b.getUserState(ctx, userID)
	if state.Step != models.StepConfirmBooking || state.RoomNumber == "" {
		b.sendMessage(chatID, "Нечего подтверждать. Начните с поиска: /search")
		return
	}

	booking, err := b.bookings.CreateBooking(ctx, state.RoomNumber, state.CheckIn, state.CheckOut)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	b.clearUserState(ctx, userID)
	b.sendWithKeyboard(chatID,
		fmt.Sprintf("🎉 Бронирование #%d создано!\n\n%s", booking.ID, formatBooking(*booking)),
		b.mainMenuKeyboard())
}

// startLogin запускает диалог входа.
func (b *Bot) startLogin(ctx context.Context, userID, chatID int64) {
	if b.auth.IsAuthenticated() {
		b.sendMessage(chatID, "Вы уже вошли. Сначала выйдите: /logout")
		return
	}
	state := &models.GuestState{UserID: userID, Step: models.StepLoginUsername}
	b.setUserState(ctx, state)
	b.sendWithKeyboard(chatID, "🔐 Введите логин:", cancelKeyboard())
}

func (b *Bot) handleLoginFlow(ctx context.Context, update tgbotapi.Update, state *models.GuestState) {
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	switch state.Step {
	case models.StepLoginUsername:
		state.SetField("username", text)
		state.Step = models.StepLoginPassword
		b.setUserState(ctx, state)
		b.sendMessage(chatID, "Введите пароль:")

	case models.StepLoginPassword:
		username := state.Field("username")
		b.clearUserState(ctx, state.UserID)

		// Сообщение с паролем лучше убрать из чата
		deleteMsg := tgbotapi.NewDeleteMessage(chatID, update.Message.MessageID)
		if _, err := b.tg.Request(deleteMsg); err != nil {
			b.logger.Warn().Err(err).Msg("Failed to delete password message")
		}

		if err := b.auth.Login(ctx, username, text); err != nil {
			b.sendMessage(chatID, b.getErrorMessage(err)+"\nПопробуйте еще раз: /login")
			return
		}

		greeting := "✅ Вы вошли в аккаунт!"
		if profile, err := b.auth.Profile(ctx); err == nil && profile.FirstName != "" {
			greeting = fmt.Sprintf("✅ Добро пожаловать, %s!", profile.FirstName)
		}
		b.sendWithKeyboard(chatID, greeting, b.mainMenuKeyboard())
	}
}

// Порядок шагов регистрации
var registerSteps = []struct {
	step   string
	field  string
	prompt string
}{
	{models.StepRegisterUsername, "username", "Введите логин (от 3 символов):"},
	{models.StepRegisterEmail, "email", "Введите email:"},
	{models.StepRegisterFirst, "first_name", "Введите имя:"},
	{models.StepRegisterLast, "last_name", "Введите фамилию:"},
	{models.StepRegisterPhone, "phone_number", "Введите номер телефона:"},
	{models.StepRegisterPassword, "password", "Придумайте пароль (от 8 символов):"},
	{models.StepRegisterRepeat, "password2", "Повторите пароль:"},
}

// startRegister запускает последовательную анкету регистрации.
func (b *Bot) startRegister(ctx context.Context, userID, chatID int64) {
	if b.auth.IsAuthenticated() {
		b.sendMessage(chatID, "Вы уже вошли. Сначала выйдите: /logout")
		return
	}
	state := &models.GuestState{UserID: userID, Step: registerSteps[0].step}
	b.setUserState(ctx, state)
	b.sendWithKeyboard(chatID, "📝 Регистрация.\n"+registerSteps[0].prompt, cancelKeyboard())
}

func (b *Bot) handleRegisterFlow(ctx context.Context, update tgbotapi.Update, state *models.GuestState) {
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	idx := -1
	for i, s := range registerSteps {
		if s.step == state.Step {
			idx = i
			break
		}
	}
	if idx < 0 {
		b.clearUserState(ctx, state.UserID)
		b.showMainMenu(ctx, chatID)
		return
	}

	state.SetField(registerSteps[idx].field, text)

	// Пароли не должны оставаться в чате
	if registerSteps[idx].step == models.StepRegisterPassword || registerSteps[idx].step == models.StepRegisterRepeat {
		deleteMsg := tgbotapi.NewDeleteMessage(chatID, update.Message.MessageID)
		if _, err := b.tg.Request(deleteMsg); err != nil {
			b.logger.Warn().Err(err).Msg("Failed to delete password message")
		}
	}

	if idx+1 < len(registerSteps) {
		state.Step = registerSteps[idx+1].step
		b.setUserState(ctx, state)
		b.sendMessage(chatID, registerSteps[idx+1].prompt)
		return
	}

	// Анкета собрана
	form := domain.RegisterForm{
		Username:    state.Field("username"),
		Password:    state.Field("password"),
		Password2:   state.Field("password2"),
		Email:       state.Field("email"),
		FirstName:   state.Field("first_name"),
		LastName:    state.Field("last_name"),
		PhoneNumber: state.Field("phone_number"),
	}
	b.clearUserState(ctx, state.UserID)

	if err := b.auth.Register(ctx, form); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err)+"\nПопробуйте еще раз: /register")
		return
	}

	b.sendWithKeyboard(chatID,
		fmt.Sprintf("🎉 Аккаунт создан, вы уже вошли. Добро пожаловать, %s!", form.FirstName),
		b.mainMenuKeyboard())
}
