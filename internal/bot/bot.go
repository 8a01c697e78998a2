package bot

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"hotelbot/internal/config"
	"hotelbot/internal/domain"
	"hotelbot/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Bot struct {
	tg           domain.TelegramSender
	config       *config.Config
	stateService domain.StateManager
	auth         domain.Authenticator
	rooms        domain.RoomCatalog
	bookings     domain.BookingDesk
	eventBus     *events.EventBus
	metrics      *Metrics
	logger       *zerolog.Logger

	// Чат последнего активного диалога; сюда уходят уведомления о сессии
	activeChatID atomic.Int64
}

func NewBot(
	tg domain.TelegramSender,
	cfg *config.Config,
	stateService domain.StateManager,
	auth domain.Authenticator,
	rooms domain.RoomCatalog,
	bookings domain.BookingDesk,
	eventBus *events.EventBus,
	metrics *Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if eventBus == nil {
		eventBus = events.NewEventBus()
	}

	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	b := &Bot{
		tg:           tg,
		config:       cfg,
		stateService: stateService,
		auth:         auth,
		rooms:        rooms,
		bookings:     bookings,
		eventBus:     eventBus,
		metrics:      metrics,
		logger:       logger,
	}

	b.subscribeSessionEvents()
	return b, nil
}

// subscribeSessionEvents подписывает бота на события сессии: вместо жесткого
// редиректа пользователь получает приглашение войти заново.
func (b *Bot) subscribeSessionEvents() {
	b.eventBus.Subscribe(events.EventSessionExpired, func(e *events.Event) error {
		chatID := b.activeChatID.Load()
		if chatID == 0 {
			return nil
		}
		b.sendMessage(chatID, "⚠️ Ваша сессия истекла. Войдите заново: /login")
		return nil
	})

	b.eventBus.Subscribe(events.EventBookingCreated, func(e *events.Event) error {
		if b.metrics != nil {
			b.metrics.BookingsCreated.Inc()
		}
		return nil
	})
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tg.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tg.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		var userID, chatID int64
		if update.Message != nil {
			userID = update.Message.From.ID
			chatID = update.Message.Chat.ID
		} else if update.CallbackQuery != nil {
			userID = update.CallbackQuery.From.ID
			if update.CallbackQuery.Message != nil {
				chatID = update.CallbackQuery.Message.Chat.ID
			}
		}

		if userID == 0 {
			return
		}

		// Личный бот: чужие апдейты игнорируются
		if !b.config.Telegram.IsAllowed(userID) {
			l.Warn().Int64("user_id", userID).Msg("Update from unknown user ignored")
			return
		}

		if chatID != 0 {
			b.activeChatID.Store(chatID)
		}

		allowed, err := b.stateService.CheckRateLimit(updateCtx, userID,
			b.config.Bot.RateLimitMessages,
			time.Duration(b.config.Bot.RateLimitWindow)*time.Second)
		if err != nil {
			l.Error().Err(err).Int64("user_id", userID).Msg("Rate limit check failed")
		} else if !allowed {
			l.Warn().Int64("user_id", userID).Msg("Rate limit exceeded")
			if update.Message != nil {
				b.sendMessage(chatID, "⚠️ Вы отправляете сообщения слишком часто. Пожалуйста, подождите немного.")
			}
			return
		}

		if b.metrics != nil {
			b.metrics.MessagesProcessed.Inc()
		}

		if update.CallbackQuery != nil {
			b.handleCallbackQuery(updateCtx, update)
			return
		}

		if update.Message == nil {
			return
		}

		b.handleMessage(updateCtx, update)
	})
}
