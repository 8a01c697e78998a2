package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"hotelbot/internal/bot"
	"hotelbot/internal/client"
	"hotelbot/internal/config"
	"hotelbot/internal/database"
	"hotelbot/internal/events"
	"hotelbot/internal/hotelapi"
	"hotelbot/internal/logging"
	"hotelbot/internal/metrics"
	"hotelbot/internal/models"
	"hotelbot/internal/monitoring"
	"hotelbot/internal/repository"
	"hotelbot/internal/service"
	"hotelbot/internal/session"
	"hotelbot/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	metrics.Register()

	db, err := database.NewDB(cfg.Storage.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, stateService := initStateService(ctx, cfg, &logger)
	defer repository.Close(redisClient)

	eventBus := events.NewEventBus()

	// Сессия с зеркалом токенов в SQLite
	sessionStore := session.NewStore(db, &logger)

	api := buildHotelAPI(cfg, sessionStore, redisClient, eventBus, &logger)

	authService := service.NewAuthService(api, sessionStore, eventBus, &logger)
	if err := authService.RestoreSession(ctx); err != nil {
		logger.Warn().Err(err).Msg("Не удалось восстановить сессию")
	}

	// Фоновая синхронизация: прогрев кеша каталога и зеркало истории
	warmInterval := time.Duration(cfg.Bot.WarmIntervalMinutes) * time.Minute
	syncWorker := worker.NewSyncWorker(api, db, redisClient, worker.RetryPolicy{}, warmInterval, &logger)
	go syncWorker.Start(ctx)

	roomService := service.NewRoomService(api, &logger)
	bookingService := service.NewBookingService(api, db, eventBus, syncWorker, cfg.Bot.MaxAdvanceDays, &logger)
	botMetrics := bot.NewMetrics()

	if cfg.Monitoring.Enabled {
		monServer := monitoring.NewServer(cfg.Monitoring.Port, db, redisClient, &logger)
		go monServer.Start(ctx)
	}

	return startBot(ctx, cfg, stateService, authService, roomService, bookingService, eventBus, botMetrics, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "bot-main").Logger()

	return cfg, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для базы данных")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
		return err
	}
	return nil
}

func initStateService(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *service.StateService) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	ttl := time.Duration(models.DefaultStateTTL) * time.Second
	primaryRepo := repository.NewRedisStateRepository(redisClient, ttl)
	fallbackRepo := repository.NewMemoryStateRepository(ttl)
	stateRepo := repository.NewFailoverStateRepository(primaryRepo, fallbackRepo, logger)
	return redisClient, service.NewStateService(stateRepo, logger)
}

// buildHotelAPI собирает HTTP-клиент с перехватчиками авторизации поверх
// типизированных привязок API отеля.
func buildHotelAPI(cfg *config.Config, store *session.Store, redisClient *redis.Client, eventBus *events.EventBus, logger *zerolog.Logger) *hotelapi.API {
	auth := client.NewAuthInterceptor(store, cfg.HotelAPI.BaseURL, eventBus, logger)

	opts := []client.Option{
		client.WithLogger(logger),
		client.WithTimeout(time.Duration(cfg.HotelAPI.TimeoutSeconds) * time.Second),
		client.WithRequestInterceptor(auth.Request()),
		client.WithResponseHook(auth.Response()),
	}
	if cfg.HotelAPI.RateLimit.RPS > 0 {
		opts = append(opts, client.WithRateLimit(cfg.HotelAPI.RateLimit.RPS, cfg.HotelAPI.RateLimit.Burst))
	}
	if redisClient != nil {
		cacheTTL := time.Duration(cfg.HotelAPI.CacheTTLSeconds) * time.Second
		opts = append(opts, client.WithRedisCache(redisClient, cacheTTL))
	}

	return hotelapi.New(client.New(cfg.HotelAPI.BaseURL, opts...))
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	stateService *service.StateService,
	authService *service.AuthService,
	roomService *service.RoomService,
	bookingService *service.BookingService,
	eventBus *events.EventBus,
	botMetrics *bot.Metrics,
	logger *zerolog.Logger,
) error {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	telegramBot, err := bot.NewBot(
		bot.NewBotWrapper(botAPI), cfg, stateService, authService,
		roomService, bookingService, eventBus, botMetrics, logger,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания бота")
		return err
	}

	logger.Info().Msg("Бот запущен...")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}
