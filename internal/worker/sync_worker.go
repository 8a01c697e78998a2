package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelbot/internal/client"
	"hotelbot/internal/database"
	"hotelbot/internal/domain"
	"hotelbot/internal/hotelapi"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SyncWorker прогревает кеш каталога и обновляет локальное зеркало
// бронирований в фоне, чтобы горячие команды бота отвечали из кеша.
type SyncWorker struct {
	api          *hotelapi.API
	db           *database.DB
	redis        *redis.Client
	retryPolicy  RetryPolicy
	queue        chan string
	warmInterval time.Duration
	logger       zerolog.Logger
}

func NewSyncWorker(api *hotelapi.API, db *database.DB, redisClient *redis.Client, retry RetryPolicy, warmInterval time.Duration, logger *zerolog.Logger) *SyncWorker {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "sync_worker").Logger()
	}
	return &SyncWorker{
		api:          api,
		db:           db,
		redis:        redisClient,
		retryPolicy:  retry.withDefaults(),
		queue:        make(chan string, 64),
		warmInterval: warmInterval,
		logger:       l,
	}
}

// Enqueue ставит задачу в очередь, не блокируя вызывающего.
func (w *SyncWorker) Enqueue(ctx context.Context, taskType string) error {
	switch taskType {
	case domain.TaskWarmRooms, domain.TaskMirrorBookings:
	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	select {
	case w.queue <- taskType:
		return nil
	default:
		return errors.New("sync queue is full")
	}
}

// Start запускает цикл обработки; останавливается по ctx.
func (w *SyncWorker) Start(ctx context.Context) {
	w.logger.Info().Dur("warm_interval", w.warmInterval).Msg("sync worker started")
	defer w.logger.Info().Msg("sync worker stopped")

	var warm <-chan time.Time
	if w.warmInterval > 0 {
		ticker := time.NewTicker(w.warmInterval)
		defer ticker.Stop()
		warm = ticker.C

		// Первичный прогрев сразу после старта
		w.runWithRetries(ctx, domain.TaskWarmRooms)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case taskType := <-w.queue:
			w.runWithRetries(ctx, taskType)
		case <-warm:
			w.runWithRetries(ctx, domain.TaskWarmRooms)
		}
	}
}

func (w *SyncWorker) runWithRetries(ctx context.Context, taskType string) {
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		err := w.runTask(ctx, taskType)
		if err == nil {
			if attempt > 1 {
				w.logger.Info().Str("task", taskType).Int("attempt", attempt).Msg("task recovered")
			}
			return
		}

		// 401 означает отсутствие сессии, а не сбой: повтор бессмыслен
		if client.IsUnauthorized(err) {
			w.logger.Debug().Str("task", taskType).Msg("skipping task, not authenticated")
			return
		}

		if attempt == w.retryPolicy.MaxRetries {
			w.logger.Error().Err(err).Str("task", taskType).Msg("task failed, giving up")
			return
		}

		delay := w.retryPolicy.NextDelay(attempt)
		w.logger.Warn().Err(err).Str("task", taskType).Dur("retry_in", delay).Msg("task failed, will retry")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

func (w *SyncWorker) runTask(ctx context.Context, taskType string) error {
	switch taskType {
	case domain.TaskWarmRooms:
		return w.warmRooms(ctx)
	case domain.TaskMirrorBookings:
		return w.mirrorBookings(ctx)
	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}
}

// warmRooms сбрасывает кеш каталога и сразу наполняет его свежим ответом.
func (w *SyncWorker) warmRooms(ctx context.Context) error {
	if w.redis != nil {
		if err := w.redis.Del(ctx, hotelapi.CacheKeyRooms).Err(); err != nil {
			w.logger.Warn().Err(err).Msg("failed to drop rooms cache")
		}
	}

	rooms, err := w.api.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("warm rooms: %w", err)
	}

	w.logger.Debug().Int("rooms", len(rooms)).Msg("rooms cache warmed")
	return nil
}

// mirrorBookings переносит историю бронирований с сервера в SQLite.
func (w *SyncWorker) mirrorBookings(ctx context.Context) error {
	bookings, err := w.api.ListBookings(ctx)
	if err != nil {
		return fmt.Errorf("mirror bookings: %w", err)
	}

	if w.db != nil {
		if err := w.db.ReplaceBookings(ctx, bookings); err != nil {
			return fmt.Errorf("replace bookings mirror: %w", err)
		}
	}

	w.logger.Debug().Int("bookings", len(bookings)).Msg("bookings mirror refreshed")
	return nil
}
