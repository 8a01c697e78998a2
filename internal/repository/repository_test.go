package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotelbot/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStateRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	repo := NewRedisStateRepository(client, time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetState", func(t *testing.T) {
		state := &models.GuestState{
			UserID:     123,
			Step:       models.StepSearchCheckIn,
			RoomNumber: "101",
		}
		state.SetField("check_in", "2026-09-10")

		err := repo.SetState(ctx, state)
		require.NoError(t, err)

		got, err := repo.GetState(ctx, 123)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, state.UserID, got.UserID)
		assert.Equal(t, state.Step, got.Step)
		assert.Equal(t, state.RoomNumber, got.RoomNumber)
		assert.Equal(t, "2026-09-10", got.Field("check_in"))
	})

	t.Run("GetNonExistentState", func(t *testing.T) {
		got, err := repo.GetState(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("StateExpires", func(t *testing.T) {
		short := NewRedisStateRepository(client, time.Minute)
		require.NoError(t, short.SetState(ctx, &models.GuestState{UserID: 321, Step: models.StepMainMenu}))

		s.FastForward(2 * time.Minute)

		got, err := short.GetState(ctx, 321)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ClearState", func(t *testing.T) {
		state := &models.GuestState{UserID: 456, Step: models.StepConfirmBooking}
		repo.SetState(ctx, state)

		err := repo.ClearState(ctx, 456)
		require.NoError(t, err)

		got, _ := repo.GetState(ctx, 456)
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		userID := int64(789)
		limit := 2
		window := time.Second

		allowed, err := repo.CheckRateLimit(ctx, userID, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, userID, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		// Превышение лимита
		allowed, err = repo.CheckRateLimit(ctx, userID, limit, window)
		require.NoError(t, err)
		assert.False(t, allowed)

		s.FastForward(window + time.Millisecond)

		allowed, err = repo.CheckRateLimit(ctx, userID, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("NilClient", func(t *testing.T) {
		repo := NewRedisStateRepository(nil, time.Hour)
		_, err := repo.GetState(ctx, 123)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
	})
}

func TestMemoryStateRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStateRepository(time.Hour)

	t.Run("SetAndGetState", func(t *testing.T) {
		state := &models.GuestState{UserID: 1, Step: models.StepLoginUsername}
		require.NoError(t, repo.SetState(ctx, state))

		got, err := repo.GetState(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.StepLoginUsername, got.Step)
	})

	t.Run("ClearState", func(t *testing.T) {
		repo.SetState(ctx, &models.GuestState{UserID: 2, Step: models.StepMainMenu})
		require.NoError(t, repo.ClearState(ctx, 2))

		got, err := repo.GetState(ctx, 2)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("StateExpires", func(t *testing.T) {
		short := NewMemoryStateRepository(time.Nanosecond)
		short.SetState(ctx, &models.GuestState{UserID: 3, Step: models.StepMainMenu})
		time.Sleep(time.Millisecond)

		got, err := short.GetState(ctx, 3)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		allowed, err := repo.CheckRateLimit(ctx, 4, 1, time.Hour)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, 4, 1, time.Hour)
		require.NoError(t, err)
		assert.False(t, allowed)
	})
}

// failingStateRepository всегда возвращает ошибку.
type failingStateRepository struct{}

func (failingStateRepository) GetState(ctx context.Context, userID int64) (*models.GuestState, error) {
	return nil, errors.New("connection refused")
}

func (failingStateRepository) SetState(ctx context.Context, state *models.GuestState) error {
	return errors.New("connection refused")
}

func (failingStateRepository) ClearState(ctx context.Context, userID int64) error {
	return errors.New("connection refused")
}

func (failingStateRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}

func TestFailoverStateRepository(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("UsesPrimaryWhenHealthy", func(t *testing.T) {
		primary := NewMemoryStateRepository(time.Hour)
		fallback := NewMemoryStateRepository(time.Hour)
		repo := NewFailoverStateRepository(primary, fallback, &logger)

		require.NoError(t, repo.SetState(ctx, &models.GuestState{UserID: 10, Step: models.StepMainMenu}))

		got, err := primary.GetState(ctx, 10)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("FallsBackOnFailure", func(t *testing.T) {
		fallback := NewMemoryStateRepository(time.Hour)
		repo := NewFailoverStateRepository(failingStateRepository{}, fallback, &logger)

		require.NoError(t, repo.SetState(ctx, &models.GuestState{UserID: 11, Step: models.StepConfirmBooking}))

		got, err := repo.GetState(ctx, 11)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.StepConfirmBooking, got.Step)
	})

	t.Run("RateLimitFallsBack", func(t *testing.T) {
		fallback := NewMemoryStateRepository(time.Hour)
		repo := NewFailoverStateRepository(failingStateRepository{}, fallback, &logger)

		allowed, err := repo.CheckRateLimit(ctx, 12, 1, time.Hour)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}
