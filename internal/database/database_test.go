package database

import (
	"context"
	"path/filepath"
	"testing"

	"hotelbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "hotelbot.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTokensRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	access, refresh, err := db.LoadTokens(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)
	assert.Empty(t, refresh)

	require.NoError(t, db.SaveTokens(ctx, "A1", "R1"))
	access, refresh, err = db.LoadTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A1", access)
	assert.Equal(t, "R1", refresh)

	require.NoError(t, db.SaveAccessToken(ctx, "A2"))
	access, refresh, err = db.LoadTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A2", access)
	assert.Equal(t, "R1", refresh, "refresh untouched by access-only save")

	require.NoError(t, db.ClearTokens(ctx))
	access, refresh, err = db.LoadTokens(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestTokensSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hotelbot.db")
	ctx := context.Background()

	db, err := NewDB(path, nil)
	require.NoError(t, err)
	require.NoError(t, db.SaveTokens(ctx, "A1", "R1"))
	require.NoError(t, db.Close())

	// simulated process restart
	db, err = NewDB(path, nil)
	require.NoError(t, err)
	defer db.Close()

	access, refresh, err := db.LoadTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A1", access)
	assert.Equal(t, "R1", refresh)
}

func TestProfileRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	got, err := db.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	profile := &models.UserProfile{ID: 3, Username: "alice", Email: "alice@example.com"}
	require.NoError(t, db.SaveProfile(ctx, profile))

	got, err = db.LoadProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *profile, *got)

	require.NoError(t, db.ClearProfile(ctx))
	got, err = db.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestBookingsMirror(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := []models.Booking{
		{
			ID:         1,
			Room:       models.Room{Number: "101", Name: "Стандарт"},
			CheckIn:    mustDate(t, "2025-06-01"),
			CheckOut:   mustDate(t, "2025-06-03"),
			TotalPrice: "5000.00",
			Status:     models.StatusPending,
			CreatedAt:  mustDate(t, "2025-05-20"),
		},
		{
			ID:         2,
			Room:       models.Room{Number: "205", Name: "Люкс"},
			CheckIn:    mustDate(t, "2025-07-10"),
			CheckOut:   mustDate(t, "2025-07-12"),
			TotalPrice: "18000.00",
			Status:     models.StatusConfirmed,
			CreatedAt:  mustDate(t, "2025-05-22"),
		},
	}

	require.NoError(t, db.ReplaceBookings(ctx, first))

	got, err := db.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID, "newest check-in first")
	assert.Equal(t, "205", got[0].Room.Number)
	assert.Equal(t, "2025-06-01", got[1].CheckIn.String())

	// next sync replaces the snapshot wholesale
	require.NoError(t, db.ReplaceBookings(ctx, first[:1]))
	n, err := db.CountBookings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
