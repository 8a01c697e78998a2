package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"hotelbot/internal/models"
)

// Credential row names. Fixed keys per the storage contract.
const (
	credAccessToken  = "access_token"
	credRefreshToken = "refresh_token"
)

func (db *DB) setCredential(ctx context.Context, name, value string) error {
	_, err := db.ExecContext(ctx, `INSERT INTO credentials (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, value, time.Now())
	return err
}

func (db *DB) getCredential(ctx context.Context, name string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SaveTokens stores the full token pair.
func (db *DB) SaveTokens(ctx context.Context, access, refresh string) error {
	if err := db.setCredential(ctx, credAccessToken, access); err != nil {
		return err
	}
	return db.setCredential(ctx, credRefreshToken, refresh)
}

// SaveAccessToken overwrites only the access token, keeping the refresh token.
func (db *DB) SaveAccessToken(ctx context.Context, access string) error {
	return db.setCredential(ctx, credAccessToken, access)
}

// LoadTokens returns the persisted pair; empty strings when absent.
func (db *DB) LoadTokens(ctx context.Context) (string, string, error) {
	access, err := db.getCredential(ctx, credAccessToken)
	if err != nil {
		return "", "", err
	}
	refresh, err := db.getCredential(ctx, credRefreshToken)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ClearTokens removes both tokens.
func (db *DB) ClearTokens(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `DELETE FROM credentials WHERE name IN (?, ?)`,
		credAccessToken, credRefreshToken)
	return err
}

// SaveProfile caches the user profile locally.
func (db *DB) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `INSERT INTO profile (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		string(payload), time.Now())
	return err
}

// LoadProfile returns the cached profile, or nil when none was stored.
func (db *DB) LoadProfile(ctx context.Context) (*models.UserProfile, error) {
	var payload string
	err := db.QueryRowContext(ctx, `SELECT payload FROM profile WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ClearProfile drops the cached profile.
func (db *DB) ClearProfile(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `DELETE FROM profile WHERE id = 1`)
	return err
}
