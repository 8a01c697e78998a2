package database

import (
	"context"
	"fmt"
	"time"

	"hotelbot/internal/models"
)

// ReplaceBookings swaps the local booking mirror with a fresh server snapshot.
func (db *DB) ReplaceBookings(ctx context.Context, bookings []models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings`); err != nil {
		return fmt.Errorf("clear mirror: %w", err)
	}

	now := time.Now()
	for _, b := range bookings {
		_, err := tx.ExecContext(ctx, `INSERT INTO bookings
			(id, room_number, room_name, check_in, check_out, total_price, status, created_at, synced_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.Room.Number, b.Room.Name, b.CheckIn.String(), b.CheckOut.String(),
			b.TotalPrice, b.Status, b.CreatedAt.String(), now)
		if err != nil {
			return fmt.Errorf("insert booking %d: %w", b.ID, err)
		}
	}

	return tx.Commit()
}

// ListBookings returns the mirrored history, newest check-in first.
func (db *DB) ListBookings(ctx context.Context) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, room_number, room_name, check_in, check_out, total_price, status, created_at
		FROM bookings ORDER BY check_in DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Booking
	for rows.Next() {
		var b models.Booking
		var checkIn, checkOut, createdAt string
		if err := rows.Scan(&b.ID, &b.Room.Number, &b.Room.Name, &checkIn, &checkOut,
			&b.TotalPrice, &b.Status, &createdAt); err != nil {
			return nil, err
		}
		if b.CheckIn, err = models.ParseDate(checkIn); err != nil {
			return nil, fmt.Errorf("booking %d: %w", b.ID, err)
		}
		if b.CheckOut, err = models.ParseDate(checkOut); err != nil {
			return nil, fmt.Errorf("booking %d: %w", b.ID, err)
		}
		if createdAt != "" {
			if b.CreatedAt, err = models.ParseDate(createdAt); err != nil {
				return nil, fmt.Errorf("booking %d: %w", b.ID, err)
			}
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

// CountBookings returns the mirror size.
func (db *DB) CountBookings(ctx context.Context) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&n)
	return n, err
}
