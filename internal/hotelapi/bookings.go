package hotelapi

import (
	"context"

	"hotelbot/internal/models"
)

// CreateBookingRequest carries the create-booking payload. Dates go over the
// wire as YYYY-MM-DD.
type CreateBookingRequest struct {
	RoomID   string      `json:"room_id"`
	CheckIn  models.Date `json:"check_in_date"`
	CheckOut models.Date `json:"check_out_date"`
}

// ListBookings returns the signed-in user's booking history.
func (a *API) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := a.c.Get(ctx, "users/bookings/", &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBooking books a room for the date range. Conflicts come back as an
// error with the server's detail message.
func (a *API) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	var booking models.Booking
	if err := a.c.Post(ctx, "users/bookings/", req, &booking); err != nil {
		return nil, err
	}

	// a new booking can shrink availability windows
	a.c.InvalidateCache(ctx, CacheKeyRooms)
	return &booking, nil
}
