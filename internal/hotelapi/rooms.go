package hotelapi

import (
	"context"
	"fmt"
	"net/url"

	"hotelbot/internal/models"
)

// ListRooms returns the full room catalog.
func (a *API) ListRooms(ctx context.Context) ([]models.Room, error) {
	var wrap struct {
		Rooms []models.Room `json:"rooms"`
	}
	if err := a.c.GetCached(ctx, "rooms/", CacheKeyRooms, &wrap); err != nil {
		return nil, err
	}
	return wrap.Rooms, nil
}

// RoomDetail returns one room with photos.
func (a *API) RoomDetail(ctx context.Context, number string) (*models.Room, error) {
	var room models.Room
	path := fmt.Sprintf("rooms/%s/", url.PathEscape(number))
	if err := a.c.GetCached(ctx, path, CacheKeyRoom(number), &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// SearchAvailable returns rooms free for the whole date range.
func (a *API) SearchAvailable(ctx context.Context, checkIn, checkOut models.Date) ([]models.Room, error) {
	query := url.Values{}
	query.Set("check_in_date", checkIn.String())
	query.Set("check_out_date", checkOut.String())

	var wrap struct {
		AvailableRooms []models.Room `json:"available_rooms"`
	}
	path := "rooms/available/?" + query.Encode()
	cacheKey := CacheKeyAvailability(checkIn.String(), checkOut.String())
	if err := a.c.GetCached(ctx, path, cacheKey, &wrap); err != nil {
		return nil, err
	}
	return wrap.AvailableRooms, nil
}
