// Package hotelapi holds the thin typed bindings of the remote hotel API:
// one function per operation, one HTTP call each, no retries or validation.
package hotelapi

import (
	"fmt"

	"hotelbot/internal/client"
)

// Cache keys for the idempotent GET endpoints.
const (
	CacheKeyRooms = "hotel:rooms"
)

// CacheKeyRoom returns the detail cache key for a room number.
func CacheKeyRoom(number string) string {
	return "hotel:room:" + number
}

// CacheKeyAvailability returns the cache key for a search window.
func CacheKeyAvailability(checkIn, checkOut string) string {
	return fmt.Sprintf("hotel:availability:%s:%s", checkIn, checkOut)
}

// API maps domain operations to calls through the shared client.
type API struct {
	c *client.Client
}

func New(c *client.Client) *API {
	return &API{c: c}
}
