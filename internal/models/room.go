package models

import "time"

// Room is a hotel room as served by the remote API. The room number is the
// unique key; rooms are read-only on the client side.
type Room struct {
	Number        string      `json:"room_number"`
	Name          string      `json:"room_name"`
	Type          string      `json:"room_type"`
	PricePerNight string      `json:"price_per_night"`
	Capacity      int64       `json:"capacity"`
	Description   string      `json:"description"`
	Photos        []RoomPhoto `json:"photos,omitempty"`
}

type RoomPhoto struct {
	Image      string    `json:"image"`
	UploadedAt time.Time `json:"uploaded_at,omitempty"`
}
